package repository

import (
	"context"
	"errors"

	"notes-vault/internal/model"
)

var (
	// ErrNoteNotFound возвращается, когда записи с таким ключом нет
	ErrNoteNotFound = errors.New("note not found")

	// ErrCorruptRecord возвращается, когда сохраненную запись не удалось прочитать.
	// Это повреждение хранилища, а не ошибка клиента.
	ErrCorruptRecord = errors.New("corrupt note record")
)

// NoteRepository упорядоченное долговечное отображение internal_key -> Note.
// Итерация идет по возрастанию InternalKey.
type NoteRepository interface {
	// Get возвращает заметку по ключу или ErrNoteNotFound
	Get(ctx context.Context, key uint64) (model.Note, error)

	// Insert сохраняет заметку под note.InternalKey, перезаписывая существующую
	Insert(ctx context.Context, note model.Note) error

	// Remove удаляет заметку и возвращает удаленное значение или ErrNoteNotFound
	Remove(ctx context.Context, key uint64) (model.Note, error)

	// Iterate вызывает fn для каждой заметки по возрастанию ключа, пока fn возвращает true
	Iterate(ctx context.Context, fn func(model.Note) bool) error

	// Len возвращает количество заметок
	Len(ctx context.Context) (uint64, error)

	// Update выполняет fn и атомарно применяет накопленные в Tx изменения.
	// Если fn или кодирование вернули ошибку, ничего не записывается.
	Update(ctx context.Context, fn func(tx Tx) error) error
}

// Tx накапливает изменения для атомарной записи
type Tx interface {
	Insert(note model.Note) error
	Remove(key uint64)
}

// Allocator выдает новые internal_key: каждое значение строго больше всех выданных ранее,
// и это переживает перезапуск
type Allocator interface {
	Next(ctx context.Context) (uint64, error)
}

// Store пара хранилище + аллокатор, которой владеет сервис заметок
type Store interface {
	NoteRepository
	Allocator
	Close() error
}

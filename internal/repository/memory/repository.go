package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"notes-vault/internal/converter"
	"notes-vault/internal/model"
	"notes-vault/internal/repository"
)

var _ repository.Store = (*repo)(nil)

type repo struct {
	mu      sync.RWMutex
	notes   map[uint64]model.Note
	nextKey uint64
}

// NewRepository создает новый экземпляр in-memory репозитория на основе map.
// Данные не переживают перезапуск процесса; используется в тестах и при storage.driver=memory.
func NewRepository() repository.Store {
	return &repo{
		notes:   make(map[uint64]model.Note),
		nextKey: 1,
	}
}

// Get возвращает заметку по ключу
func (r *repo) Get(ctx context.Context, key uint64) (model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[key]
	if !exists {
		return model.Note{}, repository.ErrNoteNotFound
	}

	return note, nil
}

// Insert сохраняет заметку, перезаписывая существующую с тем же ключом
func (r *repo) Insert(ctx context.Context, note model.Note) error {
	// Проверяем размер так же, как долговечное хранилище
	if _, err := converter.EncodeRecord(note); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes[note.InternalKey] = note

	return nil
}

// Remove удаляет заметку по ключу
func (r *repo) Remove(ctx context.Context, key uint64) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, exists := r.notes[key]
	if !exists {
		return model.Note{}, repository.ErrNoteNotFound
	}

	delete(r.notes, key)

	return note, nil
}

// Iterate обходит заметки по возрастанию ключа
func (r *repo) Iterate(ctx context.Context, fn func(model.Note) bool) error {
	r.mu.RLock()
	keys := slices.Sorted(maps.Keys(r.notes))
	snapshot := make([]model.Note, 0, len(keys))
	for _, key := range keys {
		snapshot = append(snapshot, r.notes[key])
	}
	r.mu.RUnlock()

	for _, note := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(note) {
			break
		}
	}

	return nil
}

// Len возвращает количество заметок
func (r *repo) Len(ctx context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return uint64(len(r.notes)), nil
}

// Next выдает следующий ключ
func (r *repo) Next(ctx context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.nextKey
	r.nextKey++

	return key, nil
}

// Update применяет изменения из fn одним шагом под блокировкой
func (r *repo) Update(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx := &memTx{}
	if err := fn(tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, op := range tx.ops {
		if op.remove {
			delete(r.notes, op.key)
			continue
		}
		r.notes[op.note.InternalKey] = op.note
	}

	return nil
}

// Close ничего не делает
func (r *repo) Close() error {
	return nil
}

type memOp struct {
	remove bool
	key    uint64
	note   model.Note
}

type memTx struct {
	ops []memOp
}

func (t *memTx) Insert(note model.Note) error {
	if _, err := converter.EncodeRecord(note); err != nil {
		return err
	}
	t.ops = append(t.ops, memOp{key: note.InternalKey, note: note})
	return nil
}

func (t *memTx) Remove(key uint64) {
	t.ops = append(t.ops, memOp{remove: true, key: key})
}

package service

import (
	"context"

	"notes-vault/internal/model"
)

// NoteService интерфейс для бизнес-логики работы с заметками.
// owner всегда приходит от Access Gate; мутирующие операции с анонимным owner
// возвращают model.ErrUnauthenticated, не трогая хранилище.
type NoteService interface {
	// Create создает заметку с display_id = (число заметок owner) + 1
	Create(ctx context.Context, owner model.Identity, title, content string) (model.Note, error)

	// List возвращает заметки owner по возрастанию display_id; для анонимного - пустой список
	List(ctx context.Context, owner model.Identity) ([]model.Note, error)

	// Edit заменяет title и content заметки owner с указанным display_id
	Edit(ctx context.Context, owner model.Identity, displayID uint64, title, content string) (model.Note, error)

	// Delete удаляет заметку и перенумеровывает оставшиеся заметки owner
	Delete(ctx context.Context, owner model.Identity, displayID uint64) error

	// Watch подписывает на события owner; cancel отменяет подписку и закрывает канал
	Watch(owner model.Identity) (events <-chan model.NoteEvent, cancel func(), err error)
}

package auth

import (
	"context"

	"notes-vault/internal/model"
)

type callerKey struct{}

// NewContext сохраняет идентификатор вызывающего в контексте
func NewContext(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// FromContext возвращает идентификатор вызывающего; без него - анонимный
func FromContext(ctx context.Context) model.Identity {
	id, ok := ctx.Value(callerKey{}).(model.Identity)
	if !ok {
		return model.Anonymous
	}
	return id
}

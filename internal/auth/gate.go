package auth

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"google.golang.org/grpc/metadata"

	"notes-vault/internal/model"
)

const (
	// authorizationHeader - имя заголовка для авторизации в metadata
	authorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
)

var (
	// ErrInvalidAuthHeader заголовок есть, но не в формате "Bearer <token>"
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	// ErrUnknownToken токен не найден в таблице
	ErrUnknownToken = errors.New("invalid token")
)

// Gate определяет, кто вызывает сервис
type Gate interface {
	// ResolveCaller возвращает идентификатор вызывающего.
	// Без заголовка authorization вызывающий анонимный; ошибка означает
	// предъявленные, но неверные учетные данные.
	ResolveCaller(ctx context.Context) (model.Identity, error)

	// IsAnonymous проверяет, что идентификатор анонимный
	IsAnonymous(id model.Identity) bool
}

var _ Gate = (*TokenGate)(nil)

// TokenGate сопоставляет bearer-токены с principal по таблице из конфигурации.
// Таблицу можно заменить на лету (Reload) при изменении конфига.
type TokenGate struct {
	tokens atomic.Pointer[map[string]model.Identity]
}

// NewTokenGate создает Gate по таблице token -> principal
func NewTokenGate(tokens map[string]string) *TokenGate {
	g := &TokenGate{}
	g.Reload(tokens)
	return g
}

// Reload атомарно заменяет таблицу токенов.
// Записи с пустым или анонимным principal пропускаются.
func (g *TokenGate) Reload(tokens map[string]string) {
	table := make(map[string]model.Identity, len(tokens))
	for token, principal := range tokens {
		id := model.Identity(strings.TrimSpace(principal))
		token = strings.TrimSpace(token)
		if token == "" || id.IsAnonymous() {
			continue
		}
		table[token] = id
	}
	g.tokens.Store(&table)
}

// Size возвращает число активных токенов
func (g *TokenGate) Size() int {
	return len(*g.tokens.Load())
}

// ResolveCaller извлекает токен из metadata запроса
func (g *TokenGate) ResolveCaller(ctx context.Context) (model.Identity, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return model.Anonymous, nil
	}

	authHeaders := md.Get(authorizationHeader)
	if len(authHeaders) == 0 || strings.TrimSpace(authHeaders[0]) == "" {
		return model.Anonymous, nil
	}

	// Берем первое значение заголовка
	authHeader := authHeaders[0]
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return model.Anonymous, ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	id, ok := (*g.tokens.Load())[token]
	if !ok {
		return model.Anonymous, ErrUnknownToken
	}

	return id, nil
}

// IsAnonymous проверяет, что идентификатор анонимный
func (g *TokenGate) IsAnonymous(id model.Identity) bool {
	return id.IsAnonymous()
}

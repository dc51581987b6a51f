package model

import "errors"

// Ошибки домена. Сервис возвращает их (возможно обернутыми через %w),
// транспорт сопоставляет их с кодами gRPC.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("note not found")
	ErrForbidden       = errors.New("note belongs to another owner")
	ErrPayloadTooLarge = errors.New("note payload too large")
)

package model

import "strings"

// Identity идентификатор вызывающего (principal)
type Identity string

// Anonymous анонимный вызывающий
const Anonymous Identity = "anonymous"

// IsAnonymous проверяет, что идентификатор не указан или анонимный
func (id Identity) IsAnonymous() bool {
	trimmed := strings.TrimSpace(string(id))
	return trimmed == "" || Identity(trimmed) == Anonymous
}

func (id Identity) String() string {
	return string(id)
}

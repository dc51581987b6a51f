package model

// Note представляет заметку (доменная модель)
type Note struct {
	InternalKey uint64   // Ключ в хранилище, наружу не отдается
	DisplayID   uint64   // Порядковый номер заметки у владельца (1..N без пропусков)
	Title       string   // Заголовок заметки
	Content     string   // Содержание заметки
	Owner       Identity // Владелец, задается один раз при создании
}

// BelongsTo проверяет, что заметка принадлежит указанному владельцу
func (n *Note) BelongsTo(owner Identity) bool {
	return n.Owner == owner
}

// EventKind тип события изменения заметок
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventUpdated    EventKind = "updated"
	EventDeleted    EventKind = "deleted"
	EventRenumbered EventKind = "renumbered"
)

// NoteEvent событие об изменении заметки владельца
type NoteEvent struct {
	Kind      EventKind
	Owner     Identity
	DisplayID uint64 // Для renumbered: новый номер
	PrevID    uint64 // Для renumbered: прежний номер
	Title     string
}

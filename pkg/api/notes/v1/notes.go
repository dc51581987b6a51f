// Package notesv1 описывает API NotesService: сообщения, серверный интерфейс и клиент.
// Сообщения передаются по gRPC в JSON (см. Codec).
package notesv1

// Note заметка в том виде, в котором ее видит владелец
type Note struct {
	DisplayId uint64 `json:"display_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Owner     string `json:"owner,omitempty"`
}

func (x *Note) GetDisplayId() uint64 {
	if x != nil {
		return x.DisplayId
	}
	return 0
}

func (x *Note) GetTitle() string {
	if x != nil {
		return x.Title
	}
	return ""
}

func (x *Note) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

func (x *Note) GetOwner() string {
	if x != nil {
		return x.Owner
	}
	return ""
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"max=2048"`
	Content string `json:"content" validate:"max=2048"`
}

func (x *CreateNoteRequest) GetTitle() string {
	if x != nil {
		return x.Title
	}
	return ""
}

func (x *CreateNoteRequest) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

type CreateNoteResponse struct {
	Message string `json:"message"`
	Note    *Note  `json:"note,omitempty"`
}

type ListNotesRequest struct{}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

type EditNoteRequest struct {
	DisplayId uint64 `json:"display_id" validate:"required,gte=1"`
	Title     string `json:"title" validate:"max=2048"`
	Content   string `json:"content" validate:"max=2048"`
}

func (x *EditNoteRequest) GetDisplayId() uint64 {
	if x != nil {
		return x.DisplayId
	}
	return 0
}

func (x *EditNoteRequest) GetTitle() string {
	if x != nil {
		return x.Title
	}
	return ""
}

func (x *EditNoteRequest) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

type EditNoteResponse struct {
	Message string `json:"message"`
	Note    *Note  `json:"note,omitempty"`
}

type DeleteNoteRequest struct {
	DisplayId uint64 `json:"display_id" validate:"required,gte=1"`
}

func (x *DeleteNoteRequest) GetDisplayId() uint64 {
	if x != nil {
		return x.DisplayId
	}
	return 0
}

type DeleteNoteResponse struct {
	Message string `json:"message"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	Principal     string `json:"principal"`
	Authenticated bool   `json:"authenticated"`
}

type WatchNotesRequest struct{}

// NoteEvent событие об изменении заметок владельца
type NoteEvent struct {
	Kind              string `json:"kind"`
	DisplayId         uint64 `json:"display_id"`
	PreviousDisplayId uint64 `json:"previous_display_id,omitempty"`
	Title             string `json:"title,omitempty"`
}

func (x *NoteEvent) GetKind() string {
	if x != nil {
		return x.Kind
	}
	return ""
}

func (x *NoteEvent) GetDisplayId() uint64 {
	if x != nil {
		return x.DisplayId
	}
	return 0
}

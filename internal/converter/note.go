package converter

import (
	"notes-vault/internal/model"
	notesv1 "notes-vault/pkg/api/notes/v1"
)

// ModelToAPI конвертирует domain модель Note в сообщение API.
// InternalKey наружу не отдается.
func ModelToAPI(note model.Note) *notesv1.Note {
	return &notesv1.Note{
		DisplayId: note.DisplayID,
		Title:     note.Title,
		Content:   note.Content,
		Owner:     string(note.Owner),
	}
}

// ModelsToAPI конвертирует слайс domain моделей в слайс сообщений API
func ModelsToAPI(notes []model.Note) []*notesv1.Note {
	apiNotes := make([]*notesv1.Note, len(notes))
	for i, note := range notes {
		apiNotes[i] = ModelToAPI(note)
	}

	return apiNotes
}

// EventToAPI конвертирует событие изменения заметок в сообщение API
func EventToAPI(event model.NoteEvent) *notesv1.NoteEvent {
	return &notesv1.NoteEvent{
		Kind:              string(event.Kind),
		DisplayId:         event.DisplayID,
		PreviousDisplayId: event.PrevID,
		Title:             event.Title,
	}
}

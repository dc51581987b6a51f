package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"notes-vault/internal/auth"
	"notes-vault/internal/converter"
	"notes-vault/internal/model"
	svc "notes-vault/internal/service"
	notesv1 "notes-vault/pkg/api/notes/v1"
)

// Сообщения об успехе, которые видит клиент
const (
	MsgNoteCreated = "Note created successfully"
	MsgNoteUpdated = "Note updated successfully"
	MsgNoteDeleted = "Note deleted successfully"
)

const (
	// errorDomain домен для google.rpc.ErrorInfo
	errorDomain = "notes.v1"
	// watchHeader заголовок ответа WatchNotes после подписки
	watchHeader = "x-notes-watch"
)

// Handler реализует gRPC сервер для NotesService
type Handler struct {
	notesv1.UnimplementedNotesServiceServer

	noteService svc.NoteService
	// serverCtx отменяется при остановке сервера, чтобы завершить стримы
	serverCtx context.Context
}

// NewHandler создает новый экземпляр gRPC хэндлера
func NewHandler(noteService svc.NoteService, serverCtx context.Context) *Handler {
	return &Handler{
		noteService: noteService,
		serverCtx:   serverCtx,
	}
}

// CreateNote создает новую заметку вызывающего
func (h *Handler) CreateNote(ctx context.Context, req *notesv1.CreateNoteRequest) (*notesv1.CreateNoteResponse, error) {
	note, err := h.noteService.Create(ctx, auth.FromContext(ctx), req.GetTitle(), req.GetContent())
	if err != nil {
		return nil, handleError(err)
	}

	return &notesv1.CreateNoteResponse{
		Message: MsgNoteCreated,
		Note:    converter.ModelToAPI(note),
	}, nil
}

// ListNotes возвращает заметки вызывающего; анонимному - пустой список
func (h *Handler) ListNotes(ctx context.Context, req *notesv1.ListNotesRequest) (*notesv1.ListNotesResponse, error) {
	notes, err := h.noteService.List(ctx, auth.FromContext(ctx))
	if err != nil {
		return nil, handleError(err)
	}

	return &notesv1.ListNotesResponse{
		Notes: converter.ModelsToAPI(notes),
	}, nil
}

// EditNote обновляет заметку вызывающего по display_id
func (h *Handler) EditNote(ctx context.Context, req *notesv1.EditNoteRequest) (*notesv1.EditNoteResponse, error) {
	note, err := h.noteService.Edit(ctx, auth.FromContext(ctx), req.GetDisplayId(), req.GetTitle(), req.GetContent())
	if err != nil {
		return nil, handleError(err)
	}

	return &notesv1.EditNoteResponse{
		Message: MsgNoteUpdated,
		Note:    converter.ModelToAPI(note),
	}, nil
}

// DeleteNote удаляет заметку вызывающего по display_id
func (h *Handler) DeleteNote(ctx context.Context, req *notesv1.DeleteNoteRequest) (*notesv1.DeleteNoteResponse, error) {
	err := h.noteService.Delete(ctx, auth.FromContext(ctx), req.GetDisplayId())
	if err != nil {
		return nil, handleError(err)
	}

	return &notesv1.DeleteNoteResponse{
		Message: MsgNoteDeleted,
	}, nil
}

// WhoAmI возвращает principal вызывающего и признак аутентификации
func (h *Handler) WhoAmI(ctx context.Context, req *notesv1.WhoAmIRequest) (*notesv1.WhoAmIResponse, error) {
	caller := auth.FromContext(ctx)

	return &notesv1.WhoAmIResponse{
		Principal:     caller.String(),
		Authenticated: !caller.IsAnonymous(),
	}, nil
}

// WatchNotes отправляет события об изменении заметок вызывающего, пока клиент
// не отключится или сервер не начнет остановку
func (h *Handler) WatchNotes(req *notesv1.WatchNotesRequest, stream notesv1.NotesService_WatchNotesServer) error {
	ctx := stream.Context()
	events, cancel, err := h.noteService.Watch(auth.FromContext(ctx))
	if err != nil {
		return handleError(err)
	}
	defer cancel()

	// Заголовки сигнализируют клиенту (и Gateway), что подписка оформлена
	if err := stream.SendHeader(metadata.Pairs(watchHeader, "subscribed")); err != nil {
		return err
	}

	log := zerolog.Ctx(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.serverCtx.Done():
			log.Debug().Msg("server shutting down, closing watch stream")
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := stream.Send(converter.EventToAPI(event)); err != nil {
				return err
			}
		}
	}
}

// handleError конвертирует внутренние ошибки в gRPC статусы с google.rpc.ErrorInfo
func handleError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return statusWithInfo(codes.Unauthenticated, "Authentication required", "UNAUTHENTICATED", nil)

	case errors.Is(err, model.ErrNotFound):
		return statusWithInfo(codes.NotFound, "Note not found", "NOTE_NOT_FOUND", map[string]string{
			"detail": err.Error(),
		})

	case errors.Is(err, model.ErrForbidden):
		return statusWithInfo(codes.PermissionDenied, "You don't have permission to access this note", "FORBIDDEN", nil)

	case errors.Is(err, model.ErrPayloadTooLarge):
		return statusWithInfo(codes.ResourceExhausted, "Note is too large", "PAYLOAD_TOO_LARGE", map[string]string{
			"detail": err.Error(),
		})
	}

	// Все остальные ошибки - Internal
	return statusWithInfo(codes.Internal, "internal error", "INTERNAL_ERROR", map[string]string{
		"detail": fmt.Sprintf("An internal error occurred: %v", err),
	})
}

func statusWithInfo(code codes.Code, msg, reason string, metadata map[string]string) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: metadata,
	})
	if err != nil {
		// Если не удалось добавить Details, возвращаем ошибку без деталей
		return st.Err()
	}
	return detailed.Err()
}

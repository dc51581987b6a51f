package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	notesv1 "notes-vault/pkg/api/notes/v1"
)

// routes переводит HTTP запросы в вызовы NotesService
type routes struct {
	mux    *runtime.ServeMux
	client notesv1.NotesServiceClient
}

// noteBody тело PUT /api/v1/notes/{display_id}
type noteBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (rt *routes) createNote(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ctx, marshaler, ok := rt.annotate(w, r, notesv1.NotesService_CreateNote_FullMethodName, notesPath)
	if !ok {
		return
	}

	var req notesv1.CreateNoteRequest
	if err := rt.decode(marshaler, r, &req); err != nil {
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	resp, err := rt.client.CreateNote(ctx, &req)
	rt.respond(ctx, marshaler, w, r, http.StatusCreated, resp, err)
}

func (rt *routes) listNotes(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ctx, marshaler, ok := rt.annotate(w, r, notesv1.NotesService_ListNotes_FullMethodName, notesPath)
	if !ok {
		return
	}

	resp, err := rt.client.ListNotes(ctx, &notesv1.ListNotesRequest{})
	rt.respond(ctx, marshaler, w, r, http.StatusOK, resp, err)
}

func (rt *routes) editNote(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ctx, marshaler, ok := rt.annotate(w, r, notesv1.NotesService_EditNote_FullMethodName, notePath)
	if !ok {
		return
	}

	displayID, err := displayIDParam(pathParams)
	if err != nil {
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	var body noteBody
	if err := rt.decode(marshaler, r, &body); err != nil {
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	resp, err := rt.client.EditNote(ctx, &notesv1.EditNoteRequest{
		DisplayId: displayID,
		Title:     body.Title,
		Content:   body.Content,
	})
	rt.respond(ctx, marshaler, w, r, http.StatusOK, resp, err)
}

func (rt *routes) deleteNote(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	ctx, marshaler, ok := rt.annotate(w, r, notesv1.NotesService_DeleteNote_FullMethodName, notePath)
	if !ok {
		return
	}

	displayID, err := displayIDParam(pathParams)
	if err != nil {
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	resp, err := rt.client.DeleteNote(ctx, &notesv1.DeleteNoteRequest{DisplayId: displayID})
	rt.respond(ctx, marshaler, w, r, http.StatusOK, resp, err)
}

func (rt *routes) whoAmI(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ctx, marshaler, ok := rt.annotate(w, r, notesv1.NotesService_WhoAmI_FullMethodName, whoAmIPath)
	if !ok {
		return
	}

	resp, err := rt.client.WhoAmI(ctx, &notesv1.WhoAmIRequest{})
	rt.respond(ctx, marshaler, w, r, http.StatusOK, resp, err)
}

// watchNotes отдает события построчно (newline-delimited JSON), пока клиент не отключится.
// Через wsproxy тот же путь доступен по WebSocket.
func (rt *routes) watchNotes(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ctx, marshaler, ok := rt.annotate(w, r, notesv1.NotesService_WatchNotes_FullMethodName, eventsPath)
	if !ok {
		return
	}

	stream, err := rt.client.WatchNotes(ctx, &notesv1.WatchNotesRequest{})
	if err != nil {
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	// Сервер отправляет заголовки сразу после подписки; без них стрим завершился ошибкой
	if md, _ := stream.Header(); md == nil {
		_, err := stream.Recv()
		if err == nil || errors.Is(err, io.EOF) {
			err = status.Error(codes.Unavailable, "events stream closed")
		}
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	// Разделитель строк NDJSON; JSONBuiltin реализует runtime.Delimited
	delim := []byte("\n")
	if d, ok := marshaler.(runtime.Delimited); ok {
		delim = d.Delimiter()
	}

	log := zerolog.Ctx(r.Context())
	for {
		event, err := stream.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Warn().Err(err).Msg("events stream closed")
			}
			return
		}

		data, err := marshaler.Marshal(event)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal note event")
			return
		}
		if _, err := w.Write(append(data, delim...)); err != nil {
			log.Debug().Err(err).Msg("events client gone")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// annotate переносит HTTP заголовки в gRPC metadata и выбирает marshaler
func (rt *routes) annotate(w http.ResponseWriter, r *http.Request, method, pattern string) (context.Context, runtime.Marshaler, bool) {
	_, outbound := runtime.MarshalerForRequest(rt.mux, r)
	ctx, err := runtime.AnnotateContext(r.Context(), rt.mux, r, method, runtime.WithHTTPPathPattern(pattern))
	if err != nil {
		runtime.HTTPError(r.Context(), rt.mux, outbound, w, r, err)
		return nil, nil, false
	}
	return ctx, outbound, true
}

// decode читает JSON тело запроса; пустое тело - пустой запрос
func (rt *routes) decode(marshaler runtime.Marshaler, r *http.Request, v any) error {
	if err := marshaler.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return invalidArgument("invalid request body: %v", err)
	}
	return nil
}

// respond пишет ответ или ошибку gRPC вызова
func (rt *routes) respond(ctx context.Context, marshaler runtime.Marshaler, w http.ResponseWriter, r *http.Request, code int, resp any, err error) {
	if err != nil {
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	data, err := marshaler.Marshal(resp)
	if err != nil {
		runtime.HTTPError(ctx, rt.mux, marshaler, w, r, err)
		return
	}

	w.Header().Set("Content-Type", marshaler.ContentType(resp))
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("failed to write response")
	}
}

// displayIDParam разбирает {display_id} из пути
func displayIDParam(pathParams map[string]string) (uint64, error) {
	val, ok := pathParams["display_id"]
	if !ok {
		return 0, invalidArgument("missing parameter %s", "display_id")
	}
	id, err := runtime.Uint64(val)
	if err != nil {
		return 0, invalidArgument("type mismatch, parameter: %s, error: %v", "display_id", err)
	}
	return id, nil
}

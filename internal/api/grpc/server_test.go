package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"notes-vault/internal/auth"
	"notes-vault/internal/repository/memory"
	"notes-vault/internal/service/notes"
	notesv1 "notes-vault/pkg/api/notes/v1"
)

const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

type testEnv struct {
	conn   *grpc.ClientConn
	client notesv1.NotesServiceClient
	cancel context.CancelFunc
}

// startServer поднимает полный gRPC сервер (интерцепторы, сервис, память) поверх bufconn
func startServer(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewRepository()
	noteSvc, err := notes.NewNoteService(context.Background(), store, store)
	require.NoError(t, err)

	serverCtx, cancel := context.WithCancel(context.Background())
	gate := auth.NewTokenGate(map[string]string{aliceToken: "alice", bobToken: "bob"})
	srv, _ := NewServer(NewHandler(noteSvc, serverCtx), ServerOptions{Logger: zerolog.Nop(), Gate: gate})

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		_ = conn.Close()
		srv.Stop()
	})

	return &testEnv{conn: conn, client: notesv1.NewNotesServiceClient(conn), cancel: cancel}
}

func as(token string) context.Context {
	ctx := context.Background()
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func reasonOf(err error) string {
	for _, d := range status.Convert(err).Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.Reason
		}
	}
	return ""
}

func TestServer_NoteLifecycle(t *testing.T) {
	env := startServer(t)
	alice := as(aliceToken)

	for _, title := range []string{"one", "two", "three"} {
		resp, err := env.client.CreateNote(alice, &notesv1.CreateNoteRequest{Title: title, Content: "c"})
		require.NoError(t, err)
		assert.Equal(t, MsgNoteCreated, resp.Message)
	}

	edited, err := env.client.EditNote(alice, &notesv1.EditNoteRequest{DisplayId: 3, Title: "three!", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), edited.Note.DisplayId)

	deleted, err := env.client.DeleteNote(alice, &notesv1.DeleteNoteRequest{DisplayId: 1})
	require.NoError(t, err)
	assert.Equal(t, MsgNoteDeleted, deleted.Message)

	list, err := env.client.ListNotes(alice, &notesv1.ListNotesRequest{})
	require.NoError(t, err)
	require.Len(t, list.Notes, 2)
	assert.Equal(t, uint64(1), list.Notes[0].DisplayId)
	assert.Equal(t, "two", list.Notes[0].Title)
	assert.Equal(t, uint64(2), list.Notes[1].DisplayId)
	assert.Equal(t, "three!", list.Notes[1].Title)
}

func TestServer_Anonymous(t *testing.T) {
	env := startServer(t)
	anon := as("")

	_, err := env.client.CreateNote(anon, &notesv1.CreateNoteRequest{Title: "t"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "UNAUTHENTICATED", reasonOf(err))

	_, err = env.client.EditNote(anon, &notesv1.EditNoteRequest{DisplayId: 1})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = env.client.DeleteNote(anon, &notesv1.DeleteNoteRequest{DisplayId: 1})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	list, err := env.client.ListNotes(anon, &notesv1.ListNotesRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Notes)

	who, err := env.client.WhoAmI(anon, &notesv1.WhoAmIRequest{})
	require.NoError(t, err)
	assert.False(t, who.Authenticated)
}

func TestServer_InvalidCredentials(t *testing.T) {
	env := startServer(t)

	_, err := env.client.ListNotes(as("stolen"), &notesv1.ListNotesRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Token "+aliceToken)
	_, err = env.client.WhoAmI(ctx, &notesv1.WhoAmIRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_OwnersAreIsolated(t *testing.T) {
	env := startServer(t)

	_, err := env.client.CreateNote(as(aliceToken), &notesv1.CreateNoteRequest{Title: "alice-1"})
	require.NoError(t, err)
	_, err = env.client.CreateNote(as(aliceToken), &notesv1.CreateNoteRequest{Title: "alice-2"})
	require.NoError(t, err)
	bobNote, err := env.client.CreateNote(as(bobToken), &notesv1.CreateNoteRequest{Title: "bob-1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bobNote.Note.DisplayId)

	_, err = env.client.DeleteNote(as(bobToken), &notesv1.DeleteNoteRequest{DisplayId: 2})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "NOTE_NOT_FOUND", reasonOf(err))

	bobList, err := env.client.ListNotes(as(bobToken), &notesv1.ListNotesRequest{})
	require.NoError(t, err)
	require.Len(t, bobList.Notes, 1)
	assert.Equal(t, "bob-1", bobList.Notes[0].Title)

	who, err := env.client.WhoAmI(as(bobToken), &notesv1.WhoAmIRequest{})
	require.NoError(t, err)
	assert.Equal(t, "bob", who.Principal)
	assert.True(t, who.Authenticated)
}

func TestServer_Validation(t *testing.T) {
	env := startServer(t)

	_, err := env.client.EditNote(as(aliceToken), &notesv1.EditNoteRequest{DisplayId: 0, Title: "t"})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "VALIDATION_ERROR", reasonOf(err))
}

func TestServer_AnonymousRejectedBeforeValidation(t *testing.T) {
	env := startServer(t)
	anon := as("")

	_, err := env.client.EditNote(anon, &notesv1.EditNoteRequest{DisplayId: 0, Title: "t"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "UNAUTHENTICATED", reasonOf(err))

	_, err = env.client.CreateNote(anon, &notesv1.CreateNoteRequest{Title: strings.Repeat("x", 4096)})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = env.client.DeleteNote(anon, &notesv1.DeleteNoteRequest{DisplayId: 0})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_PayloadTooLarge(t *testing.T) {
	env := startServer(t)

	// Каждое поле в пределах лимита, но вместе запись больше 2048 байт
	_, err := env.client.CreateNote(as(aliceToken), &notesv1.CreateNoteRequest{
		Title:   strings.Repeat("t", 1500),
		Content: strings.Repeat("c", 1500),
	})

	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", reasonOf(err))

	list, err := env.client.ListNotes(as(aliceToken), &notesv1.ListNotesRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Notes)
}

func TestServer_WatchNotes(t *testing.T) {
	env := startServer(t)
	ctx, cancel := context.WithTimeout(as(aliceToken), 5*time.Second)
	defer cancel()

	stream, err := env.client.WatchNotes(ctx, &notesv1.WatchNotesRequest{})
	require.NoError(t, err)
	// Заголовки приходят после оформления подписки
	md, err := stream.Header()
	require.NoError(t, err)
	assert.Equal(t, []string{"subscribed"}, md.Get(watchHeader))

	_, err = env.client.CreateNote(as(bobToken), &notesv1.CreateNoteRequest{Title: "bob"})
	require.NoError(t, err)
	_, err = env.client.CreateNote(as(aliceToken), &notesv1.CreateNoteRequest{Title: "first"})
	require.NoError(t, err)
	_, err = env.client.CreateNote(as(aliceToken), &notesv1.CreateNoteRequest{Title: "second"})
	require.NoError(t, err)
	_, err = env.client.DeleteNote(as(aliceToken), &notesv1.DeleteNoteRequest{DisplayId: 1})
	require.NoError(t, err)

	var got []*notesv1.NoteEvent
	for i := 0; i < 4; i++ {
		event, err := stream.Recv()
		require.NoError(t, err)
		got = append(got, event)
	}

	assert.Equal(t, []*notesv1.NoteEvent{
		{Kind: "created", DisplayId: 1, Title: "first"},
		{Kind: "created", DisplayId: 2, Title: "second"},
		{Kind: "deleted", DisplayId: 1, Title: "first"},
		{Kind: "renumbered", DisplayId: 1, PreviousDisplayId: 2, Title: "second"},
	}, got, "bob's note must not appear in alice's stream")
}

func TestServer_WatchNotesEndsOnShutdown(t *testing.T) {
	env := startServer(t)

	stream, err := env.client.WatchNotes(as(aliceToken), &notesv1.WatchNotesRequest{})
	require.NoError(t, err)
	_, err = stream.Header()
	require.NoError(t, err)

	env.cancel()

	_, err = stream.Recv()
	assert.Error(t, err, "stream must end when the server context is cancelled")
}

func TestServer_WatchNotesAnonymous(t *testing.T) {
	env := startServer(t)

	stream, err := env.client.WatchNotes(context.Background(), &notesv1.WatchNotesRequest{})
	require.NoError(t, err)

	_, err = stream.Recv()
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_Health(t *testing.T) {
	env := startServer(t)

	resp, err := healthpb.NewHealthClient(env.conn).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: notesv1.NotesService_ServiceDesc.ServiceName,
	})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	grpcapi "notes-vault/internal/api/grpc"
	"notes-vault/internal/auth"
	"notes-vault/internal/config"
	"notes-vault/internal/repository/memory"
	"notes-vault/internal/service/notes"
	notesv1 "notes-vault/pkg/api/notes/v1"
)

const aliceToken = "alice-token"

// startGateway поднимает gRPC сервер на bufconn и HTTP Gateway перед ним
func startGateway(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewRepository()
	noteSvc, err := notes.NewNoteService(context.Background(), store, store)
	require.NoError(t, err)

	serverCtx, cancel := context.WithCancel(context.Background())
	gate := auth.NewTokenGate(map[string]string{aliceToken: "alice", "bob-token": "bob"})
	srv, _ := grpcapi.NewServer(grpcapi.NewHandler(noteSvc, serverCtx), grpcapi.ServerOptions{Logger: zerolog.Nop(), Gate: gate})

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	handler, err := NewHandler(notesv1.NewNotesServiceClient(conn), &config.ConfigGateway{
		CORSAllowedOrigins: "*",
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
	}, zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		_ = conn.Close()
		srv.Stop()
	})
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), "body: %s", data)
	}
	return resp, out
}

func TestGateway_CRUD(t *testing.T) {
	ts := startGateway(t)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/v1/notes", aliceToken, `{"title":"one","content":"c1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Note created successfully", body["message"])
	assert.Equal(t, float64(1), body["note"].(map[string]any)["display_id"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/v1/notes", aliceToken, `{"title":"two","content":"c2"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, ts, http.MethodPut, "/api/v1/notes/2", aliceToken, `{"title":"two!","content":"c2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Note updated successfully", body["message"])

	resp, body = doJSON(t, ts, http.MethodDelete, "/api/v1/notes/1", aliceToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Note deleted successfully", body["message"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/v1/notes", aliceToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["notes"].([]any)
	require.Len(t, list, 1)
	note := list[0].(map[string]any)
	assert.Equal(t, float64(1), note["display_id"])
	assert.Equal(t, "two!", note["title"])
}

func TestGateway_ErrorsAsStatus(t *testing.T) {
	ts := startGateway(t)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     string
		wantCode int
		reason   string
	}{
		{"anonymous create", http.MethodPost, "/api/v1/notes", "", `{"title":"t"}`, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"unknown token", http.MethodGet, "/api/v1/notes", "stolen", "", http.StatusUnauthorized, ""},
		{"missing note", http.MethodPut, "/api/v1/notes/7", aliceToken, `{"title":"t"}`, http.StatusNotFound, "NOTE_NOT_FOUND"},
		{"zero display id", http.MethodDelete, "/api/v1/notes/0", aliceToken, "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"anonymous zero display id", http.MethodDelete, "/api/v1/notes/0", "", "", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"bad display id", http.MethodDelete, "/api/v1/notes/abc", aliceToken, "", http.StatusBadRequest, ""},
		{"bad json", http.MethodPost, "/api/v1/notes", aliceToken, `{"title":`, http.StatusBadRequest, ""},
		{
			"too large", http.MethodPost, "/api/v1/notes", aliceToken,
			`{"title":"` + strings.Repeat("t", 1500) + `","content":"` + strings.Repeat("c", 1500) + `"}`,
			http.StatusTooManyRequests, "PAYLOAD_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, ts, tt.method, tt.path, tt.token, tt.body)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.NotEmpty(t, body["message"])
			if tt.reason == "" {
				return
			}
			details, _ := body["details"].([]any)
			require.NotEmpty(t, details)
			info := details[0].(map[string]any)
			assert.Equal(t, "type.googleapis.com/google.rpc.ErrorInfo", info["@type"])
			assert.Equal(t, tt.reason, info["reason"])
		})
	}
}

func TestGateway_AnonymousListIsEmpty(t *testing.T) {
	ts := startGateway(t)
	doJSON(t, ts, http.MethodPost, "/api/v1/notes", aliceToken, `{"title":"private"}`)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/notes", "", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["notes"])
}

func TestGateway_WhoAmI(t *testing.T) {
	ts := startGateway(t)

	_, body := doJSON(t, ts, http.MethodGet, "/api/v1/whoami", aliceToken, "")
	assert.Equal(t, "alice", body["principal"])
	assert.Equal(t, true, body["authenticated"])

	_, body = doJSON(t, ts, http.MethodGet, "/api/v1/whoami", "", "")
	assert.Equal(t, false, body["authenticated"])
}

func TestGateway_Events(t *testing.T) {
	ts := startGateway(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	doJSON(t, ts, http.MethodPost, "/api/v1/notes", "bob-token", `{"title":"bob"}`)
	doJSON(t, ts, http.MethodPost, "/api/v1/notes", aliceToken, `{"title":"hello"}`)

	line, err := bufio.NewReader(resp.Body).ReadBytes('\n')
	require.NoError(t, err)
	var event notesv1.NoteEvent
	require.NoError(t, json.Unmarshal(line, &event))
	assert.Equal(t, notesv1.NoteEvent{Kind: "created", DisplayId: 1, Title: "hello"}, event)
}

func TestGateway_EventsAnonymous(t *testing.T) {
	ts := startGateway(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/events", "", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}

func TestGateway_CORSPreflight(t *testing.T) {
	ts := startGateway(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/notes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Браузер передает имена заголовков в нижнем регистре
	req.Header.Set("Access-Control-Request-Headers", "authorization")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

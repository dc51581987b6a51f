package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/tmc/grpc-websocket-proxy/wsproxy"
	// ErrorInfo в деталях статуса должен быть известен protojson
	_ "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"notes-vault/internal/api/http/middleware"
	"notes-vault/internal/api/swagger"
	"notes-vault/internal/config"
	notesv1 "notes-vault/pkg/api/notes/v1"
)

// Пути HTTP API
const (
	notesPath  = "/api/v1/notes"
	notePath   = "/api/v1/notes/{display_id}"
	whoAmIPath = "/api/v1/whoami"
	eventsPath = "/api/v1/events"
)

// requestIDHeader передается в gRPC metadata как x-request-id
const requestIDHeader = middleware.RequestIDHeader

// NewMux создает runtime.ServeMux с маршрутами NotesService поверх gRPC клиента.
// Сообщения API - обычные структуры, поэтому используется JSONBuiltin,
// а ошибки рендерятся как google.rpc.Status через protojson.
func NewMux(client notesv1.NotesServiceClient) (*runtime.ServeMux, error) {
	gwMux := runtime.NewServeMux(
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONBuiltin{}),
		// Передаем HTTP заголовки (особенно Authorization) в gRPC metadata
		runtime.WithMetadata(func(ctx context.Context, req *http.Request) metadata.MD {
			md := metadata.New(nil)
			// Это необходимо для работы Auth интерцептора на gRPC сервере
			if auth := req.Header.Get("Authorization"); auth != "" {
				md.Set("authorization", auth)
			}
			if id := req.Header.Get(requestIDHeader); id != "" {
				md.Set("x-request-id", id)
			}
			return md
		}),
		runtime.WithErrorHandler(writeStatus),
	)

	r := &routes{mux: gwMux, client: client}
	handlers := []struct {
		method  string
		pattern string
		h       runtime.HandlerFunc
	}{
		{http.MethodPost, notesPath, r.createNote},
		{http.MethodGet, notesPath, r.listNotes},
		{http.MethodPut, notePath, r.editNote},
		{http.MethodDelete, notePath, r.deleteNote},
		{http.MethodGet, whoAmIPath, r.whoAmI},
		{http.MethodGet, eventsPath, r.watchNotes},
	}
	for _, h := range handlers {
		if err := gwMux.HandlePath(h.method, h.pattern, h.h); err != nil {
			return nil, fmt.Errorf("failed to register %s %s: %w", h.method, h.pattern, err)
		}
	}

	return gwMux, nil
}

// NewHandler собирает HTTP обработчик Gateway с middleware.
// Применение middleware (в обратном порядке выполнения):
// 1. WebSocket Proxy (для WatchNotes - самый внешний слой)
// 2. CORS (обработка CORS заголовков)
// 3. Logging (логирует все запросы)
// 4. Rate Limiting (ограничивает количество запросов)
func NewHandler(client notesv1.NotesServiceClient, cfg *config.ConfigGateway, log zerolog.Logger) (http.Handler, error) {
	gwMux, err := NewMux(client)
	if err != nil {
		return nil, err
	}

	var handler http.Handler = gwMux
	handler = middleware.RateLimit(handler, cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	handler = middleware.Logging(handler, log)
	handler = setupCORS(cfg).Handler(handler)
	// WebSocket proxy должен быть последним (самым внешним), чтобы корректно обрабатывать upgrade
	handler = wsproxy.WebsocketProxy(handler)

	return handler, nil
}

// Setup подключается к gRPC серверу и запускает HTTP Gateway.
// Если mux == nil, создается новый http.ServeMux. Gateway регистрируется на "/",
// OpenAPI описание на swagger.SpecPath.
// Сервер останавливается при отмене ctx.
func Setup(ctx context.Context, grpcAddr string, httpAddr string, cfg *config.Config, mux *http.ServeMux, log zerolog.Logger) error {
	if mux == nil {
		mux = http.NewServeMux()
	}

	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to dial gRPC server %s: %w", grpcAddr, err)
	}
	defer conn.Close()

	handler, err := NewHandler(notesv1.NewNotesServiceClient(conn), cfg.Gateway, log)
	if err != nil {
		return fmt.Errorf("failed to register gateway: %w", err)
	}
	mux.Handle("/", handler)
	swagger.ServeSwagger(mux, log)

	srv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadTimeout:       seconds(cfg.Server.HTTPReadTimeout),
		WriteTimeout:      seconds(cfg.Server.HTTPWriteTimeout),
		IdleTimeout:       seconds(cfg.Server.HTTPIdleTimeout),
		ReadHeaderTimeout: seconds(cfg.Server.HTTPReadHeaderTimeout),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("HTTP Gateway shutdown failed")
		}
	}()

	log.Info().
		Str("addr", httpAddr).
		Str("cors_origins", cfg.Gateway.CORSAllowedOrigins).
		Msg("HTTP Gateway server listening, websocket proxy enabled for /api/v1/events")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// setupCORS настраивает CORS middleware используя конфигурацию
func setupCORS(cfg *config.ConfigGateway) *cors.Cors {
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	// Убираем пробелы из origins
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Requested-With",
			requestIDHeader,
		},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})
}

// writeStatus рендерит ошибку как google.rpc.Status с HTTP кодом по gRPC коду
func writeStatus(ctx context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, err error) {
	st := status.Convert(err)
	body, mErr := protojson.Marshal(st.Proto())
	if mErr != nil {
		zerolog.Ctx(ctx).Error().Err(mErr).Msg("failed to marshal error status")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"code":13,"message":"failed to marshal error message"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(runtime.HTTPStatusFromCode(st.Code()))
	_, _ = w.Write(body)
}

// invalidArgument ошибка разбора HTTP запроса
func invalidArgument(format string, args ...any) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}

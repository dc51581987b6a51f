package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"notes-vault/internal/api/gateway"
	grpcapi "notes-vault/internal/api/grpc"
	"notes-vault/internal/auth"
	"notes-vault/internal/config"
	"notes-vault/internal/repository"
	"notes-vault/internal/repository/leveldb"
	"notes-vault/internal/repository/memory"
	notesService "notes-vault/internal/service/notes"
)

// Драйверы хранилища
const (
	DriverLevelDB = "leveldb"
	DriverMemory  = "memory"
)

// Server представляет сервер приложения с gRPC и HTTP Gateway
type Server struct {
	// HTTP компоненты
	Mux           *http.ServeMux
	HTTPAddr      string
	GatewayCtx    context.Context
	GatewayCancel context.CancelFunc

	// gRPC компоненты
	GRPCServer *grpc.Server
	Health     *health.Server
	GRPCAddr   string
	Listener   net.Listener

	// Контекст сервера для graceful shutdown стримов
	// Этот контекст отменяется при shutdown для корректного завершения стримов
	Ctx    context.Context
	Cancel context.CancelFunc

	// Конфигурация; ConfigFile пустой - без перечитывания токенов
	Config     *config.Config
	ConfigFile string

	Log zerolog.Logger

	store  repository.Store
	events *notesService.EventService
	gate   *auth.TokenGate
}

// NewServer создает и инициализирует новый экземпляр сервера
func NewServer(cfg *config.Config, configFile string, log zerolog.Logger) (*Server, error) {
	cfg.SetDefaults()

	log.Info().
		Int("grpc_port", cfg.Server.PortGRPC).
		Int("http_port", cfg.Server.PortHTTP).
		Str("storage", cfg.Storage.Driver).
		Msg("config loaded")

	grpcAddr := "0.0.0.0:" + strconv.Itoa(cfg.Server.PortGRPC)
	httpAddr := "0.0.0.0:" + strconv.Itoa(cfg.Server.PortHTTP)

	// Создаем listener для gRPC
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	// В отличие от unary методов, где контекст автоматически отменяется при GracefulStop(),
	// в стримах необходимо явно слушать этот контекст для корректного завершения
	serverCtx, serverCancel := context.WithCancel(context.Background())
	gatewayCtx, gatewayCancel := context.WithCancel(context.Background())

	return &Server{
		Mux:           http.NewServeMux(),
		HTTPAddr:      httpAddr,
		GatewayCtx:    gatewayCtx,
		GatewayCancel: gatewayCancel,
		GRPCAddr:      grpcAddr,
		Listener:      listener,
		Ctx:           serverCtx,
		Cancel:        serverCancel,
		Config:        cfg,
		ConfigFile:    configFile,
		Log:           log,
	}, nil
}

// OpenStore открывает хранилище заметок по настройкам
func OpenStore(cfg *config.ConfigStorage) (repository.Store, error) {
	switch cfg.Driver {
	case DriverLevelDB:
		return leveldb.Open(cfg.Path, leveldb.Options{Sync: cfg.SyncWrites()})
	case DriverMemory:
		return memory.NewRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Initialize инициализирует компоненты сервера (Store → Gate → Service → Handler)
func (s *Server) Initialize() error {
	store, err := OpenStore(s.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	s.store = store
	s.Log.Info().Str("driver", s.Config.Storage.Driver).Str("path", s.Config.Storage.Path).Msg("initialized note storage")

	s.gate = auth.NewTokenGate(s.Config.Auth.TokenTable())
	s.Log.Info().Int("tokens", s.gate.Size()).Msg("initialized access gate")
	if s.ConfigFile != "" {
		config.Watch(s.ConfigFile, s.reloadTokens)
	}

	s.events = notesService.NewEventService()
	noteSvc, err := notesService.NewNoteService(s.Ctx, store, store,
		notesService.WithEvents(s.events),
		notesService.WithLogger(s.Log.With().Str("component", "notes").Logger()),
	)
	if err != nil {
		// Нарушенная нумерация или нечитаемая запись: запускаться нельзя
		_ = store.Close()
		return fmt.Errorf("failed to initialize note service: %w", err)
	}

	noteHandler := grpcapi.NewHandler(noteSvc, s.Ctx)

	s.GRPCServer, s.Health = grpcapi.NewServer(noteHandler, grpcapi.ServerOptions{
		MaxConcurrentStreams: uint32(s.Config.Server.MaxConcurrentStreams),
		Logger:               s.Log,
		Gate:                 s.gate,
	})

	return nil
}

// reloadTokens заменяет таблицу токенов после изменения файла конфигурации
func (s *Server) reloadTokens(cfg *config.Config, err error) {
	if err != nil {
		s.Log.Warn().Err(err).Msg("config reload failed, keeping previous tokens")
		return
	}
	cfg.SetDefaults()
	s.gate.Reload(cfg.Auth.TokenTable())
	s.Log.Info().Int("tokens", s.gate.Size()).Msg("auth tokens reloaded")
}

// Start запускает gRPC и HTTP Gateway серверы в горутинах
// Возвращает канал ошибок для отслеживания ошибок серверов
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 2)

	go func() {
		s.Log.Info().Str("addr", s.GRPCAddr).Msg("gRPC server listening")
		if err := s.GRPCServer.Serve(s.Listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// Gateway ходит в gRPC по loopback
	grpcAddr := "localhost:" + strconv.Itoa(s.Config.Server.PortGRPC)

	go func() {
		if err := gateway.Setup(s.GatewayCtx, grpcAddr, s.HTTPAddr, s.Config, s.Mux, s.Log); err != nil {
			errChan <- fmt.Errorf("HTTP Gateway error: %w", err)
		}
	}()

	return errChan
}

// Shutdown выполняет graceful shutdown сервера и закрывает хранилище
func (s *Server) Shutdown() error {
	s.Log.Info().Msg("starting graceful shutdown")

	// Отменяем контекст сервера ПЕРЕД GracefulStop(), иначе стримы WatchNotes
	// не завершатся и GracefulStop будет ждать их до таймаута
	s.Cancel()
	s.GatewayCancel()
	if s.Health != nil {
		s.Health.Shutdown()
	}
	if s.events != nil {
		s.events.Close()
	}

	shutdownTimeout := time.Duration(s.Config.Server.GracefulShutdownTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.GRPCServer.GracefulStop()
		close(stopped)
	}()

	var stopErr error
	select {
	case <-stopped:
		s.Log.Info().Msg("gRPC server stopped gracefully")
	case <-ctx.Done():
		s.Log.Warn().Msg("graceful shutdown timeout, forcing stop")
		s.GRPCServer.Stop()
		stopErr = ctx.Err()
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	return stopErr
}

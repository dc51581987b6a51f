package grpc

import (
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"notes-vault/internal/api/grpc/interceptors"
	"notes-vault/internal/auth"
	notesv1 "notes-vault/pkg/api/notes/v1"
)

// ServerOptions параметры gRPC сервера
type ServerOptions struct {
	MaxConcurrentStreams uint32
	Logger               zerolog.Logger
	Gate                 auth.Gate
}

// NewServer создает и настраивает gRPC сервер с интерцепторами и health-сервисом
func NewServer(handler notesv1.NotesServiceServer, opts ServerOptions) (*grpc.Server, *health.Server) {
	if opts.MaxConcurrentStreams == 0 {
		opts.MaxConcurrentStreams = 25
	}

	// Порядок интерцепторов важен:
	// 1. Logger - логирует все запросы (включая заблокированные)
	// 2. Auth - определяет вызывающего, неверные токены и анонимные изменения отклоняет
	// 3. Validate - валидирует запросы по тегам validate
	grpcServer := grpc.NewServer(
		grpc.MaxConcurrentStreams(opts.MaxConcurrentStreams),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     30 * time.Minute, // Закрытие неактивных соединений через 30 минут
			MaxConnectionAge:      1 * time.Hour,    // Максимальное время жизни соединения (ротация)
			MaxConnectionAgeGrace: 5 * time.Second,  // Ожидание завершения активных запросов перед закрытием
			Time:                  10 * time.Minute, // Время между пингами
			Timeout:               20 * time.Second, // Время ожидания ответа на ping
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.LoggerUnaryInterceptor(opts.Logger),
			interceptors.AuthUnaryInterceptor(opts.Gate,
				notesv1.NotesService_CreateNote_FullMethodName,
				notesv1.NotesService_EditNote_FullMethodName,
				notesv1.NotesService_DeleteNote_FullMethodName,
			),
			interceptors.ValidateUnaryInterceptor,
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamInterceptor(opts.Logger),
			interceptors.AuthStreamInterceptor(opts.Gate),
		),
	)

	notesv1.RegisterNotesServiceServer(grpcServer, handler)
	opts.Logger.Info().Msg("registered NotesService")

	healthServer := health.NewServer()
	healthServer.SetServingStatus(notesv1.NotesService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}

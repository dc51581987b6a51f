package interceptors

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestIDHeader заголовок с идентификатором запроса
const requestIDHeader = "x-request-id"

// requestID берет x-request-id из metadata или генерирует новый
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDHeader); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

// LoggerUnaryInterceptor логирует метод, статус и время выполнения каждого запроса.
// Логгер с request_id кладется в контекст (zerolog.Ctx).
func LoggerUnaryInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		reqLog := log.With().
			Str("request_id", requestID(ctx)).
			Str("method", info.FullMethod).
			Logger()
		ctx = reqLog.WithContext(ctx)

		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		if err != nil {
			st := status.Convert(err)
			reqLog.Warn().
				Str("code", st.Code().String()).
				Str("error", st.Message()).
				Dur("duration", duration).
				Msg("request failed")
		} else {
			reqLog.Info().
				Dur("duration", duration).
				Msg("request completed")
		}

		return resp, err
	}
}

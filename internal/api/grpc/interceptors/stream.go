package interceptors

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

// wrappedServerStream оборачивает grpc.ServerStream: подменяет контекст
// и логирует сообщения, если задан логгер
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
	log *zerolog.Logger
}

// Context возвращает подмененный контекст
func (w *wrappedServerStream) Context() context.Context {
	if w.ctx != nil {
		return w.ctx
	}
	return w.ServerStream.Context()
}

// RecvMsg переопределяет метод для логирования входящих сообщений
func (w *wrappedServerStream) RecvMsg(m interface{}) error {
	err := w.ServerStream.RecvMsg(m)
	if w.log == nil {
		return err
	}
	switch {
	case err == nil:
		w.log.Debug().Str("type", typeName(m)).Msg("stream recv")
	case errors.Is(err, io.EOF):
		w.log.Debug().Msg("stream recv: EOF")
	default:
		w.log.Warn().Err(err).Msg("stream recv failed")
	}
	return err
}

// SendMsg переопределяет метод для логирования исходящих сообщений
func (w *wrappedServerStream) SendMsg(m interface{}) error {
	err := w.ServerStream.SendMsg(m)
	if w.log == nil {
		return err
	}
	if err != nil {
		w.log.Warn().Err(err).Msg("stream send failed")
	} else {
		w.log.Debug().Str("type", typeName(m)).Msg("stream send")
	}
	return err
}

// StreamInterceptor логирует установление и завершение стрима и каждое сообщение в нем
func StreamInterceptor(log zerolog.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		streamLog := log.With().
			Str("request_id", requestID(ss.Context())).
			Str("method", info.FullMethod).
			Logger()
		streamLog.Info().Msg("stream established")

		err := handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          streamLog.WithContext(ss.Context()),
			log:          &streamLog,
		})
		if err != nil {
			streamLog.Warn().Err(err).Msg("stream failed")
		} else {
			streamLog.Info().Msg("stream completed")
		}

		return err
	}
}

func typeName(m interface{}) string {
	return fmt.Sprintf("%T", m)
}

package interceptors

import (
	"context"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-vault/internal/auth"
)

// AuthUnaryInterceptor определяет вызывающего через Gate и кладет его в контекст.
// Неверный заголовок или неизвестный токен отклоняются с Unauthenticated.
// Запрос без заголовка authorization проходит как анонимный, кроме методов
// из protected: для них анонимный вызов отклоняется до валидации и сервиса.
func AuthUnaryInterceptor(gate auth.Gate, protected ...string) grpc.UnaryServerInterceptor {
	requireCaller := make(map[string]struct{}, len(protected))
	for _, method := range protected {
		requireCaller[method] = struct{}{}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		id, err := gate.ResolveCaller(ctx)
		if err != nil {
			return nil, unauthenticated(err.Error())
		}
		if _, ok := requireCaller[info.FullMethod]; ok && gate.IsAnonymous(id) {
			return nil, unauthenticated("authentication required")
		}

		return handler(auth.NewContext(ctx, id), req)
	}
}

// AuthStreamInterceptor то же для стримов: контекст стрима подменяется
func AuthStreamInterceptor(gate auth.Gate) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		id, err := gate.ResolveCaller(ss.Context())
		if err != nil {
			return unauthenticated(err.Error())
		}

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          auth.NewContext(ss.Context(), id),
		})
	}
}

func unauthenticated(msg string) error {
	st := status.New(codes.Unauthenticated, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{Reason: "UNAUTHENTICATED", Domain: "notes.v1"})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

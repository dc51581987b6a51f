package interceptors

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateUnaryInterceptor валидирует входящие запросы по тегам validate в сообщениях API.
// Если валидация не пройдена, возвращается InvalidArgument с ErrorInfo(VALIDATION_ERROR)
// и BadRequest со списком нарушений.
func ValidateUnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if err := validate.Struct(req); err != nil {
		var invalid *validator.InvalidValidationError
		// не структура - правил нет
		if !errors.As(err, &invalid) {
			return nil, validationStatus(err)
		}
	}

	return handler(ctx, req)
}

func validationStatus(err error) error {
	st := status.New(codes.InvalidArgument, fmt.Sprintf("validation failed: %v", err))

	badRequest := &errdetails.BadRequest{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			badRequest.FieldViolations = append(badRequest.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       fe.Field(),
				Description: fmt.Sprintf("failed on %q rule", fe.Tag()),
			})
		}
	}

	detailed, detErr := st.WithDetails(
		&errdetails.ErrorInfo{Reason: "VALIDATION_ERROR", Domain: "notes.v1"},
		badRequest,
	)
	if detErr != nil {
		return st.Err()
	}
	return detailed.Err()
}

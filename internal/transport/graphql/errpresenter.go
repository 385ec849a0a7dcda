// Package graphql serves the read-only GraphQL query surface over activities
// on top of the gqlgen runtime.
package graphql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/pkg/ctxutil"
)

// NewErrorPresenter returns a gqlgen error presenter that maps domain errors
// to GraphQL error codes.
func NewErrorPresenter(log *slog.Logger) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)

		// Parser and validator errors carry their own message and code.
		var parsed *gqlerror.Error
		if errors.As(err, &parsed) && parsed.Err == nil {
			return gqlErr
		}

		switch {
		case errors.Is(err, domain.ErrNotFound):
			gqlErr.Extensions = map[string]any{"code": "NOT_FOUND"}

		case errors.Is(err, domain.ErrAlreadyExists):
			gqlErr.Extensions = map[string]any{"code": "ALREADY_EXISTS"}

		case errors.Is(err, domain.ErrValidation):
			gqlErr.Extensions = map[string]any{"code": "VALIDATION"}
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				gqlErr.Extensions["fields"] = ve.Fields()
			}

		case errors.Is(err, domain.ErrUnauthorized):
			gqlErr.Extensions = map[string]any{"code": "UNAUTHENTICATED"}

		case errors.Is(err, domain.ErrForbidden):
			gqlErr.Extensions = map[string]any{"code": "FORBIDDEN"}

		case errors.Is(err, domain.ErrConflict):
			gqlErr.Extensions = map[string]any{"code": "CONFLICT"}

		case errors.Is(err, domain.ErrIndexUnavailable):
			gqlErr.Extensions = map[string]any{"code": "UNAVAILABLE"}

		default:
			log.ErrorContext(ctx, "unexpected GraphQL error",
				slog.String("error", err.Error()),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			)
			gqlErr.Message = "internal error"
			gqlErr.Extensions = map[string]any{"code": "INTERNAL"}
		}

		return gqlErr
	}
}

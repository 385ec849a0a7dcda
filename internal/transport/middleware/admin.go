package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
	"github.com/heartmarshall/iati-publisher/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden if the caller is not an admin and
// domain.ErrUnauthorized if the caller is anonymous.
func RequireAdmin(ctx context.Context) error {
	if ctxutil.IsAdminCtx(ctx) {
		return nil
	}
	if ctxutil.RoleFromCtx(ctx) == "" {
		return domain.ErrUnauthorized
	}
	return domain.ErrForbidden
}

// RequirePublisher checks that the caller may act for publisherID: either
// the token belongs to that publisher or the caller is an admin.
func RequirePublisher(ctx context.Context, publisherID uuid.UUID) error {
	if ctxutil.IsAdminCtx(ctx) {
		return nil
	}
	caller, ok := ctxutil.PublisherIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if caller != publisherID {
		return domain.ErrForbidden
	}
	return nil
}

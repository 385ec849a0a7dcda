package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	publisherIDKey ctxKey = "publisher_id"
	roleKey        ctxKey = "role"
	requestIDKey   ctxKey = "request_id"
)

// AdminRole is the role value that marks an administrator.
const AdminRole = "admin"

// WithPublisherID stores the authenticated publisher ID in the context.
func WithPublisherID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, publisherIDKey, id)
}

// PublisherIDFromCtx extracts the publisher ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func PublisherIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(publisherIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRole stores the caller role in the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromCtx extracts the caller role. Returns an empty string if absent.
func RoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// IsAdminCtx reports whether the caller is an administrator.
func IsAdminCtx(ctx context.Context) bool {
	return RoleFromCtx(ctx) == AdminRole
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

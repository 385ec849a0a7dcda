package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithPublisherID_And_PublisherIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithPublisherID(context.Background(), id)

	got, ok := PublisherIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for valid UUID")
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestPublisherIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := PublisherIDFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestPublisherIDFromCtx_NilUUID(t *testing.T) {
	t.Parallel()

	ctx := WithPublisherID(context.Background(), uuid.Nil)

	got, ok := PublisherIDFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for uuid.Nil")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestPublisherIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("publisher_id"), "not-a-uuid")

	got, ok := PublisherIDFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for wrong type")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")

	got := RequestIDFromCtx(ctx)
	if got != "req-123" {
		t.Fatalf("expected req-123, got %s", got)
	}
}

func TestRequestIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got := RequestIDFromCtx(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestRequestIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("request_id"), 12345)

	got := RequestIDFromCtx(ctx)
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestRole(t *testing.T) {
	t.Parallel()

	if RoleFromCtx(context.Background()) != "" {
		t.Fatal("expected empty role for empty context")
	}
	if IsAdminCtx(WithRole(context.Background(), "publisher")) {
		t.Fatal("publisher must not be admin")
	}
	if !IsAdminCtx(WithRole(context.Background(), AdminRole)) {
		t.Fatal("expected admin")
	}
}

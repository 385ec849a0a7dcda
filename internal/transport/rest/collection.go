package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// route binds a ServeMux pattern to its handler.
type route struct {
	pattern string
	handler http.HandlerFunc
}

// scope holds the ids addressed by a child write route.
type scope struct {
	publisherID uuid.UUID
	activityID  uuid.UUID
	parentID    uuid.UUID
	id          uuid.UUID
}

// collection describes the write endpoints of one child collection of an
// activity. R is the request body, I the service input and T the stored
// entity.
type collection[R, I, T any] struct {
	// path is appended to the activity route, e.g. "/sectors" or
	// "/results/{resultID}/indicators".
	path string
	// parent names the path value of the parent entity for creates. Empty
	// for direct children of the activity.
	parent string

	convert func(R) I
	create  func(ctx context.Context, s scope, in I) (T, error)
	update  func(ctx context.Context, s scope, in I) (T, error)
	remove  func(ctx context.Context, s scope) error
}

const activityRoute = "/api/publishers/{publisherID}/activities/{activityID}"

func (c collection[R, I, T]) routes(log *slog.Logger) []route {
	return []route{
		{pattern: "POST " + activityRoute + c.path, handler: c.createHandler(log)},
		{pattern: "PUT " + activityRoute + c.path + "/{id}", handler: c.updateHandler(log)},
		{pattern: "DELETE " + activityRoute + c.path + "/{id}", handler: c.deleteHandler(log)},
	}
}

func (c collection[R, I, T]) createHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := c.scope(log, w, r, false)
		if !ok {
			return
		}
		var req R
		if !decodeJSON(w, r, &req) {
			return
		}

		created, err := c.create(r.Context(), s, c.convert(req))
		if err != nil {
			handleError(log, w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func (c collection[R, I, T]) updateHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := c.scope(log, w, r, true)
		if !ok {
			return
		}
		var req R
		if !decodeJSON(w, r, &req) {
			return
		}

		updated, err := c.update(r.Context(), s, c.convert(req))
		if err != nil {
			handleError(log, w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func (c collection[R, I, T]) deleteHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := c.scope(log, w, r, true)
		if !ok {
			return
		}

		if err := c.remove(r.Context(), s); err != nil {
			handleError(log, w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// scope authorizes the caller for the publisher and parses the remaining
// ids. Creates carry the parent id, updates and deletes the entity id.
func (c collection[R, I, T]) scope(log *slog.Logger, w http.ResponseWriter, r *http.Request, withID bool) (scope, bool) {
	var (
		s  scope
		ok bool
	)
	if s.publisherID, ok = authorizePublisher(log, w, r); !ok {
		return s, false
	}
	if s.activityID, ok = pathUUID(w, r, "activityID"); !ok {
		return s, false
	}
	if c.parent != "" {
		if s.parentID, ok = pathUUID(w, r, c.parent); !ok {
			return s, false
		}
	}
	if withID {
		if s.id, ok = pathUUID(w, r, "id"); !ok {
			return s, false
		}
	}
	return s, true
}

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery turns a handler panic into a 500 JSON error. It runs outside the
// request id and tracing middleware, so it reads their ids back from the
// response headers for the log record.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				attrs := []any{
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				}
				if id := w.Header().Get(RequestIDHeader); id != "" {
					attrs = append(attrs, slog.String("request_id", id))
				}
				if id := w.Header().Get("X-Trace-Id"); id != "" {
					attrs = append(attrs, slog.String("trace_id", id))
				}
				logger.ErrorContext(r.Context(), "handler panic", attrs...)

				writeError(w, http.StatusInternalServerError, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

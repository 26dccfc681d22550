package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/orderlens/api/responses"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
	"github.com/angelmondragon/orderlens/pkg/logger"
)

// Recoverer turns a panic inside an analytics handler into an INTERNAL_ERROR envelope. It sits
// outside RequestID, so the id is read back from the response header the inner middleware set.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
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

				err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("%v", rec), "handler panicked")
				ctx := r.Context()
				if reqID := w.Header().Get(requestIDHeader); reqID != "" {
					ctx = responses.WithRequestID(ctx, reqID)
					if logg != nil {
						ctx = logg.WithRequestID(ctx, reqID)
					}
				}
				if logg != nil {
					dump := pkgerrors.Dump(err)
					ctx = logg.WithFields(ctx, map[string]any{
						"method":      r.Method,
						"path":        r.URL.Path,
						"operation":   operationFor(r.URL.Path),
						"panic":       fmt.Sprint(rec),
						"error_chain": dump.Chain,
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				// The panic is already logged with its stack; WriteError only shapes the body.
				responses.WriteError(ctx, nil, w, err)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// operationFor names the analytics operation behind a path the same way the service tags its logs.
func operationFor(path string) string {
	switch strings.TrimSuffix(path, "/") {
	case "/api/v1/analytics/periods":
		return "analytics.periods"
	case "/api/v1/analytics/compare":
		return "analytics.compare"
	case "/api/v1/analytics/predictions":
		return "analytics.predict"
	}
	return "http"
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/logger"
)

// Recovery returns middleware that recovers from panics, logs the stack and
// answers 500 with the generic internal error body.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				log.WithContext(r.Context()).Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", p),
					"stack", string(debug.Stack()),
					logger.FieldPath, r.URL.Path,
					logger.FieldMethod, r.Method,
				))
				writeJSON(w, http.StatusInternalServerError, apperrors.Internal(nil).ToResponse())
			}()
			next.ServeHTTP(w, r)
		})
	}
}

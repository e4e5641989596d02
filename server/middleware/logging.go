package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/authgate/logger"
)

// quietPaths are polled by probes and never logged.
var quietPaths = map[string]bool{"/health": true, "/health/": true, "/version": true, "/version/": true}

// RequestLogger logs one line per request. The level follows the status:
// 5xx at error, 4xx at warn and the rest at debug. Gate redirects carry
// their Location.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			began := time.Now()
			next.ServeHTTP(rec, r)

			fields := logger.Fields(
				logger.FieldMethod, r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, rec.status,
				logger.FieldDuration, time.Since(began).Milliseconds(),
			)
			if rec.status == http.StatusFound {
				if loc := rec.Header().Get("Location"); loc != "" {
					fields["location"] = loc
				}
			}

			l := log.WithContext(r.Context())
			switch {
			case rec.status >= http.StatusInternalServerError:
				l.Error("Request completed", fields)
			case rec.status >= http.StatusBadRequest:
				l.Warn("Request completed", fields)
			default:
				l.Debug("Request completed", fields)
			}
		})
	}
}

// recorder remembers the first status written through it.
type recorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rw *recorder) WriteHeader(code int) {
	if !rw.written {
		rw.status, rw.written = code, true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(p []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(p)
}

// Unwrap exposes the inner writer to http.ResponseController.
func (rw *recorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *recorder) Flush() {
	_ = http.NewResponseController(rw.ResponseWriter).Flush()
}

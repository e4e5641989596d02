package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/util"
)

const defaultMaxBodySize = 1 << 20 // 1MB

// BodySizeLimit caps request bodies at maxSize ("64KB", "1MB"). An
// unparsable size falls back to 1MB. Requests that declare a larger
// Content-Length are rejected with 413 before the handler runs.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				tooLarge := apperrors.PayloadTooLarge()
				writeJSON(w, tooLarge.HTTPStatus, tooLarge.ToResponse())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

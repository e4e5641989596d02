package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin/render"
)

// Middleware decorates a handler. Server-level middleware sees every
// request before gin routes it, including paths with no route.
type Middleware func(http.Handler) http.Handler

// Chain nests mws so that mws[0] is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for _, mw := range slices.Backward(mws) {
			h = mw(h)
		}
		return h
	}
}

// writeJSON uses gin's renderer where no gin.Context exists yet.
func writeJSON(w http.ResponseWriter, status int, body any) {
	r := render.JSON{Data: body}
	r.WriteContentType(w)
	w.WriteHeader(status)
	_ = r.Render(w)
}

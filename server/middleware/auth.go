package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/auth/authctx"
	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/gate"
	"github.com/kbukum/authgate/logger"
)

// Decider is the request gate. *gate.Gate implements it.
type Decider interface {
	Decide(r *http.Request) gate.Outcome
}

// Authenticate applies the gate's Outcome to every request:
//
//   - Continue: the identity, if any, is attached to the request context
//   - Respond: the status and JSON body are written, the chain stops
//   - Redirect: 302 Found to the login surface, the chain stops
//
// An outcome of any other type is answered like a rejected token.
func Authenticate(g Decider) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch out := g.Decide(r).(type) {
			case gate.Continue:
				if out.Authenticated() {
					ctx := gate.ContextWithOutcome(r.Context(), out)
					ctx = logger.ContextWithSubject(ctx, out.Identity.Subject)
					r = r.WithContext(ctx)
				}
				next.ServeHTTP(w, r)
			case gate.Respond:
				writeJSON(w, out.Status, out.Body)
			case gate.Redirect:
				http.Redirect(w, r, out.Location, http.StatusFound)
			default:
				writeJSON(w, http.StatusUnauthorized, apperrors.InvalidToken().ToResponse())
			}
		})
	}
}

// RequireIdentity rejects requests that reached a protected route without
// an identity. Mount it on route groups behind Authenticate.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authctx.Get(c.Request.Context()); !ok {
			appErr := apperrors.Unauthorized("")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Next()
	}
}

package api

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/authgate/auth"
	"github.com/kbukum/authgate/auth/authctx"
	"github.com/kbukum/authgate/auth/issuer"
	"github.com/kbukum/authgate/auth/jwt"
	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/gate"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/observability"
	"github.com/kbukum/authgate/server"
	"github.com/kbukum/authgate/server/middleware"
	"github.com/kbukum/authgate/validation"
)

// Credentials is the credential validator. *credential.Validator implements it.
type Credentials interface {
	Authenticate(ctx context.Context, username, password string) (auth.Identity, error)
	Register(ctx context.Context, username, password, email string) (auth.Identity, error)
}

// Tokens is the token issuer. *issuer.Issuer implements it.
type Tokens interface {
	IssueAccessAndRefresh(id auth.Identity) (*issuer.TokenPair, error)
	IssueAccessFromRefresh(refreshToken string) (*issuer.TokenPair, error)
}

// Metric results.
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
)

// Handler serves the auth endpoints. Safe for concurrent use.
type Handler struct {
	credentials Credentials
	tokens      Tokens
	verifier    gate.Verifier
	serviceName string
	loginPath   string
	log         *logger.Logger
	metrics     *observability.Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(log *logger.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// WithMetrics records login, registration and refresh counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithServiceName sets the name shown by the banner and the login page.
func WithServiceName(name string) Option {
	return func(h *Handler) { h.serviceName = name }
}

// WithLoginPath sets where the login page is mounted.
func WithLoginPath(p string) Option {
	return func(h *Handler) { h.loginPath = p }
}

// NewHandler creates the handler. verifier is used by logout to name the
// caller on a path the gate does not inspect.
func NewHandler(credentials Credentials, tokens Tokens, verifier gate.Verifier, opts ...Option) *Handler {
	h := &Handler{
		credentials: credentials,
		tokens:      tokens,
		verifier:    verifier,
		serviceName: "authgate",
		loginPath:   gate.DefaultLoginPath,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("api")
	return h
}

// Mount registers every route on r. authMiddleware (rate limiting) applies
// to the /v1/auth group only.
func (h *Handler) Mount(r gin.IRouter, authMiddleware ...gin.HandlerFunc) {
	r.GET("/", h.Banner)
	r.GET(h.loginPath, h.LoginPage)

	authGroup := r.Group("/v1/auth", authMiddleware...)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/register", h.Register)
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)

	protected := r.Group("/v1", middleware.RequireIdentity())
	protected.GET("/me", h.Me)
}

// Login handles POST /v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanLogin)
	defer span.End()

	var req LoginRequest
	if err := bind(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	id, err := h.credentials.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		f := auth.AsFailure(err)
		span.SetAttributes(attribute.String(observability.AttrFailureKind, string(f.Kind)))
		if f.Kind == auth.Unexpected {
			observability.SetSpanError(span, err)
			h.record(ctx, h.recordLogin, resultError)
			h.log.WithContext(ctx).Error("Login failed unexpectedly", logger.Fields(logger.FieldError, err.Error()))
			server.RespondWithError(c, apperrors.Internal(err))
			return
		}
		h.record(ctx, h.recordLogin, resultFailure)
		h.log.WithContext(ctx).Warn("Login rejected", logger.Fields(
			logger.FieldFailureKind, string(f.Kind),
			logger.FieldSubject, req.Username,
		))
		server.RespondWithError(c, f.AppError())
		return
	}

	pair, err := h.tokens.IssueAccessAndRefresh(id)
	if err != nil {
		observability.SetSpanError(span, err)
		h.record(ctx, h.recordLogin, resultError)
		h.log.WithContext(ctx).Error("Token issuance failed", logger.Fields(logger.FieldError, err.Error()))
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	span.SetAttributes(attribute.String(observability.AttrSubject, id.Subject))
	h.record(ctx, h.recordLogin, resultSuccess)
	h.log.WithContext(ctx).Info("Login succeeded", logger.Fields(logger.FieldSubject, id.Subject))
	server.RespondOK(c, newTokenResponse(pair))
}

// Register handles POST /v1/auth/register. It does not log the user in.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanRegister)
	defer span.End()

	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	id, err := h.credentials.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		if apperrors.IsAppError(err) {
			h.record(ctx, h.recordRegistration, resultFailure)
			server.RespondWithError(c, err)
			return
		}
		f := auth.AsFailure(err)
		span.SetAttributes(attribute.String(observability.AttrFailureKind, string(f.Kind)))
		if f.Kind == auth.UsernameTaken {
			h.record(ctx, h.recordRegistration, resultFailure)
			h.log.WithContext(ctx).Warn("Registration rejected", logger.Fields(
				logger.FieldFailureKind, string(f.Kind),
				logger.FieldSubject, req.Username,
			))
			server.RespondWithError(c, f.AppError())
			return
		}
		observability.SetSpanError(span, err)
		h.record(ctx, h.recordRegistration, resultError)
		h.log.WithContext(ctx).Error("Registration failed unexpectedly", logger.Fields(logger.FieldError, err.Error()))
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	h.record(ctx, h.recordRegistration, resultSuccess)
	h.log.WithContext(ctx).Info("User registered", logger.Fields(logger.FieldSubject, id.Subject))
	server.RespondCreated(c, MessageResponse{Message: msgRegistered, Username: id.Subject})
}

// Refresh handles POST /v1/auth/refresh. Every failure, including a body
// without a refresh token, is the generic 401.
func (h *Handler) Refresh(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanRefresh)
	defer span.End()

	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		h.record(ctx, h.recordRefresh, resultFailure)
		server.RespondWithError(c, apperrors.InvalidToken().WithCause(err))
		return
	}

	pair, err := h.tokens.IssueAccessFromRefresh(req.RefreshToken)
	if err != nil {
		f := auth.AsFailure(err)
		span.SetAttributes(attribute.String(observability.AttrFailureKind, string(f.Kind)))
		fields := logger.Fields(logger.FieldFailureKind, string(f.Kind))
		if f.Kind == auth.Unexpected {
			observability.SetSpanError(span, err)
			h.record(ctx, h.recordRefresh, resultError)
			fields[logger.FieldError] = err.Error()
			h.log.WithContext(ctx).Error("Refresh failed unexpectedly", fields)
		} else {
			h.record(ctx, h.recordRefresh, resultFailure)
			h.log.WithContext(ctx).Warn("Refresh rejected", fields)
		}
		server.RespondWithError(c, apperrors.InvalidToken().WithCause(err))
		return
	}

	h.record(ctx, h.recordRefresh, resultSuccess)
	server.RespondOK(c, newTokenResponse(pair))
}

// Logout handles POST /v1/auth/logout. Nothing is invalidated server side;
// the client discards its tokens. The response names the caller when the
// request carries a valid access token.
func (h *Handler) Logout(c *gin.Context) {
	username := h.callerName(c.Request)
	h.log.WithContext(c.Request.Context()).Info("Logout", logger.Fields(logger.FieldSubject, username))
	server.RespondOK(c, MessageResponse{Message: msgLoggedOut, Username: username})
}

func (h *Handler) callerName(r *http.Request) (name string) {
	defer func() {
		if recover() != nil {
			name = unknownUser
		}
	}()
	if id, ok := authctx.Get(r.Context()); ok {
		return id.Subject
	}
	token, ok := gate.BearerToken(r)
	if !ok || h.verifier == nil {
		return unknownUser
	}
	claims, err := h.verifier.VerifyClass(token, jwt.ClassAccess, h.verifier.Now())
	if err != nil || claims.Subject == "" {
		return unknownUser
	}
	return claims.Subject
}

// Me handles GET /v1/me.
func (h *Handler) Me(c *gin.Context) {
	id := authctx.MustGet(c.Request.Context())
	server.RespondOK(c, MeResponse{Username: id.Subject})
}

// Banner handles GET /.
func (h *Handler) Banner(c *gin.Context) {
	c.String(http.StatusOK, "%s is running! POST /v1/auth/login to obtain a token.", h.serviceName)
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Service}} login</title></head>
<body>
<h1>{{.Service}}</h1>
<form id="login">
  <label>Username <input name="username" autocomplete="username" required></label>
  <label>Password <input name="password" type="password" autocomplete="current-password" required></label>
  <button type="submit">Sign in</button>
</form>
<p id="result"></p>
<script>
document.getElementById("login").addEventListener("submit", async (e) => {
  e.preventDefault();
  const form = new FormData(e.target);
  const res = await fetch("/v1/auth/login", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({username: form.get("username"), password: form.get("password")}),
  });
  const body = await res.json();
  document.getElementById("result").textContent = res.ok ? "Signed in as " + body.username : body.error;
  if (res.ok) sessionStorage.setItem("accessToken", body.accessToken);
});
</script>
</body>
</html>
`))

// LoginPage handles GET /login, the redirect target for browsers.
func (h *Handler) LoginPage(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: loginTemplate,
		Name:     "login",
		Data:     struct{ Service string }{h.serviceName},
	})
}

// bind decodes the JSON body into dst and validates it. Decode problems
// are INVALID_INPUT.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.PayloadTooLarge()
		}
		return apperrors.Validation("request body must be valid JSON").WithCause(err)
	}
	return validation.Validate(dst)
}

func (h *Handler) record(ctx context.Context, fn func(context.Context, string), result string) {
	if h.metrics != nil {
		fn(ctx, result)
	}
}

func (h *Handler) recordLogin(ctx context.Context, r string)        { h.metrics.RecordLogin(ctx, r) }
func (h *Handler) recordRegistration(ctx context.Context, r string) { h.metrics.RecordRegistration(ctx, r) }
func (h *Handler) recordRefresh(ctx context.Context, r string)      { h.metrics.RecordRefresh(ctx, r) }

// Package gate decides, per inbound request, whether it proceeds and with
// which identity. It is transport neutral: Decide reads an *http.Request
// and returns an Outcome that an adapter applies.
package gate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/authgate/auth"
	"github.com/kbukum/authgate/auth/authctx"
	"github.com/kbukum/authgate/auth/jwt"
	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/observability"
)

// Verifier checks access tokens. *jwt.Codec implements it.
type Verifier interface {
	VerifyClass(token string, class jwt.Class, now time.Time) (*jwt.Claims, error)
	Now() time.Time
}

// Gate is safe for concurrent use.
type Gate struct {
	verifier  Verifier
	public    *PathMatcher
	loginPath string
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger for rejected requests.
func WithLogger(log *logger.Logger) Option {
	return func(g *Gate) { g.log = log }
}

// WithMetrics records every decision.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// New creates a gate. cfg is defaulted; call cfg.Validate beforehand to
// reject bad patterns.
func New(verifier Verifier, cfg Config, opts ...Option) *Gate {
	cfg.ApplyDefaults()
	g := &Gate{
		verifier:  verifier,
		public:    NewPathMatcher(cfg.patterns()...),
		loginPath: cfg.LoginPath,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.WithComponent("gate")
	return g
}

// LoginPath returns the redirect target.
func (g *Gate) LoginPath() string { return g.loginPath }

// PublicPatterns returns the globs that skip token inspection.
func (g *Gate) PublicPatterns() []string { return g.public.Patterns() }

// Decide classifies the request:
//
//  1. public path: Continue without identity
//  2. no usable bearer token: Continue without identity
//  3. valid access token: Continue with its identity
//  4. any failure: Redirect to login for HTML clients, else Respond 401
//
// Errors outside the failure taxonomy and panics during verification are
// treated as an UNEXPECTED failure and take branch 4.
func (g *Gate) Decide(r *http.Request) Outcome {
	ctx, span := observability.StartSpan(r.Context(), observability.SpanGateDecide)
	defer span.End()

	out, kind := g.decide(r)

	span.SetAttributes(
		attribute.String(observability.AttrOutcome, Name(out)),
		attribute.String(observability.AttrFailureKind, string(kind)),
	)
	if g.metrics != nil {
		g.metrics.RecordGateDecision(ctx, Name(out), string(kind))
	}
	return out
}

func (g *Gate) decide(r *http.Request) (Outcome, auth.FailureKind) {
	if g.public.IsPublic(r.URL.Path) {
		return Continue{}, ""
	}

	token, ok := BearerToken(r)
	if !ok {
		return Continue{}, ""
	}

	id, err := g.verify(token)
	if err == nil {
		return Continue{Identity: id}, ""
	}

	failure := auth.AsFailure(err)
	g.logFailure(r, failure)
	return g.reject(r, failure), failure.Kind
}

func (g *Gate) verify(token string) (id auth.Identity, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = auth.Fail(auth.Unexpected, fmt.Errorf("panic during verification: %v", p))
		}
	}()

	claims, err := g.verifier.VerifyClass(token, jwt.ClassAccess, g.verifier.Now())
	if err != nil {
		return auth.Identity{}, err
	}
	id = claims.Identity()
	if id.IsZero() {
		return auth.Identity{}, auth.Fail(auth.Malformed, nil)
	}
	return id, nil
}

func (g *Gate) reject(r *http.Request, f *auth.Failure) Outcome {
	if WantsHTML(r) {
		return Redirect{Location: g.loginPath}
	}
	appErr := f.AppError()
	if f.Kind == auth.Unexpected {
		appErr = apperrors.InvalidToken()
	}
	return Respond{Status: http.StatusUnauthorized, Body: appErr.ToResponse()}
}

func (g *Gate) logFailure(r *http.Request, f *auth.Failure) {
	fields := logger.Fields(
		logger.FieldFailureKind, string(f.Kind),
		logger.FieldPath, r.URL.Path,
		logger.FieldMethod, r.Method,
	)
	log := g.log.WithContext(r.Context())
	if f.Kind == auth.Unexpected {
		fields[logger.FieldError] = fmt.Sprint(f.Cause)
		log.Error("Token verification failed unexpectedly", fields)
		return
	}
	log.Warn("Token rejected", fields)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is case-insensitive; an empty token is treated as absent.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WantsHTML reports whether the Accept header asks for text/html.
func WantsHTML(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "text/html")
}

// ContextWithOutcome is a convenience for adapters: it returns ctx carrying
// the identity of a Continue outcome, or ctx unchanged.
func ContextWithOutcome(ctx context.Context, o Outcome) context.Context {
	if c, ok := o.(Continue); ok && c.Authenticated() {
		ctx = authctx.Set(ctx, c.Identity)
	}
	return ctx
}

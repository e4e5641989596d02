package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/auth"
	"github.com/kbukum/authgate/auth/authctx"
	"github.com/kbukum/authgate/auth/jwt"
	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/gate"
	"github.com/kbukum/authgate/server/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

const secret = "0123456789abcdef0123456789abcdef"

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedDecider struct{ out gate.Outcome }

func (d fixedDecider) Decide(*http.Request) gate.Outcome { return d.out }

type otherOutcome struct{ gate.Continue }

func identityEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := authctx.Get(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(id.Subject))
	})
}

func TestAuthenticate_AppliesOutcome(t *testing.T) {
	tests := []struct {
		name     string
		out      gate.Outcome
		status   int
		body     string
		location string
	}{
		{"anonymous continue", gate.Continue{}, http.StatusNoContent, "", ""},
		{"identity continue", gate.Continue{Identity: auth.Identity{Subject: "alice"}}, http.StatusOK, "alice", ""},
		{"redirect", gate.Redirect{Location: "/login"}, http.StatusFound, "", "/login"},
		{"respond", gate.Respond{Status: http.StatusUnauthorized, Body: apperrors.InvalidToken().ToResponse()}, http.StatusUnauthorized, "", ""},
		{"unknown outcome fails closed", otherOutcome{}, http.StatusUnauthorized, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.Authenticate(fixedDecider{tc.out})(identityEcho(t))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", http.NoBody))

			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			if tc.body != "" && rr.Body.String() != tc.body {
				t.Errorf("expected body %q, got %q", tc.body, rr.Body.String())
			}
			if got := rr.Header().Get("Location"); got != tc.location {
				t.Errorf("expected Location %q, got %q", tc.location, got)
			}
		})
	}
}

func TestAuthenticate_RespondBody(t *testing.T) {
	h := middleware.Authenticate(fixedDecider{gate.Respond{
		Status: http.StatusUnauthorized,
		Body:   apperrors.InvalidToken().ToResponse(),
	}})(identityEcho(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", http.NoBody))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["error"] != "Token expired or invalid" {
		t.Errorf("unexpected error %v", body["error"])
	}
	if body["message"] != "Please refresh your token or login again" {
		t.Errorf("unexpected message %v", body["message"])
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestAuthenticate_WithRealGate(t *testing.T) {
	codec, err := jwt.NewCodec(&jwt.Config{Secret: secret}, jwt.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	valid, _ := codec.Issue("alice", jwt.ClassAccess, 5*time.Minute, now)
	expired, _ := codec.Issue("alice", jwt.ClassAccess, 5*time.Minute, now.Add(-time.Hour))

	h := middleware.Authenticate(gate.New(codec, gate.Config{}))(identityEcho(t))

	tests := []struct {
		name   string
		token  string
		accept string
		status int
	}{
		{"valid token", valid, "application/json", http.StatusOK},
		{"expired json", expired, "application/json", http.StatusUnauthorized},
		{"expired html", expired, "text/html,application/xhtml+xml", http.StatusFound},
		{"no token", "", "application/json", http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/v1/me", http.NoBody)
			r.Header.Set("Accept", tc.accept)
			if tc.token != "" {
				r.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, r)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	engine := gin.New()
	engine.GET("/v1/me", middleware.RequireIdentity(), func(c *gin.Context) {
		c.String(http.StatusOK, authctx.MustGet(c.Request.Context()).Subject)
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", http.NoBody))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rr.Code)
	}
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Code != apperrors.CodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", body.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/v1/me", http.NoBody)
	r = r.WithContext(authctx.Set(r.Context(), auth.Identity{Subject: "alice"}))
	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK || rr.Body.String() != "alice" {
		t.Fatalf("expected 200 alice, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	clock := now
	engine := gin.New()
	engine.POST("/v1/auth/login", middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: 2,
		Now:               func() time.Time { return clock },
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/auth/login", http.NoBody)
		r.RemoteAddr = "10.0.0.1:1234"
		engine.ServeHTTP(rr, r)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := do(); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
	rr := do()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	clock = clock.Add(61 * time.Second)
	if rr := do(); rr.Code != http.StatusOK {
		t.Fatalf("expected window to slide, got %d", rr.Code)
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	engine := gin.New()
	engine.GET("/x", middleware.RateLimit(middleware.RateLimitConfig{}), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 100; i++ {
		rr := httptest.NewRecorder()
		engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	}
}

func TestObserve_PassesThrough(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.Observe(nil))
	engine.GET("/v1/me", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", http.NoBody))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rr.Code)
	}
}


package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authgate/api"
	"github.com/kbukum/authgate/auth"
	"github.com/kbukum/authgate/auth/credential"
	"github.com/kbukum/authgate/auth/issuer"
	"github.com/kbukum/authgate/auth/jwt"
	"github.com/kbukum/authgate/auth/password"
	apperrors "github.com/kbukum/authgate/errors"
	"github.com/kbukum/authgate/gate"
	"github.com/kbukum/authgate/server/middleware"
	"github.com/kbukum/authgate/userstore"
)

func init() { gin.SetMode(gin.TestMode) }

const secret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	handler http.Handler
	codec   *jwt.Codec
	clock   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{clock: &clock}

	cfg := &jwt.Config{Secret: secret}
	codec, err := jwt.NewCodec(cfg, jwt.WithClock(func() time.Time { return *f.clock }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	f.codec = codec

	validator, err := credential.NewValidator(userstore.NewMemory(), password.Bcrypt{Cost: 4})
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	h := api.NewHandler(validator, issuer.New(codec, cfg), codec)
	engine := gin.New()
	h.Mount(engine)
	f.handler = middleware.Authenticate(gate.New(codec, gate.Config{}))(engine)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, http.NoBody)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, r)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
	return v
}

func (f *fixture) register(t *testing.T, username, pass string) {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/v1/auth/register", `{"username":"`+username+`","password":"`+pass+`"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d %s", username, rr.Code, rr.Body.String())
	}
}

func (f *fixture) login(t *testing.T, username, pass string) api.TokenResponse {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/v1/auth/login", `{"username":"`+username+`","password":"`+pass+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	return decode[api.TokenResponse](t, rr)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "correct-horse")

	resp := f.login(t, "alice", "correct-horse")
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected non-empty tokens")
	}
	if resp.TokenType != "Bearer" || resp.Username != "alice" || resp.ExpiresIn != 300 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestLogin_GenericFailure(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "correct-horse")

	var bodies []string
	for _, body := range []string{
		`{"username":"alice","password":"wrong-horse"}`,
		`{"username":"nobody","password":"correct-horse"}`,
	} {
		rr := f.do(t, http.MethodPost, "/v1/auth/login", body)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		resp := decode[apperrors.ErrorResponse](t, rr)
		if resp.Error != "Invalid credentials" {
			t.Errorf("expected generic message, got %q", resp.Error)
		}
		bodies = append(bodies, rr.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("unknown user and wrong password must be indistinguishable:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestLogin_BadBody(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "username=alice"},
		{"missing password", `{"username":"alice"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPost, "/v1/auth/login", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", rr.Code, rr.Body.String())
			}
			if resp := decode[apperrors.ErrorResponse](t, rr); resp.Code != apperrors.CodeInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %s", resp.Code)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/v1/auth/register", `{"username":"bob","password":"s3cret-pass","email":"bob@corp.test"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rr.Code, rr.Body.String())
	}
	if resp := decode[api.MessageResponse](t, rr); resp.Username != "bob" || resp.Message == "" {
		t.Errorf("unexpected response %+v", resp)
	}
	if strings.Contains(rr.Body.String(), "accessToken") {
		t.Error("registration must not log the user in")
	}

	rr = f.do(t, http.MethodPost, "/v1/auth/register", `{"username":"bob","password":"another-pass"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate, got %d", rr.Code)
	}
	if resp := decode[apperrors.ErrorResponse](t, rr); resp.Code != apperrors.CodeUsernameTaken {
		t.Errorf("expected USERNAME_TAKEN, got %s", resp.Code)
	}
}

func TestRegister_Invalid(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		body string
		code apperrors.ErrorCode
	}{
		{"short password", `{"username":"carol","password":"short"}`, apperrors.CodeInvalidInput},
		{"bad username", `{"username":"carol smith","password":"long-enough"}`, apperrors.CodeInvalidInput},
		{"bad email", `{"username":"carol","password":"long-enough","email":"nope"}`, apperrors.CodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPost, "/v1/auth/register", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", rr.Code, rr.Body.String())
			}
			if resp := decode[apperrors.ErrorResponse](t, rr); resp.Code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, resp.Code)
			}
		})
	}
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	f := newFixture(t)
	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- f.do(t, http.MethodPost, "/v1/auth/register", `{"username":"dave","password":"long-enough"}`).Code
		}()
	}
	wg.Wait()
	close(codes)

	created := 0
	for c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one registration, got %d", created)
	}
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "correct-horse")
	pair := f.login(t, "alice", "correct-horse")

	*f.clock = f.clock.Add(10 * time.Minute)
	rr := f.do(t, http.MethodPost, "/v1/auth/refresh", `{"refreshToken":"`+pair.RefreshToken+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	resp := decode[api.TokenResponse](t, rr)
	if resp.RefreshToken == "" || resp.RefreshToken == pair.RefreshToken {
		t.Error("expected a rotated refresh token")
	}
	if resp.Username != "alice" || resp.ExpiresIn != 300 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestRefresh_Rejections(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "correct-horse")
	pair := f.login(t, "alice", "correct-horse")

	tampered := []byte(pair.RefreshToken)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	tests := []struct {
		name string
		body string
	}{
		{"tampered", `{"refreshToken":"` + string(tampered) + `"}`},
		{"access token", `{"refreshToken":"` + pair.AccessToken + `"}`},
		{"garbage", `{"refreshToken":"abc"}`},
		{"missing", `{}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPost, "/v1/auth/refresh", tc.body)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d %s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), "Token expired or invalid") {
				t.Errorf("expected generic token message, got %s", rr.Body.String())
			}
		})
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "correct-horse")
	pair := f.login(t, "alice", "correct-horse")

	tests := []struct {
		name     string
		headers  []string
		username string
	}{
		{"anonymous", nil, "unknown"},
		{"valid token", []string{"Authorization", "Bearer " + pair.AccessToken}, "alice"},
		{"invalid token", []string{"Authorization", "Bearer nope"}, "unknown"},
		{"refresh token", []string{"Authorization", "Bearer " + pair.RefreshToken}, "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPost, "/v1/auth/logout", "", tc.headers...)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			resp := decode[api.MessageResponse](t, rr)
			if resp.Message != "Logged out successfully" || resp.Username != tc.username {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "correct-horse")
	pair := f.login(t, "alice", "correct-horse")

	rr := f.do(t, http.MethodGet, "/v1/me", "", "Authorization", "Bearer "+pair.AccessToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if resp := decode[api.MeResponse](t, rr); resp.Username != "alice" {
		t.Errorf("expected alice, got %q", resp.Username)
	}

	rr = f.do(t, http.MethodGet, "/v1/me", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
	if resp := decode[apperrors.ErrorResponse](t, rr); resp.Code != apperrors.CodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", resp.Code)
	}
}

func TestProtectedPath_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "correct-horse")
	pair := f.login(t, "alice", "correct-horse")

	*f.clock = f.clock.Add(301 * time.Second)

	rr := f.do(t, http.MethodGet, "/v1/me", "", "Authorization", "Bearer "+pair.AccessToken, "Accept", "application/json")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Token expired or invalid") {
		t.Errorf("unexpected body %s", rr.Body.String())
	}

	rr = f.do(t, http.MethodGet, "/v1/me", "", "Authorization", "Bearer "+pair.AccessToken, "Accept", "text/html")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestPublicSurfaces(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "is running") {
		t.Errorf("unexpected banner %d %q", rr.Code, rr.Body.String())
	}

	rr = f.do(t, http.MethodGet, "/login", "", "Accept", "text/html", "Authorization", "Bearer garbage")
	if rr.Code != http.StatusOK {
		t.Fatalf("login page must be public, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "<form") {
		t.Error("expected a login form")
	}
}

type failingCredentials struct{}

func (failingCredentials) Authenticate(context.Context, string, string) (auth.Identity, error) {
	return auth.Identity{}, auth.Fail(auth.Unexpected, errors.New("store down"))
}

func (failingCredentials) Register(context.Context, string, string, string) (auth.Identity, error) {
	return auth.Identity{}, errors.New("store down")
}

func TestUnexpectedStoreFailure(t *testing.T) {
	codec, err := jwt.NewCodec(&jwt.Config{Secret: secret})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	engine := gin.New()
	api.NewHandler(failingCredentials{}, issuer.New(codec, &jwt.Config{Secret: secret}), codec).Mount(engine)

	for _, path := range []string{"/v1/auth/login", "/v1/auth/register"} {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"username":"alice","password":"long-enough"}`))
		engine.ServeHTTP(rr, r)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, rr.Code)
		}
		if strings.Contains(rr.Body.String(), "store down") {
			t.Errorf("%s: cause leaked to client", path)
		}
	}
}

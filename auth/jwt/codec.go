// Package jwt is the token codec: it signs and verifies the compact tokens
// used for access and refresh, and owns the key material and the clock.
//
// Verification authenticates the raw token bytes before any claim is
// decoded, so a forged or corrupted token is always BAD_SIGNATURE and only
// an authentic token can be EXPIRED or UNSUPPORTED.
//
//	codec, err := jwt.NewCodec(&cfg)
//	tok, err := codec.Issue("alice", jwt.ClassAccess, 5*time.Minute, codec.Now())
//	claims, err := codec.VerifyClass(tok, jwt.ClassAccess, codec.Now())
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/authgate/auth"
)

// Class distinguishes access tokens from refresh tokens.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

// Claims is the token payload.
type Claims struct {
	gojwt.RegisteredClaims
	Class Class `json:"cls"`
}

// Identity returns the principal the token was issued for.
func (c *Claims) Identity() auth.Identity {
	return auth.Identity{Subject: c.Subject}
}

var (
	errSegments    = errors.New("token must have three segments")
	errNoSubject   = errors.New("missing sub claim")
	errNoExpiry    = errors.New("missing exp claim")
	errNoClass     = errors.New("missing cls claim")
	errUnknownAlg  = errors.New("unexpected signing algorithm")
	errWrongIssuer = errors.New("unexpected issuer")
)

// Option configures a Codec.
type Option func(*Codec)

// WithClock replaces the wall clock. Tests use it to pin time.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// Codec signs and verifies tokens. It is immutable after construction and
// safe for concurrent use.
type Codec struct {
	method    gojwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
	parser    *gojwt.Parser
	now       func() time.Time
}

// NewCodec builds a codec from configuration. Unusable key material is an
// error here, never later.
func NewCodec(cfg *Config, opts ...Option) (*Codec, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	sign, verify, err := cfg.loadKeys()
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	c := &Codec{
		method:    cfg.signingMethod(),
		signKey:   sign,
		verifyKey: verify,
		issuer:    cfg.Issuer,
		parser:    gojwt.NewParser(gojwt.WithStrictDecoding()),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.selfCheck(); err != nil {
		return nil, fmt.Errorf("jwt: key check: %w", err)
	}
	return c, nil
}

// Now returns the codec's current time.
func (c *Codec) Now() time.Time { return c.now() }

// Algorithm returns the JWS algorithm name.
func (c *Codec) Algorithm() string { return c.method.Alg() }

// Issue signs a token for subject that expires lifetime after now.
func (c *Codec) Issue(subject string, class Class, lifetime time.Duration, now time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(lifetime)),
		},
		Class: class,
	}
	signed, err := gojwt.NewWithClaims(c.method, claims).SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify authenticates the token and checks expiry against now.
//
// Order: segment count, signature over the raw bytes, claim decoding, then
// expiry. exp <= now is EXPIRED. Two or four segments of token text are a
// signed token with a boundary added or removed, so they fail the signature.
func (c *Codec) Verify(token string, now time.Time) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		if reshaped(parts) {
			return nil, auth.Fail(auth.BadSignature, errSegments)
		}
		return nil, auth.Fail(auth.Malformed, errSegments)
	}

	sig, err := c.parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, auth.Fail(auth.BadSignature, err)
	}
	if err := c.method.Verify(parts[0]+"."+parts[1], sig, c.verifyKey); err != nil {
		return nil, auth.Fail(auth.BadSignature, err)
	}

	claims := &Claims{}
	parsed, _, err := c.parser.ParseUnverified(token, claims)
	if err != nil {
		return nil, auth.Fail(auth.Malformed, err)
	}
	if parsed.Method == nil || parsed.Method.Alg() != c.method.Alg() {
		return nil, auth.Fail(auth.Unsupported, errUnknownAlg)
	}
	switch {
	case claims.Subject == "":
		return nil, auth.Fail(auth.Malformed, errNoSubject)
	case claims.ExpiresAt == nil:
		return nil, auth.Fail(auth.Malformed, errNoExpiry)
	case claims.Class == "":
		return nil, auth.Fail(auth.Malformed, errNoClass)
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, auth.Fail(auth.Unsupported, errWrongIssuer)
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return nil, auth.Fail(auth.Expired, fmt.Errorf("expired at %s", claims.ExpiresAt.Time.UTC().Format(time.RFC3339)))
	}
	return claims, nil
}

// VerifyClass is Verify plus a check that the token has the expected class.
func (c *Codec) VerifyClass(token string, class Class, now time.Time) (*Claims, error) {
	claims, err := c.Verify(token, now)
	if err != nil {
		return nil, err
	}
	if claims.Class != class {
		return nil, auth.Fail(auth.Unsupported, fmt.Errorf("got %s token, want %s", claims.Class, class))
	}
	return claims, nil
}

// selfCheck signs and verifies a throwaway token so a key that cannot sign, or a
// public key that does not match, fails at startup.
func (c *Codec) selfCheck() error {
	now := c.now()
	tok, err := c.Issue("selfcheck", ClassAccess, time.Minute, now)
	if err != nil {
		return err
	}
	if _, err := c.Verify(tok, now); err != nil {
		return err
	}
	return nil
}

func reshaped(parts []string) bool {
	if len(parts) != 2 && len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if strings.ContainsFunc(p, notSegmentRune) {
			return false
		}
	}
	return true
}

func notSegmentRune(r rune) bool {
	switch {
	case 'A' <= r && r <= 'Z', 'a' <= r && r <= 'z', '0' <= r && r <= '9', r == '-', r == '_':
		return false
	}
	return true
}

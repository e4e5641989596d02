// Package issuer mints access/refresh token pairs. Nothing is stored: a
// refresh token is honored purely on signature, expiry and class.
package issuer

import (
	"fmt"
	"time"

	"github.com/kbukum/authgate/auth"
	"github.com/kbukum/authgate/auth/jwt"
)

// TokenType is the scheme clients put in front of the access token.
const TokenType = "Bearer"

// TokenPair is the result of a login or a refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Subject      string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
}

// Codec is the part of the token codec the issuer needs.
type Codec interface {
	Issue(subject string, class jwt.Class, lifetime time.Duration, now time.Time) (string, error)
	VerifyClass(token string, class jwt.Class, now time.Time) (*jwt.Claims, error)
	Now() time.Time
}

// Issuer applies the access and refresh lifetimes on top of a codec.
type Issuer struct {
	codec      Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates an issuer with the lifetimes from cfg.
func New(codec Codec, cfg *jwt.Config) *Issuer {
	cfg.ApplyDefaults()
	return &Issuer{
		codec:      codec,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// IssueAccessAndRefresh mints a fresh pair for an authenticated identity.
func (i *Issuer) IssueAccessAndRefresh(id auth.Identity) (*TokenPair, error) {
	if id.IsZero() {
		return nil, auth.Fail(auth.Unexpected, fmt.Errorf("issuer: empty identity"))
	}
	now := i.codec.Now()

	access, err := i.codec.Issue(id.Subject, jwt.ClassAccess, i.accessTTL, now)
	if err != nil {
		return nil, auth.Fail(auth.Unexpected, err)
	}
	refresh, err := i.codec.Issue(id.Subject, jwt.ClassRefresh, i.refreshTTL, now)
	if err != nil {
		return nil, auth.Fail(auth.Unexpected, err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenType,
		Subject:      id.Subject,
		ExpiresIn:    int64(i.accessTTL / time.Second),
	}, nil
}

// IssueAccessFromRefresh exchanges a refresh token for a new pair. The
// refresh token is always rotated. An access token here is UNSUPPORTED.
func (i *Issuer) IssueAccessFromRefresh(refreshToken string) (*TokenPair, error) {
	claims, err := i.codec.VerifyClass(refreshToken, jwt.ClassRefresh, i.codec.Now())
	if err != nil {
		return nil, auth.AsFailure(err)
	}
	return i.IssueAccessAndRefresh(claims.Identity())
}

// Package credential authenticates username/password pairs against stored
// hashes and registers new records.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/authgate/auth"
	"github.com/kbukum/authgate/auth/password"
	apperrors "github.com/kbukum/authgate/errors"
)

// DefaultEmailDomain completes the email of a registration that gave none.
const DefaultEmailDomain = "example.com"

// Validator checks credentials. Safe for concurrent use.
type Validator struct {
	store     Store
	hasher    password.Hasher
	minLength int
	dummyHash string
	clock     func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithMinLength sets the shortest password accepted at registration.
func WithMinLength(n int) Option {
	return func(v *Validator) { v.minLength = n }
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.clock = now }
}

// NewValidator creates a validator. It hashes a random password once so
// that unknown usernames cost the same hash comparison as known ones.
func NewValidator(store Store, hasher password.Hasher, opts ...Option) (*Validator, error) {
	v := &Validator{
		store:     store,
		hasher:    hasher,
		minLength: 8,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	filler, err := password.RandomHex(16)
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}
	if v.dummyHash, err = hasher.Hash(filler); err != nil {
		return nil, fmt.Errorf("credential: dummy hash: %w", err)
	}
	return v, nil
}

// normalizeUsername is applied on both Register and Authenticate so a
// username is stored and looked up in the same form.
func normalizeUsername(s string) string { return strings.TrimSpace(s) }

// Authenticate returns the identity for a correct username/password pair.
// Failures are NO_SUCH_USER or BAD_PASSWORD; store errors are UNEXPECTED.
func (v *Validator) Authenticate(ctx context.Context, username, pass string) (auth.Identity, error) {
	rec, err := v.store.FindByUsername(ctx, normalizeUsername(username))
	switch {
	case errors.Is(err, ErrNotFound):
		_ = v.hasher.Verify(pass, v.dummyHash)
		return auth.Identity{}, auth.Fail(auth.NoSuchUser, nil)
	case err != nil:
		return auth.Identity{}, auth.Fail(auth.Unexpected, err)
	}

	if err := v.hasher.Verify(pass, rec.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return auth.Identity{}, auth.Fail(auth.BadPassword, nil)
		}
		return auth.Identity{}, auth.Fail(auth.Unexpected, err)
	}
	return auth.Identity{Subject: rec.Username}, nil
}

// Register stores a new record with a freshly salted hash. The store decides
// uniqueness; a collision is USERNAME_TAKEN.
//
// Input problems (blank username, short password) are returned as
// *apperrors.AppError rather than a Failure.
func (v *Validator) Register(ctx context.Context, username, pass, email string) (auth.Identity, error) {
	username = normalizeUsername(username)
	if username == "" {
		return auth.Identity{}, apperrors.MissingField("username")
	}
	if len(pass) < v.minLength {
		return auth.Identity{}, apperrors.InvalidInput("password", fmt.Sprintf("must be at least %d characters", v.minLength))
	}
	if email == "" {
		email = username + "@" + DefaultEmailDomain
	}

	hash, err := v.hasher.Hash(pass)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return auth.Identity{}, apperrors.InvalidInput("password", "too long")
		}
		return auth.Identity{}, auth.Fail(auth.Unexpected, err)
	}

	rec := &Record{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		CreatedAt:    v.clock().UTC(),
	}
	if err := v.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return auth.Identity{}, auth.Fail(auth.UsernameTaken, nil)
		}
		return auth.Identity{}, auth.Fail(auth.Unexpected, err)
	}
	return auth.Identity{Subject: rec.Username}, nil
}

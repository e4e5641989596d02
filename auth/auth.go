package auth

import (
	"errors"
	"fmt"

	apperrors "github.com/kbukum/authgate/errors"
)

// Identity is the authenticated principal attached to a request.
// It is rebuilt from a verified token on every request and never persisted.
type Identity struct {
	Subject string `json:"username"`
}

// IsZero reports whether the identity carries no subject.
func (i Identity) IsZero() bool { return i.Subject == "" }

// FailureKind classifies why an authentication step was rejected. The kind
// is logged; clients only ever see the generic boundary message.
type FailureKind string

const (
	// Malformed: wrong segment count, undecodable or incomplete claims.
	Malformed FailureKind = "MALFORMED"
	// BadSignature: the signature does not authenticate the token bytes.
	BadSignature FailureKind = "BAD_SIGNATURE"
	// Expired: authentic token presented at or after its expiry.
	Expired FailureKind = "EXPIRED"
	// Unsupported: authentic token of the wrong class, algorithm or issuer.
	Unsupported FailureKind = "UNSUPPORTED"
	// NoSuchUser: login for a username with no credential record.
	NoSuchUser FailureKind = "NO_SUCH_USER"
	// BadPassword: login with a wrong password.
	BadPassword FailureKind = "BAD_PASSWORD"
	// UsernameTaken: registration collided with an existing record.
	UsernameTaken FailureKind = "USERNAME_TAKEN"
	// Unexpected: any error outside the taxonomy. Always handled fail-closed.
	Unexpected FailureKind = "UNEXPECTED"
)

// IsTokenFailure reports whether the kind comes from token verification.
func (k FailureKind) IsTokenFailure() bool {
	switch k {
	case Malformed, BadSignature, Expired, Unsupported:
		return true
	}
	return false
}

// IsCredentialFailure reports whether the kind comes from a login attempt.
func (k FailureKind) IsCredentialFailure() bool {
	return k == NoSuchUser || k == BadPassword
}

// Failure is the error returned by every authentication operation.
type Failure struct {
	Kind  FailureKind
	Cause error
}

// Fail creates a Failure of the given kind.
func Fail(kind FailureKind, cause error) *Failure {
	return &Failure{Kind: kind, Cause: cause}
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("auth: %s: %v", f.Kind, f.Cause)
	}
	return "auth: " + string(f.Kind)
}

func (f *Failure) Unwrap() error { return f.Cause }

// Is matches any Failure of the same kind, so errors.Is(err, auth.ErrExpired)
// works regardless of the cause.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == f.Kind
}

// AppError maps the failure onto its client-facing error. All token kinds
// map to one error, all credential kinds to another.
func (f *Failure) AppError() *apperrors.AppError {
	switch {
	case f.Kind.IsTokenFailure():
		return apperrors.InvalidToken()
	case f.Kind.IsCredentialFailure():
		return apperrors.InvalidCredentials()
	case f.Kind == UsernameTaken:
		return apperrors.UsernameTaken()
	default:
		return apperrors.Internal(f.Cause)
	}
}

// Sentinels for errors.Is checks.
var (
	ErrMalformed     = &Failure{Kind: Malformed}
	ErrBadSignature  = &Failure{Kind: BadSignature}
	ErrExpired       = &Failure{Kind: Expired}
	ErrUnsupported   = &Failure{Kind: Unsupported}
	ErrNoSuchUser    = &Failure{Kind: NoSuchUser}
	ErrBadPassword   = &Failure{Kind: BadPassword}
	ErrUsernameTaken = &Failure{Kind: UsernameTaken}
)

// AsFailure converts any error into a Failure. Errors outside the taxonomy
// become Unexpected with the original error as cause. nil stays nil.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Fail(Unexpected, err)
}

// KindOf returns the failure kind of err, or "" for nil.
func KindOf(err error) FailureKind {
	if f := AsFailure(err); f != nil {
		return f.Kind
	}
	return ""
}

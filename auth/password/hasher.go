// Package password hashes and verifies stored credentials.
//
// Encoded hashes are self-describing: each carries its own salt and
// cost parameters, so records written under one configuration still
// verify after the configuration changes. Length policy is not enforced
// here; the credential validator owns it.
package password

import (
	"errors"
	"strings"
)

var (
	// ErrMismatch is returned by Verify when the password does not match.
	ErrMismatch = errors.New("password: mismatch")

	// ErrTooLong is returned by Bcrypt for passwords over 72 bytes.
	ErrTooLong = errors.New("password: bcrypt accepts at most 72 bytes")
)

// Hasher turns a plaintext password into a storable encoding and checks
// a plaintext against one. Verify returns nil on a match, ErrMismatch on
// a wrong password and any other error when the encoding is unusable.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) error
}

// Auto hashes with Primary and verifies each encoding with the scheme its
// prefix names. Unknown prefixes go to Primary.
type Auto struct {
	Primary Hasher
}

func (h Auto) Hash(plain string) (string, error) { return h.Primary.Hash(plain) }

func (h Auto) Verify(plain, encoded string) error {
	switch {
	case strings.HasPrefix(encoded, argonPrefix):
		return Argon2id{}.Verify(plain, encoded)
	case strings.HasPrefix(encoded, bcryptPrefix):
		return Bcrypt{}.Verify(plain, encoded)
	}
	return h.Primary.Verify(plain, encoded)
}

var (
	_ Hasher = Bcrypt{}
	_ Hasher = Argon2id{}
	_ Hasher = Auto{}
)

package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when Bcrypt.Cost is zero or out of range.
const DefaultBcryptCost = 12

const (
	bcryptMaxInput = 72
	bcryptPrefix   = "$2"
)

// Bcrypt hashes with bcrypt. The zero value uses DefaultBcryptCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) cost() int {
	if b.Cost < bcrypt.MinCost || b.Cost > bcrypt.MaxCost {
		return DefaultBcryptCost
	}
	return b.Cost
}

// Hash encodes plain in the modular crypt format ($2a$...).
func (b Bcrypt) Hash(plain string) (string, error) {
	if len(plain) > bcryptMaxInput {
		return "", ErrTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost())
	if err != nil {
		return "", fmt.Errorf("password: bcrypt: %w", err)
	}
	return string(out), nil
}

// Verify compares plain against a bcrypt encoding. Over-long input can
// never match a stored hash and reports ErrMismatch.
func (Bcrypt) Verify(plain, encoded string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrMismatch
	}
	return fmt.Errorf("password: bcrypt: %w", err)
}

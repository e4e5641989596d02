package credential

import (
	"context"
	"errors"
	"time"
)

// Record is a stored credential. Only registration writes it.
type Record struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// Store errors. Implementations must return these (possibly wrapped).
var (
	ErrNotFound  = errors.New("credential: record not found")
	ErrDuplicate = errors.New("credential: username already exists")
)

// Store persists credential records. Insert must enforce username
// uniqueness atomically: of two concurrent inserts for one username, exactly
// one succeeds and the other returns ErrDuplicate.
type Store interface {
	FindByUsername(ctx context.Context, username string) (*Record, error)
	Insert(ctx context.Context, rec *Record) error
}

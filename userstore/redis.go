package userstore

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/authgate/auth/credential"
	"github.com/kbukum/authgate/redis"
)

type redisRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Redis stores one JSON document per username under <prefix>:users:<name>.
type Redis struct {
	users *redis.Documents[redisRecord]
}

// NewRedis creates a Redis-backed store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{users: redis.NewDocuments[redisRecord](client, "users")}
}

var _ credential.Store = (*Redis)(nil)

func (s *Redis) FindByUsername(ctx context.Context, username string) (*credential.Record, error) {
	r, found, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("userstore: %w", err)
	}
	if !found {
		return nil, credential.ErrNotFound
	}
	return &credential.Record{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		CreatedAt:    r.CreatedAt,
	}, nil
}

func (s *Redis) Insert(ctx context.Context, rec *credential.Record) error {
	created, err := s.users.Claim(ctx, rec.Username, redisRecord{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Email:        rec.Email,
		CreatedAt:    rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("userstore: %w", err)
	}
	if !created {
		return credential.ErrDuplicate
	}
	return nil
}

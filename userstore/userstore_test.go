package userstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/authgate/auth/credential"
	"github.com/kbukum/authgate/database"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/redis"
)

func newSQLStore(t *testing.T) *SQL {
	t.Helper()
	comp := database.NewComponent(database.Config{
		DSN:         ":memory:",
		AutoMigrate: true,
		MaxRetries:  1,
		LogLevel:    "silent",
	}, logger.Nop()).WithAutoMigrate(&UserModel{})
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("database start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })
	return NewSQL(comp)
}

func newRedisStore(t *testing.T) *Redis {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := redis.New(redis.Config{Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client)
}

func stores(t *testing.T) map[string]credential.Store {
	return map[string]credential.Store{
		DriverMemory: NewMemory(),
		DriverSQL:    newSQLStore(t),
		DriverRedis:  newRedisStore(t),
	}
}

func record(username string) *credential.Record {
	return &credential.Record{
		ID:           "id-" + username,
		Username:     username,
		PasswordHash: "$2a$10$hash",
		Email:        username + "@example.com",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStore_InsertAndFind(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Insert(ctx, record("alice")); err != nil {
				t.Fatalf("Insert: %v", err)
			}

			got, err := store.FindByUsername(ctx, "alice")
			if err != nil {
				t.Fatalf("FindByUsername: %v", err)
			}
			want := record("alice")
			if got.ID != want.ID || got.PasswordHash != want.PasswordHash || got.Email != want.Email {
				t.Errorf("got %+v, want %+v", got, want)
			}
			if !got.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.FindByUsername(context.Background(), "ghost")
			if !errors.Is(err, credential.ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_Duplicate(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Insert(ctx, record("bob")); err != nil {
				t.Fatalf("first Insert: %v", err)
			}
			second := record("bob")
			second.ID = "other"
			if err := store.Insert(ctx, second); !errors.Is(err, credential.ErrDuplicate) {
				t.Fatalf("second Insert = %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestStore_ConcurrentInsertSingleWinner(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wins, dups atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					rec := record("carol")
					rec.ID = fmt.Sprintf("id-%d", i)
					switch err := store.Insert(ctx, rec); {
					case err == nil:
						wins.Add(1)
					case errors.Is(err, credential.ErrDuplicate):
						dups.Add(1)
					default:
						t.Errorf("Insert: %v", err)
					}
				}(i)
			}
			wg.Wait()
			if wins.Load() != 1 || dups.Load() != 7 {
				t.Fatalf("wins=%d dups=%d, want 1/7", wins.Load(), dups.Load())
			}
		})
	}
}

type nilSource struct{}

func (nilSource) DB() *database.DB { return nil }

func TestSQL_NotStarted(t *testing.T) {
	store := NewSQL(nilSource{})
	if _, err := store.FindByUsername(context.Background(), "x"); err == nil {
		t.Fatal("expected error before database start")
	}
	if err := store.Insert(context.Background(), record("x")); err == nil {
		t.Fatal("expected error before database start")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Driver != DriverMemory {
		t.Errorf("default driver = %q", cfg.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	cfg.Driver = "ldap"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown driver")
	}
}

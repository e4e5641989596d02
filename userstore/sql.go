package userstore

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/authgate/auth/credential"
	"github.com/kbukum/authgate/database"
)

// UserModel is the users table. The unique index on username is what makes
// concurrent registrations of one name collide.
type UserModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Username     string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName overrides gorm's pluralized default.
func (UserModel) TableName() string { return "users" }

// DBSource yields the connection once it is open. *database.Component
// satisfies it, which lets the store be wired before the component starts.
type DBSource interface {
	DB() *database.DB
}

// SQL stores credentials in a relational database through gorm.
type SQL struct {
	src DBSource
}

// NewSQL creates a SQL store. The table is created by the database
// component's auto-migration (see UserModel).
func NewSQL(src DBSource) *SQL {
	return &SQL{src: src}
}

var _ credential.Store = (*SQL)(nil)

func (s *SQL) db() (*database.DB, error) {
	db := s.src.DB()
	if db == nil {
		return nil, fmt.Errorf("userstore: database not started")
	}
	return db, nil
}

func (s *SQL) FindByUsername(ctx context.Context, username string) (*credential.Record, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	var m UserModel
	if err := db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, credential.ErrNotFound
		}
		return nil, fmt.Errorf("userstore: find %q: %w", username, err)
	}
	return &credential.Record{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Email:        m.Email,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func (s *SQL) Insert(ctx context.Context, rec *credential.Record) error {
	db, err := s.db()
	if err != nil {
		return err
	}

	m := UserModel{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Email:        rec.Email,
		CreatedAt:    rec.CreatedAt,
	}
	if err := db.WithContext(ctx).Create(&m).Error; err != nil {
		if database.IsDuplicate(err) {
			return credential.ErrDuplicate
		}
		return fmt.Errorf("userstore: insert %q: %w", rec.Username, err)
	}
	return nil
}

package userstore

import (
	"context"
	"sync"

	"github.com/kbukum/authgate/auth/credential"
)

// Memory is an in-process store. Contents are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	records map[string]credential.Record
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]credential.Record)}
}

var _ credential.Store = (*Memory)(nil)

func (m *Memory) FindByUsername(_ context.Context, username string) (*credential.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[username]
	if !ok {
		return nil, credential.ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) Insert(_ context.Context, rec *credential.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.Username]; ok {
		return credential.ErrDuplicate
	}
	m.records[rec.Username] = *rec
	return nil
}

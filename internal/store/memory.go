package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process store used by tests and ephemeral runs.
type Memory struct {
	mu    sync.RWMutex
	birth *time.Time
	dark  bool
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// BirthDate implements DateStore.
func (m *Memory) BirthDate(ctx context.Context) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.birth == nil {
		return time.Time{}, false, nil
	}
	return *m.birth, true, nil
}

// SetBirthDate implements DateStore.
func (m *Memory) SetBirthDate(ctx context.Context, birth time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.birth = &birth
	return nil
}

// DarkMode implements PreferenceStore.
func (m *Memory) DarkMode(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dark, nil
}

// SetDarkMode implements PreferenceStore.
func (m *Memory) SetDarkMode(ctx context.Context, dark bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dark = dark
	return nil
}

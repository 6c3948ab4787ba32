// Package store persists the values shared by the app and the widget:
// the user's birth date and the display preference. Both processes open
// the same namespace (config.GroupID) and observe each other's writes
// without talking to each other.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New(config.ErrUnknownBackend)

// ErrStoredValue wraps values that exist but cannot be decoded.
var ErrStoredValue = errors.New(config.ErrStoredValue)

// DateStore reads and writes the birth date.
// BirthDate reports ok=false, not an error, when nothing was ever written.
// SetBirthDate returns only once the value is visible to other processes.
type DateStore interface {
	BirthDate(ctx context.Context) (birth time.Time, ok bool, err error)
	SetBirthDate(ctx context.Context, birth time.Time) error
}

// PreferenceStore reads and writes the display preference.
type PreferenceStore interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, dark bool) error
}

// Store is the full shared namespace.
type Store interface {
	DateStore
	PreferenceStore
	Close() error
}

// Open returns the backend selected by s.Backend. prefs is only used by
// the preferences backend and may be nil otherwise.
func Open(s config.Settings, prefs fyne.Preferences) (Store, error) {
	var (
		st  Store
		err error
	)

	switch s.Backend {
	case config.BackendSQLite:
		var path string
		path, err = SQLitePath(s)
		if err == nil {
			st, err = OpenSQLite(path)
		}
	case config.BackendKeyring:
		st = NewKeyring(config.GroupID)
	case config.BackendPreferences:
		if prefs == nil {
			err = fmt.Errorf("%s: %s", config.ErrNoPreferences, s.Backend)
		} else {
			st = NewPreferences(prefs)
		}
	case config.BackendMemory:
		st = NewMemory()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}

	slog.Info(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyBackend, s.Backend)
	return st, nil
}

// SQLitePath resolves the database file inside the shared group directory.
func SQLitePath(s config.Settings) (string, error) {
	dir, err := s.GroupPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.SharedDBFile), nil
}

// -----------------------------------------------------------------------------
// Value encoding shared by the string-based backends
// -----------------------------------------------------------------------------

func encodeDate(t time.Time) string {
	return t.UTC().Format(config.StoredDateLayout)
}

func decodeDate(raw string) (time.Time, error) {
	t, err := time.Parse(config.StoredDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrStoredValue, config.KeyBirthDate, err)
	}
	return t.Local(), nil
}

func encodeBool(b bool) string {
	if b {
		return config.StoredTrue
	}
	return config.StoredFalse
}

func decodeBool(raw string) (bool, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrStoredValue, config.KeyDarkMode, err)
	}
	return b, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/go-ageflow/internal/config"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite stores the shared namespace in a single-table SQLite file that
// both processes open. WAL lets the widget read while the app writes;
// synchronous=FULL makes a committed write durable before it returns.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(config.ErrStorePath)
	}
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSQLiteOpen, err)
	}

	// One connection keeps the PRAGMAs below in effect for every query.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", config.SQLiteBusyTimeout.Milliseconds()),
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(context.Background(), p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %s: %w", config.ErrSQLitePragma, p, err)
		}
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrSQLiteSchema, err)
	}

	return &SQLite{db: db, path: cleanPath}, nil
}

// Path returns the database file, for change watching.
func (s *SQLite) Path() string {
	return s.path
}

// Close releases the SQLite connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BirthDate implements DateStore.
func (s *SQLite) BirthDate(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := s.get(ctx, config.KeyBirthDate)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := decodeDate(raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// SetBirthDate implements DateStore.
func (s *SQLite) SetBirthDate(ctx context.Context, birth time.Time) error {
	return s.put(ctx, config.KeyBirthDate, encodeDate(birth))
}

// DarkMode implements PreferenceStore. Unset reads as light mode.
func (s *SQLite) DarkMode(ctx context.Context) (bool, error) {
	raw, ok, err := s.get(ctx, config.KeyDarkMode)
	if err != nil || !ok {
		return false, err
	}
	return decodeBool(raw)
}

// SetDarkMode implements PreferenceStore.
func (s *SQLite) SetDarkMode(ctx context.Context, dark bool) error {
	return s.put(ctx, config.KeyDarkMode, encodeBool(dark))
}

func (s *SQLite) get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s == nil || s.db == nil {
		return "", false, errors.New(config.ErrStoreClosed)
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %s: %w", config.ErrStoreRead, key, err)
	}
	return value, true, nil
}

func (s *SQLite) put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New(config.ErrStoreClosed)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`,
		key,
		value,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", config.ErrStoreWrite, key, err)
	}
	return nil
}

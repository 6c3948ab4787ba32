package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/zalando/go-keyring"
)

// Keyring keeps the shared namespace in the OS secret store, under one
// service name. Every process of the same user can reach it, which makes
// it the desktop counterpart of a keychain access group.
type Keyring struct {
	Service string
}

// NewKeyring returns a keyring-backed store for service.
func NewKeyring(service string) *Keyring {
	return &Keyring{Service: service}
}

// Close is a no-op; the keyring holds no handle.
func (k *Keyring) Close() error { return nil }

// BirthDate implements DateStore.
func (k *Keyring) BirthDate(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := k.get(ctx, config.KeyBirthDate)
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
func (k *Keyring) SetBirthDate(ctx context.Context, birth time.Time) error {
	return k.put(ctx, config.KeyBirthDate, encodeDate(birth))
}

// DarkMode implements PreferenceStore.
func (k *Keyring) DarkMode(ctx context.Context) (bool, error) {
	raw, ok, err := k.get(ctx, config.KeyDarkMode)
	if err != nil || !ok {
		return false, err
	}
	return decodeBool(raw)
}

// SetDarkMode implements PreferenceStore.
func (k *Keyring) SetDarkMode(ctx context.Context, dark bool) error {
	return k.put(ctx, config.KeyDarkMode, encodeBool(dark))
}

func (k *Keyring) get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	value, err := keyring.Get(k.Service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %s: %w", config.ErrStoreRead, key, err)
	}
	return value, true, nil
}

func (k *Keyring) put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := keyring.Set(k.Service, key, value); err != nil {
		return fmt.Errorf("%s: %s: %w", config.ErrStoreWrite, key, err)
	}
	return nil
}

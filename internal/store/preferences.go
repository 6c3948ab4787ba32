package store

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// Preferences adapts fyne.Preferences. It is only shared within one
// process, so it suits builds where the widget surface runs in the app.
type Preferences struct {
	prefs fyne.Preferences
}

// NewPreferences wraps the given Fyne preferences.
func NewPreferences(prefs fyne.Preferences) *Preferences {
	return &Preferences{prefs: prefs}
}

// Close is a no-op; Fyne owns the preferences lifecycle.
func (p *Preferences) Close() error { return nil }

// BirthDate implements DateStore.
func (p *Preferences) BirthDate(ctx context.Context) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	raw := p.prefs.String(config.KeyBirthDate)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := decodeDate(raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// SetBirthDate implements DateStore.
func (p *Preferences) SetBirthDate(ctx context.Context, birth time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.prefs.SetString(config.KeyBirthDate, encodeDate(birth))
	return nil
}

// DarkMode implements PreferenceStore.
func (p *Preferences) DarkMode(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.prefs.Bool(config.KeyDarkMode), nil
}

// SetDarkMode implements PreferenceStore.
func (p *Preferences) SetDarkMode(ctx context.Context, dark bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.prefs.SetBool(config.KeyDarkMode, dark)
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/caarlos0/env/v11"
)

// Settings holds the runtime configuration shared by both executables.
// Values come from the environment and may be overridden by CLI flags.
type Settings struct {
	Backend    string `env:"AGEFLOW_STORE_BACKEND" envDefault:"sqlite"`
	GroupDir   string `env:"AGEFLOW_GROUP_DIR"`
	WidgetPort string `env:"AGEFLOW_WIDGET_PORT" envDefault:"18181"`
}

// LoadSettings reads the environment overrides.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrEnvParse, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the selected backend is known.
func (s Settings) Validate() error {
	if !slices.Contains(SupportedBackends, s.Backend) {
		return fmt.Errorf("%s: %q", ErrUnknownBackend, s.Backend)
	}
	return nil
}

// GroupPath returns the directory backing the shared group namespace.
// An explicit GroupDir wins; otherwise the directory lives under the
// user's config dir so both processes resolve the same location.
func (s Settings) GroupPath() (string, error) {
	if s.GroupDir != "" {
		return filepath.Clean(s.GroupDir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrGroupDir, err)
	}
	if base == "" {
		return "", errors.New(ErrGroupDir)
	}
	return filepath.Join(base, GroupID), nil
}

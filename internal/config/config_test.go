package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"GroupID", config.GroupID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"KeyBirthDate", config.KeyBirthDate},
		{"KeyDarkMode", config.KeyDarkMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestStorageKeys_Stable guards the keys shared with already-installed widgets.
func TestStorageKeys_Stable(t *testing.T) {
	assert.Equal(t, "userBirthDate", config.KeyBirthDate)
	assert.Equal(t, "isDarkMode", config.KeyDarkMode)
	assert.True(t, strings.HasPrefix(config.GroupID, "group."), "group namespace must keep its prefix")
}

// TestYearConstant pins the mean tropical year used for every age value.
func TestYearConstant(t *testing.T) {
	assert.Equal(t, 365.2422, config.DaysPerYear)
	assert.Equal(t, 86400*365.2422, config.SecondsPerYear)
	assert.NotEqual(t, 86400*365.25, config.SecondsPerYear)
}

// TestCadences_Sanity checks the refresh cadences against their documented values.
func TestCadences_Sanity(t *testing.T) {
	assert.Equal(t, 10*time.Millisecond, config.InteractiveInterval)
	assert.Equal(t, 20*time.Second, config.GradientInterval)
	assert.Equal(t, 5, config.WidgetEntries)
	assert.Equal(t, 15*time.Second, config.WidgetTick)
	assert.Equal(t, 60*time.Second, config.WidgetRefreshDelay)
}

func TestSentinels_MatchFormats(t *testing.T) {
	assert.Len(t, strings.Split(config.AgeSentinelPrimary, ".")[1], 8)
	assert.Equal(t, config.AgeSentinelPrimary, config.AgeSentinelWidget)
	assert.Len(t, strings.Split(config.AgePlaceholderWidget, ".")[1], 8)
}

func TestLoadSettings_Defaults(t *testing.T) {
	for _, key := range []string{"AGEFLOW_STORE_BACKEND", "AGEFLOW_GROUP_DIR", "AGEFLOW_WIDGET_PORT"} {
		t.Setenv(key, "") // registers the restore
		require.NoError(t, os.Unsetenv(key))
	}

	s, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBackend, s.Backend)
	assert.Equal(t, config.DefaultWidgetPort, s.WidgetPort)
}

func TestLoadSettings_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGEFLOW_STORE_BACKEND", config.BackendMemory)
	t.Setenv("AGEFLOW_GROUP_DIR", dir)
	t.Setenv("AGEFLOW_WIDGET_PORT", "9999")

	s, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, s.Backend)
	assert.Equal(t, "9999", s.WidgetPort)

	path, err := s.GroupPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), path)
}

func TestLoadSettings_UnknownBackend(t *testing.T) {
	t.Setenv("AGEFLOW_STORE_BACKEND", "carrier-pigeon")

	_, err := config.LoadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrUnknownBackend)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-AgeFlow/"), "UserAgent must start with AppName/")
}

package applog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ageflow/internal/config"
)

func withCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// os.UserCacheDir honours XDG_CACHE_HOME on Linux and HOME elsewhere.
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("LocalAppData", dir)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return dir
}

func TestSetup_WritesJSONToStdoutAndFile(t *testing.T) {
	withCacheDir(t)
	var out bytes.Buffer

	closer := setup(&out, false, "test.log")
	require.NotNil(t, closer)

	slog.Info("hello", config.LogKeyComponent, config.CompMain)
	slog.Debug("hidden")
	require.NoError(t, closer.Close())

	var rec map[string]any
	line := strings.TrimSpace(out.String())
	require.NoError(t, json.Unmarshal([]byte(line), &rec), "one JSON record expected, got %q", line)
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, config.CompMain, rec[config.LogKeyComponent])

	path, err := FilePath("test.log")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestSetup_DebugAddsSource(t *testing.T) {
	withCacheDir(t)
	var out bytes.Buffer

	closer := setup(&out, true, "debug.log")
	if closer != nil {
		t.Cleanup(func() { _ = closer.Close() })
	}

	slog.Debug("visible")

	assert.Contains(t, out.String(), `"msg":"visible"`)
	assert.Contains(t, out.String(), `"source"`)
}

func TestFilePath_UnderAppDir(t *testing.T) {
	withCacheDir(t)

	path, err := FilePath(config.WidgetLogFile)

	require.NoError(t, err)
	assert.Equal(t, config.WidgetLogFile, filepath.Base(path))
	assert.Equal(t, config.AppID, filepath.Base(filepath.Dir(path)))
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	PrintVersion(&out, config.WidgetName)

	assert.Contains(t, out.String(), config.WidgetName)
	assert.Contains(t, out.String(), config.Version)
	assert.Contains(t, out.String(), runtime.GOOS)
}

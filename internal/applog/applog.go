// Package applog configures the process-wide slog logger shared by the
// app and the widget executables.
package applog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tartampluch/go-ageflow/internal/config"
)

// Setup installs a JSON slog handler writing to stdout and to fileName
// in the user's cache directory. The returned closer is nil when no file
// could be opened.
func Setup(debugMode bool, fileName string) io.Closer {
	return setup(os.Stdout, debugMode, fileName)
}

func setup(stdout io.Writer, debugMode bool, fileName string) io.Closer {
	writers := []io.Writer{stdout}
	var logFile *os.File

	if logPath, err := FilePath(fileName); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// FilePath returns <UserCacheDir>/<AppID>/fileName, creating the
// directory with owner-only permissions.
func FilePath(fileName string) (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, fileName), nil
}

// StartupInfo logs build and environment details useful for debugging.
func StartupInfo(appName string) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, appName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// PrintVersion writes the build information to w.
func PrintVersion(w io.Writer, appName string) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		appName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

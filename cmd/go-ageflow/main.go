package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-ageflow/internal/applog"
	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/store"
	"github.com/tartampluch/go-ageflow/internal/ui"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	backend := flag.String(config.FlagStore, "", config.FlagDescStore)
	flag.Parse()

	if *showVersion {
		applog.PrintVersion(os.Stdout, config.AppName)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	if logCloser := applog.Setup(*debugMode, config.LogFileName); logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	applog.StartupInfo(config.AppName)

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, *backend); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run opens the shared store, wires the UI and blocks in the Fyne loop.
func run(ctx context.Context, backend string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if backend != "" {
		settings.Backend = backend
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	a := app.NewWithID(config.AppID)
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	st, err := store.Open(settings, a.Preferences())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	gui := ui.NewAgeFlowApp(a, ctx, st)

	// Lifecycle Bridge: quit the UI when the context is cancelled.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}

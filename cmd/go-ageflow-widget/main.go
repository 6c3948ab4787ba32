package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/tartampluch/go-ageflow/internal/applog"
	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/engine"
	"github.com/tartampluch/go-ageflow/internal/server"
	"github.com/tartampluch/go-ageflow/internal/store"
	"github.com/tartampluch/go-ageflow/internal/ui"
	"github.com/tartampluch/go-ageflow/internal/widget"
)

// options are the resolved command-line and environment settings.
type options struct {
	Settings config.Settings
	Once     bool
	NoTray   bool
	Family   string
}

func main() {
	os.Exit(runMain())
}

func runMain() int {
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	backend := flag.String(config.FlagStore, "", config.FlagDescStore)
	once := flag.Bool(config.FlagOnce, false, config.FlagDescOnce)
	port := flag.String(config.FlagPort, "", config.FlagDescPort)
	noTray := flag.Bool(config.FlagNoTray, false, config.FlagDescNoTray)
	family := flag.String(config.FlagFamily, config.DefaultFamily, config.FlagDescFamily)
	flag.Parse()

	if *showVersion {
		applog.PrintVersion(os.Stdout, config.WidgetName)
		return config.ExitCodeSuccess
	}

	if logCloser := applog.Setup(*debugMode, config.WidgetLogFile); logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	applog.StartupInfo(config.WidgetName)

	settings, err := config.LoadSettings()
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		return config.ExitCodeError
	}

	// Flags win over the environment, but only when given explicitly:
	// an explicit empty --port disables the HTTP endpoint.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case config.FlagStore:
			settings.Backend = *backend
		case config.FlagPort:
			settings.WidgetPort = *port
		}
	})

	opts := options{
		Settings: settings,
		Once:     *once,
		NoTray:   *noTray || *once,
		Family:   *family,
	}

	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run opens the shared store and drives the widget host until ctx ends
// or, with a tray, until the user quits it.
func run(ctx context.Context, opts options, stdout io.Writer) error {
	if err := opts.Settings.Validate(); err != nil {
		return err
	}

	var a fyne.App
	var prefs fyne.Preferences
	if !opts.NoTray {
		// Same app ID as the interactive process so the preferences
		// backend resolves to the same file.
		a = app.NewWithID(config.AppID)
		prefs = a.Preferences()
	}

	st, err := store.Open(opts.Settings, prefs)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	clock := engine.RealClock{}
	provider := widget.NewProvider(st, clock)

	if opts.Once {
		return writeTimeline(stdout, provider.Timeline(ctx))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := widget.NewHost(provider, clock, widget.NewWriterRenderer(stdout, opts.Family))

	if opts.Settings.WidgetPort != "" {
		srv := server.NewTimelineServer(opts.Settings.WidgetPort, st, clock)
		host.Renderers = append(host.Renderers, srv)
		host.Observers = append(host.Observers, srv)
		go func() {
			if err := srv.Start(ctx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err)
			}
		}()
	}

	if err := watchStore(ctx, opts.Settings, host); err != nil {
		// The host still refreshes at every hint; only prompt reloads are lost.
		slog.Warn(config.ErrWatch,
			config.LogKeyComponent, config.CompWatcher,
			config.LogKeyError, err)
	}

	if a == nil {
		host.Run(ctx)
		return nil
	}

	if desk, ok := a.(desktop.App); ok {
		host.Renderers = append(host.Renderers, ui.NewTrayRenderer(desk, nil, opts.Family))
	} else {
		slog.Warn(config.ErrTrayNotSupported, config.LogKeyComponent, config.CompWidget)
	}

	hostDone := make(chan struct{})
	go func() {
		defer close(hostDone)
		host.Run(ctx)
	}()

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	a.Run()
	cancel()
	<-hostDone
	return nil
}

// watchStore reloads the host whenever the other process writes the
// SQLite namespace. Other backends rely on the refresh hint alone.
func watchStore(ctx context.Context, s config.Settings, host *widget.Host) error {
	if s.Backend != config.BackendSQLite {
		return nil
	}
	path, err := store.SQLitePath(s)
	if err != nil {
		return err
	}
	_, err = store.Watch(ctx, path, func() {
		slog.Debug(config.MsgReloadRequested, config.LogKeyComponent, config.CompWatcher)
		host.Reload()
	})
	return err
}

func writeTimeline(w io.Writer, tl widget.Timeline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tl); err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}
	return nil
}

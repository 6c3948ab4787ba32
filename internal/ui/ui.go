package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/engine"
	"github.com/tartampluch/go-ageflow/internal/store"
	agewidget "github.com/tartampluch/go-ageflow/internal/widget"
)

// AgeFlowApp is the single app-state object of the interactive process.
// It owns the refresher, publishes the formatted age through AgeText and
// is the only writer of the shared store on this side.
type AgeFlowApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Store     store.Store
	Clock     engine.Clock
	Refresher *engine.Refresher
	Importer  *engine.Importer

	// AgeText holds the primary age string, "%.8f" or the sentinel.
	AgeText     binding.String
	Gradient    *Gradient
	ageListener binding.DataListener

	Tray             desktop.App
	Menu             *fyne.Menu
	TrayOpenItem     *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	settingsWindow     fyne.Window
	hasBirthDate       bool
	dark               bool
}

// NewAgeFlowApp constructs the application and wires dependencies.
func NewAgeFlowApp(a fyne.App, ctx context.Context, st store.Store) *AgeFlowApp {
	a.SetIcon(theme.HistoryIcon())

	app := &AgeFlowApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Store:              st,
		Clock:              engine.RealClock{},
		Importer:           &engine.Importer{Fetcher: engine.NewHTTPFetcher()},
		AgeText:            binding.NewString(),
		SupportedLanguages: config.SupportedLanguages,
	}
	_ = app.AgeText.Set(config.AgeSentinelPrimary)

	app.Refresher = engine.NewRefresher(app.Clock, app.publishAge)
	app.Gradient = NewGradient()
	return app
}

// Run loads the persisted state, shows the main window and blocks in the
// Fyne event loop.
func (app *AgeFlowApp) Run() {
	app.SetupI18n()
	app.Bootstrap()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.ShowMainWindow()
	go app.Gradient.Run(app.Ctx, config.GradientInterval)

	app.App.Run()
	app.Refresher.Stop()
}

// Bootstrap reads the shared store once at launch. With a birth date the
// refresher starts immediately; without one the age stays at the
// sentinel and the main window shows onboarding.
func (app *AgeFlowApp) Bootstrap() {
	log := slog.With(config.LogKeyComponent, config.CompUI)

	dark, err := app.Store.DarkMode(app.Ctx)
	if err != nil {
		log.Warn(config.ErrStoreRead, config.LogKeyKey, config.KeyDarkMode, config.LogKeyError, err)
	}
	app.applyTheme(dark)

	birth, ok, err := app.Store.BirthDate(app.Ctx)
	if err != nil {
		log.Warn(config.ErrStoreRead, config.LogKeyKey, config.KeyBirthDate, config.LogKeyError, err)
	}
	if !ok {
		log.Info(config.MsgBirthDateUnset)
		app.hasBirthDate = false
		_ = app.AgeText.Set(config.AgeSentinelPrimary)
		return
	}

	log.Info(config.MsgBirthDateLoaded, config.LogKeyDOB, birth.Format(config.DateFormatDisplay))
	app.hasBirthDate = true
	app.Refresher.Start(app.Ctx, birth)
}

// SaveBirthDate normalizes d to its calendar day, rejects future dates,
// persists the value and only then restarts the refresher with it.
func (app *AgeFlowApp) SaveBirthDate(d time.Time) error {
	birth := engine.NormalizeBirthDate(d)
	if err := engine.ValidateBirthDate(birth, app.Clock.Now()); err != nil {
		return err
	}

	if err := app.Store.SetBirthDate(app.Ctx, birth); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}

	slog.Info(config.MsgBirthDateSaved,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyDOB, birth.Format(config.DateFormatDisplay))
	// The widget process reloads through its store watcher.
	slog.Debug(config.MsgReloadRequested, config.LogKeyComponent, config.CompUI)

	app.hasBirthDate = true
	app.Refresher.Start(app.Ctx, birth)
	app.refreshMainContent()
	return nil
}

// SetDarkMode persists the display preference and applies it at once.
func (app *AgeFlowApp) SetDarkMode(dark bool) error {
	if err := app.Store.SetDarkMode(app.Ctx, dark); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	slog.Info(config.MsgDarkModeSaved,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyDark, dark)
	app.applyTheme(dark)
	return nil
}

// publishAge is the refresher callback. It runs off the main goroutine.
func (app *AgeFlowApp) publishAge(age float64) {
	text := engine.FormatPrimary(age)
	fyne.Do(func() {
		_ = app.AgeText.Set(text)
	})
}

func (app *AgeFlowApp) applyTheme(dark bool) {
	app.dark = dark
	app.App.Settings().SetTheme(newVariantTheme(dark))
	app.Gradient.SetDark(dark)
	slog.Debug(config.MsgThemeApplied,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyDark, dark)
}

// setupTrayMenu constructs the system tray menu.
func (app *AgeFlowApp) setupTrayMenu() {
	app.TrayOpenItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuOpen), func() {
		app.ShowMainWindow()
	})
	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyBtnSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayOpenItem,
		fyne.NewMenuItemSeparator(),
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *AgeFlowApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayOpenItem.Label = app.GetMsg(config.TKeyMenuOpen)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyBtnSettings)
	app.Menu.Refresh()
}

// TrayRenderer shows widget entries as the system tray status item. It
// is the desktop rendition of a lock-screen widget.
type TrayRenderer struct {
	Family string

	menu *fyne.Menu
	item *fyne.MenuItem
}

// NewTrayRenderer installs a tray menu whose first item carries the age.
func NewTrayRenderer(tray desktop.App, icon fyne.Resource, family string) *TrayRenderer {
	item := fyne.NewMenuItem(config.FallbackTrayLabel, nil)
	item.Disabled = true
	menu := fyne.NewMenu(config.WidgetName, item)

	if icon == nil {
		icon = theme.HistoryIcon()
	}
	tray.SetSystemTrayIcon(icon)
	tray.SetSystemTrayMenu(menu)

	return &TrayRenderer{Family: family, menu: menu, item: item}
}

// Render implements agewidget.Renderer.
func (r *TrayRenderer) Render(e agewidget.Entry) {
	label := agewidget.Format(r.Family, e)
	fyne.Do(func() {
		r.item.Label = label
		r.menu.Refresh()
	})
}

// Label returns the text currently shown in the tray.
func (r *TrayRenderer) Label() string {
	return r.item.Label
}

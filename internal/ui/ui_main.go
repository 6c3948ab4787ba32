package ui

import (
	"errors"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-ageflow/internal/config"
	"github.com/tartampluch/go-ageflow/internal/engine"
)

// ShowMainWindow creates the main window on first call and focuses it
// afterwards. Its content is onboarding until a birth date exists.
func (app *AgeFlowApp) ShowMainWindow() {
	if app.Window != nil {
		app.Window.Show()
		app.Window.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w
	w.SetMaster()
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))

	app.refreshMainContent()
	w.Show()
}

// refreshMainContent swaps between onboarding and the age view and
// reapplies translations. It is a no-op before the window exists.
func (app *AgeFlowApp) refreshMainContent() {
	if app.Window == nil {
		return
	}
	app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))

	var body fyne.CanvasObject
	if app.hasBirthDate {
		body = app.buildAgeView()
	} else {
		body = app.buildOnboarding()
	}
	app.Window.SetContent(container.NewStack(app.Gradient.Rect, container.NewPadded(body)))
}

// buildAgeView shows the live age, bound to AgeText.
func (app *AgeFlowApp) buildAgeView() fyne.CanvasObject {
	fg := theme.Color(theme.ColorNameForeground)

	caption := canvas.NewText(app.GetMsg(config.TKeyLblYourAge), fg)
	caption.TextSize = config.CaptionTextSize
	caption.Alignment = fyne.TextAlignCenter

	current, _ := app.AgeText.Get()
	age := canvas.NewText(current, fg)
	age.TextSize = config.AgeTextSize
	age.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	age.Alignment = fyne.TextAlignCenter

	listener := binding.NewDataListener(func() {
		v, err := app.AgeText.Get()
		if err != nil {
			return
		}
		age.Text = v
		age.Refresh()
	})
	app.bindAgeListener(listener)

	years := canvas.NewText(app.GetMsg(config.TKeyLblYears), fg)
	years.TextSize = config.CaptionTextSize
	years.Alignment = fyne.TextAlignCenter

	settings := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSettings), theme.SettingsIcon(), func() {
		app.ShowSettingsWindow()
	})

	return container.NewBorder(nil, settings, nil, nil,
		container.NewCenter(container.NewVBox(caption, age, years)))
}

// bindAgeListener keeps a single listener on AgeText across rebuilds.
func (app *AgeFlowApp) bindAgeListener(l binding.DataListener) {
	if app.ageListener != nil {
		app.AgeText.RemoveListener(app.ageListener)
	}
	app.ageListener = l
	app.AgeText.AddListener(l)
}

// buildOnboarding is the first-launch splash: a date picker and Done.
func (app *AgeFlowApp) buildOnboarding() fyne.CanvasObject {
	title := widget.NewLabel(app.GetMsg(config.TKeyLblWelcome))
	title.Alignment = fyne.TextAlignCenter
	title.TextStyle = fyne.TextStyle{Bold: true}

	help := widget.NewLabel(app.GetMsg(config.TKeyLblWelcomeHelp))
	help.Alignment = fyne.TextAlignCenter
	help.Wrapping = fyne.TextWrapWord

	date := widget.NewDateEntry()

	done := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnDone), theme.ConfirmIcon(), func() {
		app.submitBirthDate(date.Date, app.Window)
	})
	done.Importance = widget.HighImportance

	form := widget.NewForm(widget.NewFormItem(app.GetMsg(config.TKeyLblBirthDate), date))

	return container.NewCenter(container.NewVBox(title, help, form, done))
}

// submitBirthDate saves d, or today when no date was picked, and reports
// failures in parent. It returns whether the value was stored.
func (app *AgeFlowApp) submitBirthDate(d *time.Time, parent fyne.Window) bool {
	chosen := app.Clock.Now()
	if d != nil {
		chosen = *d
	}

	if err := app.SaveBirthDate(chosen); err != nil {
		slog.Error(config.ErrStoreWrite,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)

		key := config.TKeyErrSaveFailed
		if errors.Is(err, engine.ErrBirthDateFuture) {
			key = config.TKeyErrFutureDate
		}
		if parent != nil {
			dialog.ShowError(errors.New(app.GetMsg(key)), parent)
		}
		return false
	}
	return true
}

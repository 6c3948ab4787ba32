package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	dateEntry   *widget.DateEntry
	darkCheck   *widget.Check
	langSelect  *widget.Select
	importEntry *widget.Entry
	importBtn   *widget.Button
	doneBtn     *widget.Button
}

// ShowSettingsWindow displays the birth date, appearance and language settings.
func (app *AgeFlowApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.buildSettingsWidgets(w)

	dateForm := widget.NewForm(widget.NewFormItem(app.GetMsg(config.TKeyLblBirthDate), sw.dateEntry))
	dateCard := widget.NewCard(app.GetMsg(config.TKeyLblBirthDate), "", container.NewVBox(dateForm, app.buildImportRow(w, sw)))

	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	themeCard := widget.NewCard(app.GetMsg(config.TKeyLblTheme), "",
		container.NewVBox(sw.darkCheck, widget.NewForm(itemLang)))

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		dateCard,
		themeCard,
		sw.doneBtn,
		footerLabel,
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })
	w.Show()
}

// buildSettingsWidgets creates the controls, pre-filled from the store.
func (app *AgeFlowApp) buildSettingsWidgets(w fyne.Window) *settingsWidgets {
	sw := &settingsWidgets{}

	sw.dateEntry = widget.NewDateEntry()
	if birth, ok, err := app.Store.BirthDate(app.Ctx); err != nil {
		slog.Warn(config.ErrStoreRead,
			config.LogKeyComponent, config.CompUISet,
			config.LogKeyError, err)
	} else if ok {
		sw.dateEntry.SetDate(&birth)
	}

	sw.darkCheck = widget.NewCheck(app.GetMsg(config.TKeyLblDarkMode), nil)
	sw.darkCheck.Checked = app.dark
	sw.darkCheck.OnChanged = func(dark bool) {
		if err := app.SetDarkMode(dark); err != nil {
			slog.Error(config.ErrStoreWrite,
				config.LogKeyComponent, config.CompUISet,
				config.LogKeyError, err)
			dialog.ShowError(errors.New(app.GetMsg(config.TKeyErrSaveFailed)), w)
		}
	}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.importEntry = widget.NewEntry()
	sw.importEntry.PlaceHolder = app.GetMsg(config.TKeyHelpImport)

	sw.doneBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnDone), theme.ConfirmIcon(), func() {
		app.saveSettings(sw, w)
	})
	sw.doneBtn.Importance = widget.HighImportance

	return sw
}

// buildImportRow lets the user fill the date from a contact card.
func (app *AgeFlowApp) buildImportRow(w fyne.Window, sw *settingsWidgets) fyne.CanvasObject {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.importEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	sw.importBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnImport), theme.DownloadIcon(), func() {
		source := strings.TrimSpace(sw.importEntry.Text)
		if source == "" {
			return
		}
		sw.importBtn.Disable()
		go func() {
			birth, err := app.importBirthDate(source)
			fyne.Do(func() {
				sw.importBtn.Enable()
				if err != nil {
					dialog.ShowError(errors.New(app.GetMsg(config.TKeyErrImportFailed)), w)
					return
				}
				sw.dateEntry.SetDate(&birth)
			})
		}()
	})

	item := widget.NewFormItem(app.GetMsg(config.TKeyLblImport),
		container.NewBorder(nil, nil, nil, container.NewHBox(browseBtn, sw.importBtn), sw.importEntry))
	item.HintText = app.GetMsg(config.TKeyHelpImport)
	return widget.NewForm(item)
}

// importBirthDate reads a birthday from a contact card path or URL. The
// result only fills the form; nothing is stored until Done.
func (app *AgeFlowApp) importBirthDate(source string) (time.Time, error) {
	birth, err := app.Importer.Import(app.Ctx, source)
	if err != nil {
		slog.Warn(config.ErrImportFailed,
			config.LogKeyComponent, config.CompUISet,
			config.LogKeyError, err)
		return time.Time{}, err
	}
	slog.Info(config.MsgImported,
		config.LogKeyComponent, config.CompUISet,
		config.LogKeyDOB, birth.Format(config.DateFormatDisplay))
	return birth, nil
}

// saveSettings stores the birth date, today when none was picked, and
// applies the language. The window stays open on failure.
func (app *AgeFlowApp) saveSettings(sw *settingsWidgets, w fyne.Window) {
	slog.Info("Saving settings", config.LogKeyComponent, config.CompUISet)

	if !app.submitBirthDate(sw.dateEntry.Date, w) {
		return
	}

	app.SetLanguage(sw.langSelect.Selected)
	w.Close()
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"xrayvision/internal/config"
	"xrayvision/internal/preview"
	"xrayvision/internal/ui/cwidget"
	"xrayvision/internal/ui/result"
	"xrayvision/processing/picker"
	"xrayvision/processing/remote"
	"xrayvision/processing/workflow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
)

type XrayApp struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config     *config.Config
	configPath string
	client     *remote.Client

	orchestrator *workflow.Orchestrator
	results      *result.Controller

	resultHost *fyne.Container
	uploadBtn  *widget.Button
	settings   *fyne.Container
}

func CreateApp(cfg *config.Config, configPath string, client *remote.Client) *XrayApp {
	a := app.NewWithID("org.xrayvision.client")
	w := a.NewWindow("X-ray Vision")

	w.Resize(fyne.NewSize(1100, 700))

	return &XrayApp{
		fyneApp:    a,
		mainWin:    w,
		config:     cfg,
		configPath: configPath,
		client:     client,
	}
}

func (a *XrayApp) Run() {
	a.resultHost = container.NewVBox()
	a.results = result.NewController(a.resultHost, preview.NewLoader(a.client, preview.DefaultWidth))
	a.results.OnDownload = a.downloadEnhanced

	p, err := picker.NewPicker(a.config, a.mainWin)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to native picker")
		p = picker.NewNativePicker()
	}

	a.orchestrator = workflow.NewOrchestrator(p, a.client, &resultView{ctrl: a.results}, a)

	a.uploadBtn = widget.NewButtonWithIcon(
		fmt.Sprintf("Click to upload an X-ray (%s)", strings.Join(picker.Extensions(), ", ")),
		theme.UploadIcon(),
		a.StartRun,
	)
	a.uploadBtn.Importance = widget.HighImportance

	a.setupSettings()

	settingsLabel := widget.NewLabelWithStyle("Configuration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	sidebar := container.NewVBox(
		settingsLabel,
		widget.NewSeparator(),
		a.settings,
	)

	content := container.NewBorder(
		container.NewPadded(a.uploadBtn),
		nil, nil, nil,
		container.NewVScroll(a.resultHost),
	)

	split := container.NewHSplit(
		container.NewPadded(sidebar),
		container.NewPadded(content),
	)
	split.SetOffset(0.25)

	a.mainWin.SetContent(split)

	a.mainWin.SetCloseIntercept(func() {
		a.saveConfig()
		a.mainWin.Close()
	})

	a.mainWin.CenterOnScreen()
	a.mainWin.ShowAndRun()
}

// StartRun begins a workflow run off the UI goroutine.
func (a *XrayApp) StartRun() {
	if a.orchestrator.Active() {
		log.Debug().Msg("run already active, click ignored")
		return
	}

	a.uploadBtn.Disable()

	go func() {
		err := a.orchestrator.Run(context.Background())

		switch {
		case errors.Is(err, workflow.ErrRunInProgress):
			log.Debug().Msg("run already active")
		case err != nil:
			log.Debug().Err(err).Msg("run ended with a failure")
		}

		fyne.Do(a.uploadBtn.Enable)
	}()
}

// Alert blocks the calling run until the user dismisses the dialog.
func (a *XrayApp) Alert(title, message string) {
	done := make(chan struct{})

	fyne.Do(func() {
		d := dialog.NewInformation(title, message, a.mainWin)
		d.SetOnClosed(func() { close(done) })
		d.Show()
	})

	<-done
}

func (a *XrayApp) setupSettings() {
	a.settings = container.NewVBox()

	baseInput := cwidget.NewURLInput(
		"Service",
		config.DefaultAPIBase,
		a.config.GetAPIBase(),
		func(s string) {
			a.config.SetAPIBase(s)
		},
	)

	timeoutInput := cwidget.NewIntInput(
		"Timeout (s)",
		"Enter integer",
		int(a.config.GetTimeout().Seconds()),
		func(i int) {
			a.config.SetTimeout(uint(i))
		},
	)

	pickerSelect := widget.NewSelect(config.PickersList[:], func(s string) {
		a.config.SetPicker(config.PickerKind(s))
	})
	pickerSelect.SetSelected(string(a.config.GetPicker()))

	active := widget.NewLabel("Using " + a.client.Base())
	active.TextStyle = fyne.TextStyle{Italic: true}
	active.Wrapping = fyne.TextWrapBreak

	saveBtn := widget.NewButtonWithIcon("Save config", theme.DocumentSaveIcon(), func() {
		if err := a.saveConfig(); err != nil {
			dialog.ShowError(err, a.mainWin)
			return
		}
		dialog.ShowInformation("Settings saved", "Changes apply on next start.", a.mainWin)
	})

	a.settings.Add(active)
	a.settings.Add(baseInput)
	a.settings.Add(timeoutInput)
	a.settings.Add(widget.NewLabel("File chooser:"))
	a.settings.Add(pickerSelect)
	a.settings.Add(saveBtn)
}

func (a *XrayApp) saveConfig() error {
	if err := a.config.Save(a.configPath); err != nil {
		log.Warn().Err(err).Str("path", a.configPath).Msg("failed to save settings")
		return err
	}
	return nil
}

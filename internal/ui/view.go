package ui

import (
	"xrayvision/internal/models"
	"xrayvision/internal/ui/result"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"
)

// resultView hands orchestrator transitions to the controller on the UI goroutine
// and waits for them to be rendered.
type resultView struct {
	ctrl *result.Controller
}

func (v *resultView) ShowUploaded(stored models.StoredFile) {
	fyne.DoAndWait(func() {
		v.ctrl.Create(stored)
	})
}

func (v *resultView) ShowSucceeded(p models.Prediction) {
	fyne.DoAndWait(func() {
		if err := v.ctrl.Succeed(p); err != nil {
			log.Warn().Err(err).Msg("cannot render prediction")
		}
	})
}

func (v *resultView) ShowFailed(message string) {
	fyne.DoAndWait(func() {
		if err := v.ctrl.Fail(message); err != nil {
			log.Warn().Err(err).Msg("cannot render prediction error")
		}
	})
}

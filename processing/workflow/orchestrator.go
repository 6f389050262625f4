package workflow

import (
	"context"
	"errors"
	"sync/atomic"

	"xrayvision/internal/models"
	"xrayvision/processing/picker"
	"xrayvision/processing/remote"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrRunInProgress is returned by Run while another run has not finished.
var ErrRunInProgress = errors.New("a run is already in progress")

const uploadAlertTitle = "Upload failed"

type Uploader interface {
	Upload(ctx context.Context, file *models.SelectedFile) (models.StoredFile, error)
}

type Predictor interface {
	Predict(ctx context.Context, filename string) (models.Prediction, error)
}

type Stages interface {
	Uploader
	Predictor
}

// View receives the result transitions. Each call returns once the transition is rendered.
type View interface {
	ShowUploaded(stored models.StoredFile)
	ShowSucceeded(p models.Prediction)
	ShowFailed(message string)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(title, message string)
}

// Orchestrator runs pick, upload and predict in order and drives the view.
type Orchestrator struct {
	picker picker.Picker
	stages Stages
	view   View
	alert  Alerter

	active atomic.Bool
}

func NewOrchestrator(p picker.Picker, s Stages, v View, a Alerter) *Orchestrator {
	return &Orchestrator{
		picker: p,
		stages: s,
		view:   v,
		alert:  a,
	}
}

// Active reports whether a run is in flight.
func (o *Orchestrator) Active() bool {
	return o.active.Load()
}

// Run performs one workflow run. It returns nil when the user picks nothing,
// *remote.UploadError or *remote.PredictError when a stage fails, and
// ErrRunInProgress without side effects when another run is active.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.active.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer o.active.Store(false)

	logger := log.With().Str("run_id", uuid.NewString()).Logger()

	file, err := o.picker.PickFile(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("file selection failed, run aborted")
		return nil
	}
	if file == nil {
		logger.Debug().Msg("no file selected")
		return nil
	}

	logger.Info().Str("file", file.Name).Str("media_type", file.MediaType).Int("size", len(file.Data)).Msg("uploading")

	stored, err := o.stages.Upload(ctx, file)
	if err != nil {
		upErr := asUploadError(err)
		logger.Error().Err(upErr.Err).Str("stage", "upload").Msg(upErr.Message)
		o.alert.Alert(uploadAlertTitle, upErr.Message)
		return upErr
	}

	o.view.ShowUploaded(stored)

	logger.Info().Str("filename", stored.Filename).Msg("uploaded, requesting prediction")

	prediction, err := o.stages.Predict(ctx, stored.Filename)
	if err != nil {
		pErr := asPredictError(err)
		logger.Error().Err(pErr.Err).Str("stage", "predict").Msg(pErr.Message)
		o.view.ShowFailed(pErr.Message)
		return pErr
	}

	o.view.ShowSucceeded(prediction)

	logger.Info().
		Str("filename", stored.Filename).
		Str("prediction", prediction.Label).
		Float64("confidence", prediction.Confidence).
		Bool("enhanced", prediction.HasEnhanced()).
		Msg("run complete")

	return nil
}

// asUploadError keeps stage errors as they are and wraps anything else.
func asUploadError(err error) *remote.UploadError {
	var upErr *remote.UploadError
	if errors.As(err, &upErr) {
		return upErr
	}
	return &remote.UploadError{Message: remote.GenericMessage, Err: err}
}

func asPredictError(err error) *remote.PredictError {
	var pErr *remote.PredictError
	if errors.As(err, &pErr) {
		return pErr
	}
	return &remote.PredictError{Message: remote.GenericMessage, Err: err}
}

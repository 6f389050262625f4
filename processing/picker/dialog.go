package picker

import (
	"context"

	"xrayvision/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/rs/zerolog/log"
)

// DialogPicker uses the Fyne file open dialog inside the main window.
type DialogPicker struct {
	win fyne.Window
}

func NewDialogPicker(win fyne.Window) *DialogPicker {
	return &DialogPicker{win: win}
}

type openResult struct {
	reader fyne.URIReadCloser
	err    error
}

// PickFile shows the dialog on the UI goroutine and blocks until it is closed.
// It must not be called from the UI goroutine.
func (p *DialogPicker) PickFile(ctx context.Context) (*models.SelectedFile, error) {
	done := make(chan openResult, 1)

	fyne.Do(func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			done <- openResult{reader: reader, err: err}
		}, p.win)
		d.SetFilter(storage.NewExtensionFileFilter(Extensions()))
		d.Show()
	})

	var res openResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if res.err != nil {
		return nil, res.err
	}
	if res.reader == nil {
		return nil, nil
	}
	defer res.reader.Close()

	name := res.reader.URI().Name()
	file, err := readSelected(name, res.reader)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("uri", res.reader.URI().String()).Int("size", len(file.Data)).Msg("file picked via dialog")
	return file, nil
}

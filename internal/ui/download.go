package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// downloadEnhanced asks for a destination and writes the enhanced image there.
func (a *XrayApp) downloadEnhanced(ref string) {
	go func() {
		dest, err := zenity.SelectFileSave(
			zenity.Title("Save enhanced image"),
			zenity.Filename(suggestedName(ref)),
			zenity.ConfirmOverwrite(),
			zenity.FileFilters{
				{Name: "PNG images", Patterns: []string{"*.png"}, CaseFold: true},
			},
		)
		if errors.Is(err, zenity.ErrCanceled) {
			return
		}
		if err != nil {
			a.showError(fmt.Errorf("save dialog: %w", err))
			return
		}

		data, err := a.client.Fetch(context.Background(), ref)
		if err != nil {
			a.showError(fmt.Errorf("download enhanced image: %w", err))
			return
		}

		if err := os.WriteFile(dest, data, 0644); err != nil {
			a.showError(fmt.Errorf("write %s: %w", dest, err))
			return
		}

		log.Info().Str("path", dest).Int("bytes", len(data)).Msg("enhanced image saved")
	}()
}

func (a *XrayApp) showError(err error) {
	log.Error().Err(err).Msg("download failed")
	fyne.Do(func() {
		dialog.ShowError(err, a.mainWin)
	})
}

// suggestedName is the last path segment of ref, or a fixed name when there is none.
func suggestedName(ref string) string {
	const fallback = "enhanced.png"

	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return fallback
	}
	return name
}

package picker

import (
	"context"
	"errors"
	"fmt"
	"os"

	"xrayvision/internal/models"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// NativePicker uses the operating system file chooser.
type NativePicker struct {
	title string
}

func NewNativePicker() *NativePicker {
	return &NativePicker{title: "Select an X-ray image"}
}

func (p *NativePicker) PickFile(ctx context.Context) (*models.SelectedFile, error) {
	path, err := zenity.SelectFile(
		zenity.Context(ctx),
		zenity.Title(p.title),
		zenity.FileFilters{
			{
				Name:     "X-ray images",
				Patterns: Patterns(),
				CaseFold: true,
			},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil, nil
		}
		return nil, fmt.Errorf("file chooser: %w", err)
	}

	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open selected file: %w", err)
	}
	defer f.Close()

	file, err := readSelected(path, f)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Int("size", len(file.Data)).Msg("file picked via native dialog")
	return file, nil
}

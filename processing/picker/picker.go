package picker

import (
	"context"
	"errors"

	"xrayvision/internal/models"
)

// ErrTooLarge is returned when the chosen file exceeds MaxFileSize.
var ErrTooLarge = errors.New("file too large")

// Picker asks the user for exactly one file.
// A nil file with a nil error means the chooser was dismissed.
type Picker interface {
	PickFile(ctx context.Context) (*models.SelectedFile, error)
}

package picker

import (
	"fmt"

	"xrayvision/internal/config"

	"fyne.io/fyne/v2"
)

func NewPicker(cfg *config.Config, win fyne.Window) (Picker, error) {
	switch cfg.GetPicker() {
	case config.PickerNative:
		return NewNativePicker(), nil
	case config.PickerDialog:
		return NewDialogPicker(win), nil
	default:
		return nil, fmt.Errorf("unknown picker: %s", cfg.GetPicker())
	}
}

package cwidget

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type Input[T any] struct {
	widget.BaseWidget

	labelWidget *widget.Label
	entryWidget *widget.Entry
	errorWidget *widget.Label

	LabelText   string
	Placeholder string

	DefaultValue T

	OnChanged func(T)

	Validator func(string) (T, error)
	Format    func(T) string
}

func newInput[T any](label, placeholder string, defaultValue T, format func(T) string, onChanged func(T)) *Input[T] {
	input := &Input[T]{
		LabelText:    label,
		Placeholder:  placeholder,
		OnChanged:    onChanged,
		DefaultValue: defaultValue,
		Format:       format,
	}

	input.labelWidget = widget.NewLabel(input.caption(defaultValue))
	input.labelWidget.TextStyle = fyne.TextStyle{Bold: true}

	input.entryWidget = widget.NewEntry()
	input.entryWidget.SetPlaceHolder(placeholder)

	input.errorWidget = widget.NewLabel("")
	input.errorWidget.Hidden = true
	input.errorWidget.TextStyle = fyne.TextStyle{Italic: true}
	input.errorWidget.Importance = widget.DangerImportance

	input.entryWidget.OnChanged = input.handleChanged

	input.ExtendBaseWidget(input)

	return input
}

func NewIntInput(label, placeholder string, defaultValue int, onChanged func(int)) *Input[int] {
	input := newInput(label, placeholder, defaultValue, strconv.Itoa, onChanged)

	input.Validator = func(s string) (int, error) {
		if s == "" {
			return input.DefaultValue, nil
		}

		res, err := strconv.Atoi(s)
		if err != nil {
			return input.DefaultValue, errors.New("not a number")
		}
		if res <= 0 {
			return input.DefaultValue, errors.New("must be positive")
		}

		return res, nil
	}

	return input
}

// NewURLInput accepts an absolute http(s) address or an empty value.
func NewURLInput(label, placeholder, defaultValue string, onChanged func(string)) *Input[string] {
	input := newInput(label, placeholder, defaultValue, func(s string) string {
		if s == "" {
			return "default"
		}
		return s
	}, onChanged)

	input.Validator = ValidateBaseURL

	return input
}

func ValidateBaseURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", errors.New("invalid address")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("address must start with http:// or https://")
	}
	if u.Host == "" {
		return "", errors.New("address has no host")
	}

	return strings.TrimRight(s, "/"), nil
}

func (item *Input[T]) handleChanged(s string) {
	res, err := item.Validator(s)
	item.SetError(err)

	if err == nil {
		if item.OnChanged != nil {
			item.OnChanged(res)
		}
		item.labelWidget.SetText(item.caption(res))
	}
}

func (item *Input[T]) caption(v T) string {
	if item.Format == nil {
		return fmt.Sprintf("%s: %v", item.LabelText, v)
	}
	return fmt.Sprintf("%s: %s", item.LabelText, item.Format(v))
}

func (item *Input[T]) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewVBox(
		item.labelWidget,
		item.entryWidget,
		item.errorWidget,
	)

	return widget.NewSimpleRenderer(c)
}

func (item *Input[T]) SetError(err error) {
	item.errorWidget.Hidden = err == nil
	if err != nil {
		item.errorWidget.SetText(err.Error())
	}
}

func (item *Input[T]) SetText(text string) {
	item.entryWidget.SetText(text)
}

func (item *Input[T]) Caption() string {
	return item.labelWidget.Text
}

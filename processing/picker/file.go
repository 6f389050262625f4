package picker

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"xrayvision/internal/models"
)

// MaxFileSize bounds a single upload; the service keeps files in memory.
const MaxFileSize int64 = 32 << 20

// SupportedExtensions maps accepted extensions to the media type sent with the upload.
var SupportedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".dcm":  "application/dicom",
}

func Extensions() []string {
	out := make([]string, 0, len(SupportedExtensions))
	for ext := range SupportedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Patterns returns chooser glob patterns for SupportedExtensions.
func Patterns() []string {
	exts := Extensions()
	for i, ext := range exts {
		exts[i] = "*" + ext
	}
	return exts
}

func IsSupported(name string) bool {
	_, ok := SupportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func MediaType(name string) string {
	if mt, ok := SupportedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// readSelected loads r into a SelectedFile named after the base of name.
func readSelected(name string, r io.Reader) (*models.SelectedFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	if int64(len(data)) > MaxFileSize {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", name, ErrTooLarge, MaxFileSize)
	}

	base := filepath.Base(name)
	return &models.SelectedFile{
		Name:      base,
		MediaType: MediaType(base),
		Data:      data,
	}, nil
}

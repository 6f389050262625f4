// Package preview turns image bytes served by the service into thumbnails for the result surface.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultWidth matches the width both previews are shown at.
const DefaultWidth = 300

var ErrUnsupported = errors.New("unsupported image format")

// Fetcher downloads the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Loader struct {
	fetcher Fetcher
	width   int
}

func NewLoader(f Fetcher, width int) *Loader {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Loader{fetcher: f, width: width}
}

// Load fetches url and returns the decoded image scaled down to the loader width.
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	img, format, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}

	scaled := ScaleToWidth(img, l.width)

	log.Debug().
		Str("url", url).
		Str("format", format).
		Int("orig_width", img.Bounds().Dx()).
		Int("new_width", scaled.Bounds().Dx()).
		Msg("preview loaded")

	return scaled, nil
}

// Decode reads any registered raster format. DICOM payloads report ErrUnsupported.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnsupported
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// ScaleToWidth keeps the aspect ratio. Images already narrower than width are returned as is.
func ScaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if width <= 0 || w <= width || w == 0 {
		return img
	}

	newHeight := h * width / w
	if newHeight < 1 {
		newHeight = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, width, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
	return resized
}

package result

import (
	"context"
	"image"

	"xrayvision/internal/models"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"
)

// ImageLoader produces a preview for a URL served by the service.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// Controller owns the result surface and is the only writer of it.
// All methods must run on the Fyne UI goroutine.
type Controller struct {
	host   *fyne.Container
	loader ImageLoader

	// OnDownload is invoked with the enhanced image URL when the download affordance is used.
	OnDownload func(url string)

	surface *Surface
	state   State
	gen     uint64
}

// NewController renders surfaces into host. A nil loader leaves previews on their placeholder.
func NewController(host *fyne.Container, loader ImageLoader) *Controller {
	return &Controller{host: host, loader: loader}
}

func (c *Controller) State() State { return c.state }

// Surface returns the current surface or nil.
func (c *Controller) Surface() *Surface { return c.surface }

// Create replaces any existing surface with a fresh one in the Uploaded state.
func (c *Controller) Create(stored models.StoredFile) {
	c.Destroy()

	c.gen++
	c.surface = newSurface(stored)
	c.state = Uploaded

	c.host.Add(c.surface.box)
	c.host.Refresh()

	c.loadPreview(c.surface.original)

	log.Debug().Str("filename", stored.Filename).Uint64("surface", c.gen).Msg("result surface created")
}

// Succeed re-renders the pending surface in place with the prediction.
func (c *Controller) Succeed(p models.Prediction) error {
	if err := c.requirePending(); err != nil {
		return err
	}

	c.surface.renderSucceeded(p, c.download, c.Restart)
	c.state = Succeeded

	if c.surface.enhanced != nil {
		c.loadPreview(c.surface.enhanced)
	}
	c.host.Refresh()

	return nil
}

// Fail appends message to the pending surface, keeping the uploaded rendering.
func (c *Controller) Fail(message string) error {
	if err := c.requirePending(); err != nil {
		return err
	}

	c.surface.renderFailed(message)
	c.state = Failed
	c.host.Refresh()

	return nil
}

// Restart removes a completed surface. It does nothing in other states.
func (c *Controller) Restart() {
	if c.state != Succeeded {
		return
	}
	c.Destroy()
}

// Destroy removes the surface if there is one. Safe to call repeatedly.
func (c *Controller) Destroy() {
	if c.surface == nil {
		return
	}

	c.host.Remove(c.surface.box)
	c.host.Refresh()

	c.surface = nil
	c.state = Absent
}

func (c *Controller) requirePending() error {
	if c.surface == nil {
		return ErrNoSurface
	}
	if c.state != Uploaded {
		return ErrNotPending
	}
	return nil
}

func (c *Controller) download(url string) {
	if c.OnDownload != nil {
		c.OnDownload(url)
	}
}

func (c *Controller) loadPreview(slot *imageSlot) {
	if c.loader == nil || slot.url == "" {
		return
	}

	gen := c.gen
	go func() {
		img, err := c.loader.Load(context.Background(), slot.url)
		fyne.Do(func() {
			c.applyPreview(gen, slot, img, err)
		})
	}()
}

// applyPreview drops results that belong to a surface that no longer exists.
func (c *Controller) applyPreview(gen uint64, slot *imageSlot, img image.Image, err error) bool {
	if gen != c.gen || c.surface == nil {
		return false
	}

	if err != nil || img == nil {
		log.Warn().Err(err).Str("url", slot.url).Msg("preview unavailable")
		slot.setUnavailable()
		return true
	}

	slot.setImage(img)
	return true
}

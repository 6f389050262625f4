package result

import (
	"image"

	"xrayvision/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	titleUploaded   = "X-ray Uploaded"
	titleSucceeded  = "Prediction Complete"
	textProcessing  = "Processing AI prediction..."
	textLoading     = "Loading preview..."
	textUnavailable = "Preview unavailable"
)

var previewSize = fyne.NewSize(300, 300)

// imageSlot is one preview: the image once loaded, or a note while loading or on failure.
type imageSlot struct {
	url  string
	img  *canvas.Image
	note *widget.Label
	box  *fyne.Container
}

func newImageSlot(url string) *imageSlot {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(previewSize)
	img.Hide()

	note := widget.NewLabelWithStyle(textLoading, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	return &imageSlot{
		url:  url,
		img:  img,
		note: note,
		box:  container.NewStack(img, container.NewCenter(note)),
	}
}

func (s *imageSlot) setImage(img image.Image) {
	s.img.Image = img
	s.img.Show()
	s.img.Refresh()
	s.note.Hide()
}

func (s *imageSlot) setUnavailable() {
	s.img.Hide()
	s.note.SetText(textUnavailable)
	s.note.Show()
}

func (s *imageSlot) loaded() bool {
	return s.img.Image != nil
}

// Surface is the single on-screen region for the current run.
// The same box is kept for its whole life; transitions replace its children.
type Surface struct {
	box *fyne.Container

	stored   models.StoredFile
	original *imageSlot
	enhanced *imageSlot

	title      *widget.Label
	status     *widget.Label
	errorLabel *widget.Label
	disease    *widget.Label
	confidence *widget.Label
	download   *widget.Button
	restart    *widget.Button
}

func newSurface(stored models.StoredFile) *Surface {
	s := &Surface{
		stored:   stored,
		original: newImageSlot(stored.AccessURL),
		title:    widget.NewLabelWithStyle(titleUploaded, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		status:   widget.NewLabelWithStyle(textProcessing, fyne.TextAlignCenter, fyne.TextStyle{}),
	}

	s.box = container.NewVBox(
		s.title,
		s.original.box,
		s.status,
	)

	return s
}

func (s *Surface) renderFailed(message string) {
	s.errorLabel = widget.NewLabelWithStyle(message, fyne.TextAlignCenter, fyne.TextStyle{})
	s.errorLabel.Importance = widget.DangerImportance

	s.box.Add(container.NewCenter(container.NewHBox(
		widget.NewIcon(theme.WarningIcon()),
		s.errorLabel,
	)))
}

func (s *Surface) renderSucceeded(p models.Prediction, onDownload func(string), onRestart func()) {
	s.title.SetText(titleSucceeded)

	images := []fyne.CanvasObject{
		captioned("Original", s.original.box),
	}
	if p.HasEnhanced() {
		s.enhanced = newImageSlot(p.EnhancedURL)
		images = append(images, captioned("Enhanced", s.enhanced.box))
	}

	s.disease = widget.NewLabel("Disease: " + p.Label)
	s.disease.TextStyle = fyne.TextStyle{Bold: true}
	s.confidence = widget.NewLabel("Confidence: " + p.ConfidencePercent())

	objects := []fyne.CanvasObject{
		s.title,
		container.NewCenter(container.NewHBox(images...)),
		widget.NewCard("", "", container.NewVBox(s.disease, s.confidence)),
	}

	if p.HasEnhanced() {
		url := p.EnhancedURL
		s.download = widget.NewButtonWithIcon("Download enhanced image", theme.DownloadIcon(), func() {
			if onDownload != nil {
				onDownload(url)
			}
		})
		objects = append(objects, s.download)
	}

	s.restart = widget.NewButtonWithIcon("Upload Another", theme.ViewRefreshIcon(), onRestart)
	s.restart.Importance = widget.HighImportance
	objects = append(objects, s.restart)

	s.status = nil
	s.box.Objects = objects
	s.box.Refresh()
}

func captioned(caption string, obj fyne.CanvasObject) fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabelWithStyle(caption, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		obj,
	)
}

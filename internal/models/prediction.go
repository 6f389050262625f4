package models

import "fmt"

// SelectedFile is a file chosen by the user, held in memory until it is uploaded.
type SelectedFile struct {
	Name      string
	MediaType string
	Data      []byte
}

// StoredFile references a file persisted by the service.
type StoredFile struct {
	Filename  string
	AccessURL string
}

type Prediction struct {
	Label       string
	Confidence  float64
	EnhancedURL string
}

func (p Prediction) HasEnhanced() bool {
	return p.EnhancedURL != ""
}

// ConfidencePercent renders confidence as a percentage with two decimals, e.g. "87.34%".
func (p Prediction) ConfidencePercent() string {
	return FormatPercent(p.Confidence)
}

func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

type UploadResponse struct {
	Filename string `json:"filename"`
	FileURL  string `json:"file_url"`
	Error    string `json:"error,omitempty"`
}

type PredictRequest struct {
	Filename string `json:"filename"`
}

type PredictResponse struct {
	Prediction  string   `json:"prediction"`
	Confidence  *float64 `json:"confidence"`
	EnhancedURL string   `json:"enhanced_url,omitempty"`
	Error       string   `json:"error,omitempty"`
}

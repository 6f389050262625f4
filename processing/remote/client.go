package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"xrayvision/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	maxResponseBody int64 = 1 << 20
	maxImageBody    int64 = 64 << 20
)

// Client talks to the storage and inference service over HTTP.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Base() string { return c.base }

// Upload stores file on the service. Every failure is an *UploadError.
func (c *Client) Upload(ctx context.Context, file *models.SelectedFile) (models.StoredFile, error) {
	body, contentType, err := multipartBody(file)
	if err != nil {
		return models.StoredFile{}, &UploadError{Message: msgUnreachable, Err: err}
	}

	status, raw, err := c.post(ctx, "/upload", contentType, body)
	if err != nil {
		return models.StoredFile{}, uploadFault(err)
	}

	var resp models.UploadResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return models.StoredFile{}, uploadFault(malformed("upload status %d: %v", status, err))
	}

	if resp.Error != "" {
		return models.StoredFile{}, &UploadError{
			Message: resp.Error,
			Err:     fmt.Errorf("%w: status %d", ErrRejected, status),
		}
	}

	if status/100 != 2 {
		return models.StoredFile{}, uploadFault(malformed("upload status %d without error field", status))
	}

	if resp.Filename == "" {
		return models.StoredFile{}, uploadFault(malformed("upload response has no filename"))
	}

	log.Debug().Str("filename", resp.Filename).Str("file_url", resp.FileURL).Msg("file stored")

	return models.StoredFile{
		Filename:  resp.Filename,
		AccessURL: c.Resolve(resp.FileURL),
	}, nil
}

// Predict requests enhancement and classification of a stored file.
// Every failure is a *PredictError.
func (c *Client) Predict(ctx context.Context, filename string) (models.Prediction, error) {
	payload, err := json.Marshal(models.PredictRequest{Filename: filename})
	if err != nil {
		return models.Prediction{}, &PredictError{Message: msgUnreachable, Err: err}
	}

	status, raw, err := c.post(ctx, "/predict", "application/json", bytes.NewReader(payload))
	if err != nil {
		return models.Prediction{}, predictFault(err)
	}

	var resp models.PredictResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return models.Prediction{}, predictFault(malformed("predict status %d: %v", status, err))
	}

	if resp.Error != "" {
		return models.Prediction{}, &PredictError{
			Message: resp.Error,
			Err:     fmt.Errorf("%w: status %d", ErrRejected, status),
		}
	}

	if status/100 != 2 {
		return models.Prediction{}, predictFault(malformed("predict status %d without error field", status))
	}

	if resp.Prediction == "" {
		return models.Prediction{}, predictFault(malformed("predict response has no prediction"))
	}

	if resp.Confidence == nil {
		return models.Prediction{}, predictFault(malformed("predict response has no confidence"))
	}

	conf := *resp.Confidence
	if math.IsNaN(conf) || conf < 0 || conf > 1 {
		return models.Prediction{}, predictFault(malformed("confidence %v out of range", conf))
	}

	return models.Prediction{
		Label:       resp.Prediction,
		Confidence:  conf,
		EnhancedURL: c.Resolve(resp.EnhancedURL),
	}, nil
}

// Fetch downloads the resource at ref, resolved against the service base.
func (c *Client) Fetch(ctx context.Context, ref string) ([]byte, error) {
	u := c.Resolve(ref)
	if u == "" {
		return nil, fmt.Errorf("fetch: empty url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch %s: %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBody+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	if int64(len(data)) > maxImageBody {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", u, maxImageBody)
	}

	return data, nil
}

// Resolve turns a service-relative reference into an absolute URL.
// Absolute references and the empty string are returned unchanged.
func (c *Client) Resolve(ref string) string {
	if ref == "" {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}

	base, err := url.Parse(c.base + "/")
	if err != nil {
		return ref
	}

	return base.ResolveReference(u).String()
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s response: %w", path, err)
	}

	log.Debug().Str("path", path).Int("status", resp.StatusCode).Int("bytes", len(raw)).Msg("service responded")
	return resp.StatusCode, raw, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func multipartBody(file *models.SelectedFile) (io.Reader, string, error) {
	if file == nil {
		return nil, "", fmt.Errorf("no file")
	}

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	h.Set("Content-Type", mediaType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return buf, mw.FormDataContentType(), nil
}

func uploadFault(err error) *UploadError {
	return &UploadError{Message: faultMessage(err), Err: err}
}

func predictFault(err error) *PredictError {
	return &PredictError{Message: faultMessage(err), Err: err}
}

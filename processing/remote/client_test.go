package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"xrayvision/internal/models"
)

func newTestClient(server *httptest.Server) *Client {
	c := NewClient(server.URL, 5*time.Second)
	c.http = server.Client()
	return c
}

func testFile() *models.SelectedFile {
	return &models.SelectedFile{Name: "chest_xray.png", MediaType: "image/png", Data: []byte("png-bytes")}
}

func TestUploadSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		defer f.Close()

		data, _ := io.ReadAll(f)
		if string(data) != "png-bytes" {
			t.Errorf("unexpected payload %q", data)
		}
		if hdr.Filename != "chest_xray.png" {
			t.Errorf("unexpected filename %q", hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("unexpected part content type %q", ct)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"filename": "chest_xray.png",
			"file_url": "http://svc/static/uploads/chest_xray.png",
		})
	}))
	defer server.Close()

	stored, err := newTestClient(server).Upload(context.Background(), testFile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Filename != "chest_xray.png" {
		t.Errorf("unexpected filename %q", stored.Filename)
	}
	if stored.AccessURL != "http://svc/static/uploads/chest_xray.png" {
		t.Errorf("unexpected url %q", stored.AccessURL)
	}
}

func TestUploadRelativeURLIsResolved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"filename":"a.png","file_url":"/static/uploads/a.png"}`))
	}))
	defer server.Close()

	stored, err := newTestClient(server).Upload(context.Background(), testFile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.AccessURL != server.URL+"/static/uploads/a.png" {
		t.Errorf("unexpected url %q", stored.AccessURL)
	}
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		malformed bool
		rejected  bool
	}{
		{"explicit error 400", http.StatusBadRequest, `{"error":"Unsupported file type"}`, "Unsupported file type", false, true},
		{"explicit error 200", http.StatusOK, `{"error":"No selected file"}`, "No selected file", false, true},
		{"html body", http.StatusInternalServerError, `<html>boom</html>`, msgMalformed, true, false},
		{"empty body", http.StatusOK, ``, msgMalformed, true, false},
		{"status without error", http.StatusBadGateway, `{}`, msgMalformed, true, false},
		{"missing filename", http.StatusOK, `{"file_url":"x"}`, msgMalformed, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server).Upload(context.Background(), testFile())

			var upErr *UploadError
			if !errors.As(err, &upErr) {
				t.Fatalf("expected *UploadError, got %T (%v)", err, err)
			}
			if upErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", upErr.Message, tt.wantMsg)
			}
			if got := errors.Is(err, ErrMalformedResponse); got != tt.malformed {
				t.Errorf("malformed = %v, want %v", got, tt.malformed)
			}
			if got := errors.Is(err, ErrRejected); got != tt.rejected {
				t.Errorf("rejected = %v, want %v", got, tt.rejected)
			}
		})
	}
}

func TestUploadUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Upload(context.Background(), testFile())

	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UploadError, got %T", err)
	}
	if upErr.Message != msgUnreachable {
		t.Errorf("unexpected message %q", upErr.Message)
	}
}

func TestUploadTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(server.URL, 50*time.Millisecond)
	_, err := c.Upload(context.Background(), testFile())

	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UploadError, got %T", err)
	}
	if upErr.Message != msgTimeout {
		t.Errorf("unexpected message %q", upErr.Message)
	}
}

func TestPredictSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}

		var req models.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Filename != "chest_xray.png" {
			t.Errorf("unexpected filename %q", req.Filename)
		}

		w.Write([]byte(`{"prediction":"XRAY image enhanced","confidence":0.8734,"enhanced_url":"http://svc/static/results/enhanced_chest_xray.png"}`))
	}))
	defer server.Close()

	p, err := newTestClient(server).Predict(context.Background(), "chest_xray.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Label != "XRAY image enhanced" {
		t.Errorf("unexpected label %q", p.Label)
	}
	if p.Confidence != 0.8734 {
		t.Errorf("unexpected confidence %v", p.Confidence)
	}
	if !p.HasEnhanced() {
		t.Error("expected enhanced url")
	}
}

func TestPredictWithoutEnhancedURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction":"Pneumonia","confidence":1}`))
	}))
	defer server.Close()

	p, err := newTestClient(server).Predict(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("absent enhanced_url must not fail: %v", err)
	}
	if p.HasEnhanced() {
		t.Errorf("expected no enhanced url, got %q", p.EnhancedURL)
	}
	if p.ConfidencePercent() != "100.00%" {
		t.Errorf("unexpected percent %q", p.ConfidencePercent())
	}
}

func TestPredictFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"explicit error", http.StatusNotFound, `{"error":"uploaded file not found"}`, "uploaded file not found"},
		{"server error", http.StatusInternalServerError, `{"error":"Model checkpoint not found"}`, "Model checkpoint not found"},
		{"non json", http.StatusOK, `OK`, msgMalformed},
		{"missing confidence", http.StatusOK, `{"prediction":"x"}`, msgMalformed},
		{"confidence too high", http.StatusOK, `{"prediction":"x","confidence":1.5}`, msgMalformed},
		{"negative confidence", http.StatusOK, `{"prediction":"x","confidence":-0.1}`, msgMalformed},
		{"missing prediction", http.StatusOK, `{"confidence":0.5}`, msgMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server).Predict(context.Background(), "a.png")

			var pErr *PredictError
			if !errors.As(err, &pErr) {
				t.Fatalf("expected *PredictError, got %T (%v)", err, err)
			}
			if pErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", pErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/static/results/e.png" {
			w.Write([]byte("image"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := newTestClient(server)

	data, err := c.Fetch(context.Background(), "/static/results/e.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "image" {
		t.Errorf("unexpected body %q", data)
	}

	if _, err := c.Fetch(context.Background(), server.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := c.Fetch(context.Background(), ""); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestResolve(t *testing.T) {
	c := NewClient("http://127.0.0.1:5000/", time.Second)

	cases := map[string]string{
		"":                              "",
		"http://cdn/x.png":              "http://cdn/x.png",
		"/static/uploads/a.png":         "http://127.0.0.1:5000/static/uploads/a.png",
		"static/results/enhanced_a.png": "http://127.0.0.1:5000/static/results/enhanced_a.png",
	}

	for in, want := range cases {
		if got := c.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorStrings(t *testing.T) {
	err := &UploadError{Message: "Unsupported file type"}
	if !strings.Contains(err.Error(), "Unsupported file type") {
		t.Errorf("unexpected error text %q", err.Error())
	}

	cause := errors.New("dial tcp: refused")
	pErr := &PredictError{Message: msgUnreachable, Err: cause}
	if !errors.Is(pErr, cause) {
		t.Error("expected PredictError to unwrap to its cause")
	}
}

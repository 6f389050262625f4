package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrMalformedResponse marks a body that could not be read as the expected structure.
var ErrMalformedResponse = errors.New("malformed response")

// ErrRejected marks an explicit error field returned by the service.
var ErrRejected = errors.New("rejected by service")

// GenericMessage is shown for faults that carry no better description.
const GenericMessage = msgUnreachable

const (
	msgUnreachable = "Something went wrong while contacting the service"
	msgTimeout     = "The service did not respond in time"
	msgMalformed   = "The service returned an unexpected response"
)

// UploadError is the single failure outcome of the upload stage.
// Message is safe to show to the user; Err carries the underlying cause.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upload: %s", e.Message)
	}
	return fmt.Sprintf("upload: %s: %v", e.Message, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PredictError is the single failure outcome of the predict stage.
type PredictError struct {
	Message string
	Err     error
}

func (e *PredictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("predict: %s", e.Message)
	}
	return fmt.Sprintf("predict: %s: %v", e.Message, e.Err)
}

func (e *PredictError) Unwrap() error { return e.Err }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// faultMessage turns a transport or decoding fault into user-facing text.
func faultMessage(err error) string {
	if errors.Is(err, ErrMalformedResponse) {
		return msgMalformed
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimeout
	}

	return msgUnreachable
}

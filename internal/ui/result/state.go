package result

import "errors"

type State int

const (
	Absent State = iota
	Uploaded
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Uploaded:
		return "uploaded"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNoSurface is returned by a transition that needs a surface when none exists.
	ErrNoSurface = errors.New("no result surface")
	// ErrNotPending is returned when the surface has already reached a terminal state.
	ErrNotPending = errors.New("result surface is not awaiting a prediction")
)

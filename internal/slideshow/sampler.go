package slideshow

import (
	"math"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
)

// SecondsPerFrame is how long each image stays on screen.
const SecondsPerFrame = 1

// IndexAt returns the index of the frame showing at t seconds in a sequence
// of n frames. Times past the end stay on the last frame; negative times and
// NaN map to the first.
func IndexAt(t float64, n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptySequence
	}
	if math.IsNaN(t) || t < 0 {
		return 0, nil
	}

	idx := math.Floor(t / SecondsPerFrame)
	if idx >= float64(n) {
		return n - 1, nil
	}
	return int(idx), nil
}

// SampleAt returns the frame showing at t seconds.
func SampleAt(t float64, seq FrameSource) (*canvas.Frame, error) {
	idx, err := IndexAt(t, seq.Len())
	if err != nil {
		return nil, err
	}
	return seq.Frame(idx)
}

package slideshow

import (
	"image"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
)

// DefaultFPS is the sample rate used when none is configured.
const DefaultFPS = 24

// Clip presents a FrameSource as a time-indexed video for an encoder.
// The sample rate only changes how often frames are pulled, never which
// image is current at a given second.
type Clip struct {
	Source FrameSource
	Rate   int
}

// NewClip creates a Clip. A non-positive fps falls back to DefaultFPS.
func NewClip(src FrameSource, fps int) Clip {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return Clip{Source: src, Rate: fps}
}

// FPS returns the sample rate in frames per second.
func (c Clip) FPS() int {
	return c.Rate
}

// Duration returns the clip length in seconds: one second per frame.
func (c Clip) Duration() float64 {
	return float64(c.Source.Len() * SecondsPerFrame)
}

// Size returns the frame dimensions.
func (c Clip) Size() (int, int) {
	return canvas.Width, canvas.Height
}

// SampleCount returns the number of frames an encoder pulls for the whole clip.
func (c Clip) SampleCount() int {
	return c.Source.Len() * SecondsPerFrame * c.Rate
}

// FrameAt returns the frame showing at t seconds.
func (c Clip) FrameAt(t float64) (image.Image, error) {
	frame, err := SampleAt(t, c.Source)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// Package slideshow maps playback time onto a sequence of canvas frames.
// Each frame is on screen for exactly one second, in source order.
package slideshow

import (
	"context"
	"errors"
	"fmt"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
	"github.com/SINU1012/my-baby-anniversary/internal/source"
)

// ErrEmptySequence is returned when a slideshow has no images to show.
var ErrEmptySequence = errors.New("empty frame sequence")

// FrameSource provides frames by index.
type FrameSource interface {
	// Len returns the number of frames.
	Len() int
	// Frame returns the frame at index i, 0 <= i < Len().
	Frame(i int) (*canvas.Frame, error)
}

// ProgressFunc is notified after each frame is built.
type ProgressFunc func(done, total int)

// Sequence is a fully materialized FrameSource.
type Sequence struct {
	frames []*canvas.Frame
}

// Compile-time check that Sequence implements FrameSource.
var _ FrameSource = (*Sequence)(nil)

// NewSequence wraps already built frames.
func NewSequence(frames []*canvas.Frame) *Sequence {
	return &Sequence{frames: frames}
}

// BuildSequence builds every image in order before returning.
// The first failure aborts the whole sequence.
func BuildSequence(ctx context.Context, images []source.Image, b *canvas.Builder, progress ProgressFunc) (*Sequence, error) {
	if len(images) == 0 {
		return nil, ErrEmptySequence
	}

	frames := make([]*canvas.Frame, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build cancelled: %w", err)
		}

		frame, err := b.BuildFile(img.Path)
		if err != nil {
			return nil, fmt.Errorf("build frame %d: %w", i, err)
		}
		frames = append(frames, frame)

		if progress != nil {
			progress(i+1, len(images))
		}
	}

	return NewSequence(frames), nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.frames)
}

// Frame returns the frame at index i.
func (s *Sequence) Frame(i int) (*canvas.Frame, error) {
	if i < 0 || i >= len(s.frames) {
		return nil, fmt.Errorf("frame index %d out of range [0,%d)", i, len(s.frames))
	}
	return s.frames[i], nil
}

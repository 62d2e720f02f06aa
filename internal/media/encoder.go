// Package media encodes slideshow clips into video files and inspects the results.
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
)

// Static errors for media operations.
var (
	// ErrEncode wraps every failure raised while writing a video.
	ErrEncode = errors.New("encode video")
	// ErrInvalidClip is returned when a clip has no samples or no area.
	ErrInvalidClip = errors.New("invalid clip: fps, duration, width and height must be positive")
	// ErrFFprobeExecution is returned when ffprobe command fails.
	ErrFFprobeExecution = errors.New("ffprobe execution failed")
)

// Clip is a time-indexed frame source with a fixed sample rate.
type Clip interface {
	// FPS is the number of frames sampled per second of video.
	FPS() int
	// Duration is the total clip length in seconds.
	Duration() float64
	// Size returns the frame width and height.
	Size() (w, h int)
	// FrameAt returns the image showing at t seconds.
	FrameAt(t float64) (image.Image, error)
}

// Encoder writes a Clip to a video file.
type Encoder interface {
	// Encode samples clip at its frame rate for its whole duration and writes
	// the video to dst. dst is created or truncated.
	Encode(ctx context.Context, dst string, clip Clip) error
	// Extension returns the container extension including the dot, e.g. ".mp4".
	Extension() string
}

// SampleCount returns how many frames an encoder pulls from clip.
func SampleCount(clip Clip) int {
	return int(math.Round(clip.Duration() * float64(clip.FPS())))
}

func validateClip(clip Clip) error {
	w, h := clip.Size()
	if clip.FPS() <= 0 || SampleCount(clip) <= 0 || w <= 0 || h <= 0 {
		return fmt.Errorf("%w: fps=%d duration=%.2f size=%dx%d", ErrInvalidClip, clip.FPS(), clip.Duration(), w, h)
	}
	return nil
}

// forEachSample calls fn with every sampled frame in presentation order.
// Sample i is taken at i/fps seconds.
func forEachSample(ctx context.Context, clip Clip, fn func(i int, img image.Image) error) error {
	n := SampleCount(clip)
	fps := float64(clip.FPS())
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("encode cancelled: %w", err)
		}
		img, err := clip.FrameAt(float64(i) / fps)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		if err := fn(i, img); err != nil {
			return err
		}
	}
	return nil
}

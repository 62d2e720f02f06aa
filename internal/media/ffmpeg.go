package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
)

// Compile-time check that FFmpegEncoder implements Encoder.
var _ Encoder = (*FFmpegEncoder)(nil)

// FFmpegEncoder implements Encoder by piping raw RGB frames into the ffmpeg
// CLI and encoding them with libx264.
type FFmpegEncoder struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// preset and crf tune libx264.
	preset string
	crf    int
}

// FFmpegOption configures an FFmpegEncoder.
type FFmpegOption func(*FFmpegEncoder)

// WithPreset sets the libx264 preset, e.g. "fast" or "slow".
func WithPreset(preset string) FFmpegOption {
	return func(e *FFmpegEncoder) {
		if preset != "" {
			e.preset = preset
		}
	}
}

// WithCRF sets the libx264 constant rate factor (0-51, lower is better).
func WithCRF(crf int) FFmpegOption {
	return func(e *FFmpegEncoder) {
		if crf >= 0 && crf <= 51 {
			e.crf = crf
		}
	}
}

// NewFFmpegEncoder creates a new FFmpegEncoder.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegEncoder(ffmpegPath string, opts ...FFmpegOption) *FFmpegEncoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	e := &FFmpegEncoder{
		ffmpegPath: ffmpegPath,
		preset:     "fast",
		crf:        23,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extension returns ".mp4".
func (e *FFmpegEncoder) Extension() string {
	return ".mp4"
}

// Encode writes clip to dst as H.264 in an MP4 container.
func (e *FFmpegEncoder) Encode(ctx context.Context, dst string, clip Clip) error {
	if err := validateClip(clip); err != nil {
		return err
	}

	if err := e.runFFmpeg(ctx, e.args(dst, clip), clip); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

func (e *FFmpegEncoder) args(dst string, clip Clip) []string {
	w, h := clip.Size()
	fps := strconv.Itoa(clip.FPS())
	return []string{
		"-y",
		// Raw packed RGB frames arrive on stdin.
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", w, h),
		"-r", fps,
		"-i", "pipe:0",
		"-an",
		"-c:v", "libx264",
		"-preset", e.preset,
		"-crf", strconv.Itoa(e.crf),
		// yuv420p keeps the output playable in browsers and phones.
		"-pix_fmt", "yuv420p",
		"-r", fps,
		"-f", "mp4",
		"-movflags", "+faststart",
		dst,
	}
}

// runFFmpeg starts ffmpeg, streams every clip sample to its stdin and waits
// for it to finish. The returned error carries stderr output on failure.
func (e *FFmpegEncoder) runFFmpeg(ctx context.Context, args []string, clip Clip) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	w, h := clip.Size()
	var (
		last    image.Image
		lastBuf []byte
	)
	writeErr := forEachSample(ctx, clip, func(_ int, img image.Image) error {
		// Consecutive samples inside one second share a frame.
		if img != last {
			last = img
			lastBuf = toRGB24(img, w, h)
		}
		if _, err := stdin.Write(lastBuf); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		return nil
	})
	_ = stdin.Close()

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
	}
	if waitErr != nil {
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    waitErr,
		}
	}
	return writeErr
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/unixpickle/ffmpego"
)

// VideoInfo describes an encoded video file.
type VideoInfo struct {
	Width    int
	Height   int
	FPS      float64
	Frames   int
	Duration float64
}

// FFmpegProber inspects encoded videos with ffprobe and ffmpeg.
type FFmpegProber struct {
	// ffprobePath is the path to the ffprobe binary. Defaults to "ffprobe".
	ffprobePath string
}

// NewFFmpegProber creates a new FFmpegProber.
// If ffprobePath is empty, it defaults to "ffprobe" (found via PATH).
func NewFFmpegProber(ffprobePath string) *FFmpegProber {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegProber{ffprobePath: ffprobePath}
}

// Probe reports the container duration and decodes the whole video to count
// its frames.
func (p *FFmpegProber) Probe(ctx context.Context, path string) (VideoInfo, error) {
	duration, err := p.GetMediaDuration(ctx, path)
	if err != nil {
		return VideoInfo{}, err
	}

	reader, err := ffmpego.NewVideoReader(path)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("open video: %w", err)
	}
	defer func() { _ = reader.Close() }()

	vi := reader.VideoInfo()
	info := VideoInfo{
		Width:    vi.Width,
		Height:   vi.Height,
		FPS:      vi.FPS,
		Duration: duration,
	}

	for {
		if err := ctx.Err(); err != nil {
			return VideoInfo{}, fmt.Errorf("probe cancelled: %w", err)
		}
		_, err := reader.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return VideoInfo{}, fmt.Errorf("read frame %d: %w", info.Frames, err)
		}
		info.Frames++
	}

	return info, nil
}

// GetMediaDuration returns the duration in seconds of a media file.
// It uses ffprobe to extract the duration metadata.
func (p *FFmpegProber) GetMediaDuration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(stdout.String()), "%f", &duration)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}

	return duration, nil
}

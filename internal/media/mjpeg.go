package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"
)

// Compile-time check that MJPEGEncoder implements Encoder.
var _ Encoder = (*MJPEGEncoder)(nil)

// MJPEGEncoder implements Encoder with a Motion-JPEG AVI writer.
// It needs no external binaries.
type MJPEGEncoder struct {
	quality int
}

// NewMJPEGEncoder creates an MJPEGEncoder. Quality is the JPEG quality
// (1-100); out of range values fall back to 90.
func NewMJPEGEncoder(quality int) *MJPEGEncoder {
	if quality < 1 || quality > 100 {
		quality = 90
	}
	return &MJPEGEncoder{quality: quality}
}

// Extension returns ".avi".
func (e *MJPEGEncoder) Extension() string {
	return ".avi"
}

// Encode writes clip to dst as an MJPEG AVI file.
func (e *MJPEGEncoder) Encode(ctx context.Context, dst string, clip Clip) error {
	if err := validateClip(clip); err != nil {
		return err
	}

	w, h := clip.Size()
	aw, err := mjpeg.New(dst, int32(w), int32(h), int32(clip.FPS())) // #nosec G115 - sizes are canvas bounded
	if err != nil {
		return fmt.Errorf("%w: create avi: %w", ErrEncode, err)
	}

	var (
		last     image.Image
		lastJPEG []byte
	)
	err = forEachSample(ctx, clip, func(_ int, img image.Image) error {
		if img != last {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
				return fmt.Errorf("jpeg encode: %w", err)
			}
			last = img
			lastJPEG = buf.Bytes()
		}
		return aw.AddFrame(lastJPEG)
	})
	if err != nil {
		_ = aw.Close()
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := aw.Close(); err != nil {
		return fmt.Errorf("%w: finalize avi: %w", ErrEncode, err)
	}
	return nil
}

package canvas

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// ErrDecode is returned when a source image cannot be opened or decoded.
var ErrDecode = errors.New("decode image")

// Builder turns source images into canvas frames.
type Builder struct {
	filter imaging.ResampleFilter
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFilter overrides the resampling filter. Defaults to Lanczos.
func WithFilter(filter imaging.ResampleFilter) BuilderOption {
	return func(b *Builder) {
		b.filter = filter
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{filter: imaging.Lanczos}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildFile decodes the image at path and builds its frame.
// The file is closed before BuildFile returns.
func (b *Builder) BuildFile(path string) (*Frame, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	frame, err := b.Build(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// Build scales img to the canvas height and centers it on a black frame.
func (b *Builder) Build(img image.Image) (*Frame, error) {
	bounds := img.Bounds()
	p, err := Fit(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	rgb := dropAlpha(img)
	scaled := imaging.Resize(rgb, p.Width, p.Height, b.filter)

	frame := NewFrame()
	composite(frame, scaled, p)
	return frame, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the scanned source directory
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

// dropAlpha converts img to opaque NRGBA. Color values are kept as stored,
// translucent pixels are not blended against any background.
func dropAlpha(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// composite copies src onto frame at the placement offset, clipping anything
// that falls outside the canvas.
func composite(frame *Frame, src *image.NRGBA, p Placement) {
	x0 := max(0, -p.X)
	x1 := min(p.Width, Width-p.X)
	if x0 >= x1 {
		return
	}

	for y := 0; y < p.Height; y++ {
		dy := y + p.Y
		if dy < 0 || dy >= Height {
			continue
		}
		srcRow := src.Pix[y*src.Stride:]
		dstRow := frame.Pix[dy*frame.Stride():]
		for x := x0; x < x1; x++ {
			s := x * 4
			d := (x + p.X) * Channels
			dstRow[d] = srcRow[s]
			dstRow[d+1] = srcRow[s+1]
			dstRow[d+2] = srcRow[s+2]
		}
	}
}

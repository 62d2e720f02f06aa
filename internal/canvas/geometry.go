package canvas

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateGeometry is returned when a source image has no area to scale.
var ErrDegenerateGeometry = errors.New("degenerate geometry: source width and height must be positive")

// Placement describes where a scaled source image lands on the canvas.
type Placement struct {
	// Width and Height are the scaled image dimensions.
	Width  int
	Height int
	// X and Y are the offsets of the scaled image's top-left corner.
	// X is negative when the scaled image is wider than the canvas.
	X int
	Y int
}

// Fit computes the placement of a srcW x srcH image on the canvas.
// The image is scaled so its height matches the canvas height, its width is
// rounded and then truncated to an even value, and it is centered.
func Fit(srcW, srcH int) (Placement, error) {
	if srcW <= 0 || srcH <= 0 {
		return Placement{}, fmt.Errorf("%w: got %dx%d", ErrDegenerateGeometry, srcW, srcH)
	}

	h := Height
	scale := float64(h) / float64(srcH)
	w := int(math.Round(float64(srcW) * scale))
	if w < 1 {
		w = 1
	}
	w = evenWidth(w)

	return Placement{
		Width:  w,
		Height: h,
		X:      floorDiv(Width-w, 2),
		Y:      floorDiv(Height-h, 2),
	}, nil
}

// evenWidth drops the last column of an odd width. Encoders working on 2x2
// chroma blocks reject odd sizes, and a width of zero cannot be encoded at all.
func evenWidth(w int) int {
	if w%2 != 0 {
		w--
	}
	if w < 2 {
		w = 2
	}
	return w
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

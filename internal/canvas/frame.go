// Package canvas builds the fixed-size letterboxed frames shown by a slideshow.
// Every frame is a 1920x1080 RGB buffer with the source image scaled to the
// canvas height and centered horizontally on a black background.
package canvas

import (
	"image"
	"image/color"
)

// Canvas dimensions and pixel layout.
const (
	Width    = 1920
	Height   = 1080
	Channels = 3
)

// Frame is a Width x Height RGB pixel buffer.
// Pix holds Height rows of Width pixels, three bytes (R, G, B) per pixel.
// A Frame is never mutated once the Builder returns it.
type Frame struct {
	Pix []byte
}

// Compile-time check that Frame can be handed to image encoders.
var _ image.Image = (*Frame)(nil)

// NewFrame allocates a solid black frame.
func NewFrame() *Frame {
	return &Frame{Pix: make([]byte, Width*Height*Channels)}
}

// Stride returns the number of bytes per row.
func (f *Frame) Stride() int {
	return Width * Channels
}

// RGB returns the color components of the pixel at (x, y).
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	i := y*f.Stride() + x*Channels
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// RGB24 exposes the packed buffer for raw video pipes.
func (f *Frame) RGB24() []byte {
	return f.Pix
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	r, g, b := f.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

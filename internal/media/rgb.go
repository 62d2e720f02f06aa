package media

import "image"

// rgb24Image is implemented by frames that already hold packed RGB bytes.
type rgb24Image interface {
	image.Image
	RGB24() []byte
}

// toRGB24 packs img into w*h*3 bytes, reusing the frame's own buffer when
// it already has that layout.
func toRGB24(img image.Image, w, h int) []byte {
	b := img.Bounds()
	if packed, ok := img.(rgb24Image); ok && b.Dx() == w && b.Dy() == h && len(packed.RGB24()) == w*h*3 {
		return packed.RGB24()
	}

	out := make([]byte, w*h*3)
	for y := 0; y < h && y < b.Dy(); y++ {
		for x := 0; x < w && x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			out[i] = uint8(r >> 8)
			out[i+1] = uint8(g >> 8)
			out[i+2] = uint8(bl >> 8)
		}
	}
	return out
}

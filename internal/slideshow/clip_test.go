package slideshow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
)

func TestClip(t *testing.T) {
	clip := NewClip(markedSequence(3), 24)

	assert.Equal(t, 24, clip.FPS())
	assert.InDelta(t, 3.0, clip.Duration(), 0)
	assert.Equal(t, 72, clip.SampleCount())

	w, h := clip.Size()
	assert.Equal(t, canvas.Width, w)
	assert.Equal(t, canvas.Height, h)

	img, err := clip.FrameAt(1.5)
	require.NoError(t, err)
	frame, ok := img.(*canvas.Frame)
	require.True(t, ok)
	assert.Equal(t, byte(1), frame.Pix[0])
}

func TestNewClip_DefaultFPS(t *testing.T) {
	assert.Equal(t, DefaultFPS, NewClip(markedSequence(1), 0).FPS())
	assert.Equal(t, DefaultFPS, NewClip(markedSequence(1), -5).FPS())
}

func TestClip_FrameAtEmpty(t *testing.T) {
	img, err := NewClip(NewSequence(nil), 24).FrameAt(0)
	assert.ErrorIs(t, err, ErrEmptySequence)
	assert.Nil(t, img)
}

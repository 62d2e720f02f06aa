package source

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "b.jpg"), 30, 20)
	writeJPEG(t, filepath.Join(dir, "a.JPG"), 10, 40)
	writeJPEG(t, filepath.Join(dir, "c.Jpg"), 8, 8)
	writeJPEG(t, filepath.Join(dir, "d.jpeg"), 8, 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.jpg"), 0750))

	images, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, images, 3)

	assert.Equal(t, "a.JPG", images[0].Name)
	assert.Equal(t, "b.jpg", images[1].Name)
	assert.Equal(t, "c.Jpg", images[2].Name)

	assert.Equal(t, 10, images[0].Width)
	assert.Equal(t, 40, images[0].Height)
	assert.Equal(t, filepath.Join(dir, "b.jpg"), images[1].Path)
}

func TestScan_SortIsLexicographic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.jpg", "2.jpg", "1.jpg"} {
		writeJPEG(t, filepath.Join(dir, name), 4, 4)
	}

	images, err := Scan(dir)
	require.NoError(t, err)

	var names []string
	for _, img := range images {
		names = append(names, img.Name)
	}
	assert.Equal(t, []string{"1.jpg", "10.jpg", "2.jpg"}, names)
}

func TestScan_FollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "photo.jpg")
	writeJPEG(t, target, 6, 4)
	if err := os.Symlink(target, filepath.Join(dir, "linked.jpg")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.jpg"), filepath.Join(dir, "dangling.jpg")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0750))
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "folder.jpg")))

	images, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "linked.jpg", images[0].Name)
	assert.Equal(t, 6, images[0].Width)
}

func TestScan_Empty(t *testing.T) {
	images, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestScan_CorruptImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.jpg"), []byte("garbage"), 0600))

	_, err := Scan(dir)
	assert.ErrorIs(t, err, canvas.ErrDecode)
}

// Package source enumerates the still images a slideshow is built from.
package source

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for DecodeConfig
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
)

// Extension is the only file extension picked up by Scan, compared case-insensitively.
const Extension = ".jpg"

// Image references a decodable image on disk.
type Image struct {
	// Path is the full path to the file.
	Path string
	// Name is the base file name used for ordering.
	Name string
	// Width and Height are the natural pixel dimensions.
	Width  int
	Height int
}

// Scan lists the JPEG files in dir sorted by file name and probes their size.
// An empty directory yields an empty slice. Symlinks to files are followed;
// subdirectories and dangling links are ignored.
func Scan(dir string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !strings.EqualFold(filepath.Ext(e.Name()), Extension) {
			continue
		}
		if !isRegular(dir, e) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	images := make([]Image, 0, len(names))
	for _, name := range names {
		img, err := Probe(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// isRegular reports whether e is a regular file, following symlinks.
func isRegular(dir string, e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}

// Probe reads only the image header to learn its dimensions.
func Probe(path string) (Image, error) {
	f, err := os.Open(path) // #nosec G304 - path is built from a directory listing
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %w", canvas.ErrDecode, path, err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %w", canvas.ErrDecode, path, err)
	}

	return Image{
		Path:   path,
		Name:   filepath.Base(path),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

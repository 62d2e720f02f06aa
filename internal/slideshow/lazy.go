package slideshow

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
	"github.com/SINU1012/my-baby-anniversary/internal/source"
)

// DefaultCacheSize is the number of built frames a LazySequence keeps.
const DefaultCacheSize = 4

// LazySequence builds frames on demand from their source images and keeps
// the most recently used ones in a bounded cache. Memory stays proportional
// to the cache size instead of the image count.
type LazySequence struct {
	images  []source.Image
	builder *canvas.Builder
	cache   *lru.Cache[int, *canvas.Frame]
	builds  atomic.Int64
}

// Compile-time check that LazySequence implements FrameSource.
var _ FrameSource = (*LazySequence)(nil)

// NewLazySequence creates a LazySequence over images.
// A cacheSize below 1 falls back to DefaultCacheSize.
func NewLazySequence(images []source.Image, b *canvas.Builder, cacheSize int) (*LazySequence, error) {
	if len(images) == 0 {
		return nil, ErrEmptySequence
	}
	if cacheSize < 1 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[int, *canvas.Frame](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create frame cache: %w", err)
	}

	return &LazySequence{
		images:  images,
		builder: b,
		cache:   cache,
	}, nil
}

// Len returns the number of frames.
func (s *LazySequence) Len() int {
	return len(s.images)
}

// Frame returns the frame at index i, building it if it is not cached.
func (s *LazySequence) Frame(i int) (*canvas.Frame, error) {
	if i < 0 || i >= len(s.images) {
		return nil, fmt.Errorf("frame index %d out of range [0,%d)", i, len(s.images))
	}
	if frame, ok := s.cache.Get(i); ok {
		return frame, nil
	}

	frame, err := s.builder.BuildFile(s.images[i].Path)
	if err != nil {
		return nil, fmt.Errorf("build frame %d: %w", i, err)
	}
	s.builds.Add(1)
	s.cache.Add(i, frame)
	return frame, nil
}

// Builds returns how many frames have been built so far, cache misses included.
func (s *LazySequence) Builds() int64 {
	return s.builds.Load()
}

package media

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewMJPEGEncoder(t *testing.T) {
	if e := NewMJPEGEncoder(0); e.quality != 90 {
		t.Errorf("expected default quality 90, got %d", e.quality)
	}
	if e := NewMJPEGEncoder(75); e.quality != 75 {
		t.Errorf("expected quality 75, got %d", e.quality)
	}
	if ext := NewMJPEGEncoder(0).Extension(); ext != ".avi" {
		t.Errorf("Extension() = %q", ext)
	}
}

func TestMJPEGEncoder_Encode(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.avi")
	clip := newFakeClip(3, 24, 32, 18)

	if err := NewMJPEGEncoder(80).Encode(context.Background(), dst, clip); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if len(clip.times) != 72 {
		t.Errorf("expected 72 samples, got %d", len(clip.times))
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Contains(data[:16], []byte("AVI ")) {
		t.Errorf("output is not an AVI file: % x", data[:16])
	}
	if n := bytes.Count(data, []byte("00dc")); n < 72 {
		t.Errorf("expected at least 72 video chunks, found %d", n)
	}
}

func TestMJPEGEncoder_FrameError(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.avi")
	clip := newFakeClip(3, 24, 32, 18)
	clip.failAt = 1.5

	err := NewMJPEGEncoder(0).Encode(context.Background(), dst, clip)
	if !errors.Is(err, ErrEncode) {
		t.Errorf("expected ErrEncode, got %v", err)
	}
}

func TestMJPEGEncoder_InvalidClip(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.avi")

	err := NewMJPEGEncoder(0).Encode(context.Background(), dst, newFakeClip(0, 24, 32, 18))
	if !errors.Is(err, ErrInvalidClip) {
		t.Errorf("expected ErrInvalidClip, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Error("no file should be created for an invalid clip")
	}
}

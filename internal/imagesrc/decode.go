package imagesrc

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chikof/momoi/internal/frame"
	"golang.org/x/image/webp"
)

// Decode decodes PNG, JPEG or WebP into an ARGB frame.
func Decode(r io.Reader, path string) (frame.ARGB, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var img image.Image
	var err error

	switch ext {
	case ".png":
		img, err = png.Decode(r)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(r)
	case ".webp":
		img, err = webp.Decode(r)
	default:
		return frame.ARGB{}, fmt.Errorf("imagesrc: unsupported image extension %q", ext)
	}
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("imagesrc: decode %s: %w", path, err)
	}
	return frame.FromStdImage(img), nil
}

// DecodeFile opens and decodes a file at path.
func DecodeFile(path string) (frame.ARGB, error) {
	f, err := os.Open(path)
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("imagesrc: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Source binds decoded image bytes to one fit mode and target resolution,
// satisfying spec.md 3's Source contract for C3.
type Source struct {
	frame         frame.ARGB
	mode          ScaleMode
	width, height int
}

// NewSource decodes path and prepares a source targeting (w,h).
func NewSource(path string, mode ScaleMode, w, h int) (*Source, error) {
	f, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{frame: f, mode: mode, width: w, height: h}, nil
}

// Frame returns the current (only, for a still image) frame at the
// source's bound resolution.
func (s *Source) Frame() frame.ARGB {
	return Apply(s.mode, s.frame, s.width, s.height)
}

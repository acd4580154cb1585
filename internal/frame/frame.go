// Package frame defines the canonical CPU-side pixel buffer exchanged
// between sources, overlay, transition and the buffer pool.
package frame

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	ximage "golang.org/x/image/draw"
)

// lanczos3 is a windowed-sinc kernel with support radius 3, the filter
// named in spec.md 4.3 for the CPU scale path. x/image/draw ships
// CatmullRom/BiLinear kernels but not Lanczos, so it is built here as a
// custom draw.Kernel.
var lanczos3 = ximage.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		if t < -3 || t > 3 {
			return 0
		}
		pit := math.Pi * t
		return 3 * math.Sin(pit) * math.Sin(pit/3) / (pit * pit)
	},
}

// ARGB is a contiguous byte vector in premultiplied ARGB8888 little-endian
// byte order: each pixel is four bytes [B, G, R, A]. Length is always
// width*height*4.
type ARGB struct {
	Pix           []byte
	Width, Height int
}

// New allocates a zero-filled frame of the given size.
func New(width, height int) ARGB {
	return ARGB{Pix: make([]byte, width*height*4), Width: width, Height: height}
}

// Stride is the byte length of one row.
func (f ARGB) Stride() int { return f.Width * 4 }

// Len is the expected byte length of Pix for this frame's dimensions.
func (f ARGB) Len() int { return f.Width * f.Height * 4 }

// FillColor writes the BGRA little-endian word repeatedly across Pix,
// matching the buffer pool's fill_color contract (spec.md 4.1).
func (f ARGB) FillColor(r, g, b, a uint8) {
	for i := 0; i+4 <= len(f.Pix); i += 4 {
		f.Pix[i+0] = b
		f.Pix[i+1] = g
		f.Pix[i+2] = r
		f.Pix[i+3] = a
	}
}

// At returns the (b,g,r,a) bytes at pixel (x,y).
func (f ARGB) At(x, y int) (b, g, r, a uint8) {
	i := (y*f.Width + x) * 4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]
}

// Set writes the (b,g,r,a) bytes at pixel (x,y).
func (f ARGB) Set(x, y int, b, g, r, a uint8) {
	i := (y*f.Width + x) * 4
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = b, g, r, a
}

// Clone returns a deep copy.
func (f ARGB) Clone() ARGB {
	out := ARGB{Pix: make([]byte, len(f.Pix)), Width: f.Width, Height: f.Height}
	copy(out.Pix, f.Pix)
	return out
}

// FromStdImage converts a standard library image.Image into an ARGB frame,
// swizzling at this boundary only (spec.md 4.2 colour-byte contract).
func FromStdImage(img image.Image) ARGB {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	out := New(w, h)
	for y := 0; y < h; y++ {
		srcRow := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		dstRow := out.Pix[y*out.Stride() : y*out.Stride()+w*4]
		for x := 0; x < w; x++ {
			r := srcRow[x*4+0]
			g := srcRow[x*4+1]
			bl := srcRow[x*4+2]
			a := srcRow[x*4+3]
			dstRow[x*4+0] = bl
			dstRow[x*4+1] = g
			dstRow[x*4+2] = r
			dstRow[x*4+3] = a
		}
	}
	return out
}

// ResizeLanczos resamples src into a frame of size (w,h) using a Lanczos-3
// kernel, the CPU-path filter named in spec.md 4.3.
func ResizeLanczos(src ARGB, w, h int) ARGB {
	srcImg := src.toNRGBA()
	dstImg := image.NewNRGBA(image.Rect(0, 0, w, h))
	lanczos3.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), ximage.Over, nil)
	return FromStdImage(dstImg)
}

func (f ARGB) toNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r, a := f.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = a
		}
	}
	return img
}

// Validate returns an error if bytes does not match this frame's expected
// length, the write_frame contract from spec.md 4.1.
func Validate(bytes []byte, expectedLen int) error {
	if len(bytes) != expectedLen {
		return fmt.Errorf("frame: length mismatch: got %d want %d", len(bytes), expectedLen)
	}
	return nil
}

// Package overlay implements the seven in-place CPU post-process effects
// (C6), applied after source/transition and before buffer commit, per
// spec.md 4.6.
package overlay

import (
	"math"
	"time"

	"github.com/chikof/momoi/internal/frame"
)

// Effect is the tagged overlay kind. Numeric values match the GPU uniform
// block's effect_id in spec.md 4.2.
type Effect int

const (
	Vignette Effect = iota
	Scanlines
	FilmGrain
	ChromaticAberration
	CRT
	Pixelate
	Tint
)

// Params carries the optional fields named in spec.md 4.6; each effect
// uses its relevant subset with the defaults below.
type Params struct {
	Strength  *float64
	Intensity *float64
	LineWidth *float64
	Offset    *float64
	Curvature *float64
	PixelSize *int
	R, G, B   *float64
}

func (p Params) strength(def float64) float64  { return orDefault(p.Strength, def) }
func (p Params) intensity(def float64) float64  { return orDefault(p.Intensity, def) }
func (p Params) lineWidth(def float64) float64  { return orDefault(p.LineWidth, def) }
func (p Params) offset(def float64) float64     { return orDefault(p.Offset, def) }
func (p Params) curvature(def float64) float64  { return orDefault(p.Curvature, def) }
func (p Params) pixelSize(def int) int {
	if p.PixelSize != nil {
		return *p.PixelSize
	}
	return def
}
func (p Params) color(def [3]float64) (r, g, b float64) {
	r, g, b = def[0], def[1], def[2]
	if p.R != nil {
		r = *p.R
	}
	if p.G != nil {
		g = *p.G
	}
	if p.B != nil {
		b = *p.B
	}
	return
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

// Overlay tracks an effect's own animation clock (for FilmGrain's time
// seed) and applies itself to ARGB frames in place.
type Overlay struct {
	Effect Effect
	Params Params
	start  time.Time
}

// New creates an overlay with its clock starting now.
func New(effect Effect, params Params) *Overlay {
	return &Overlay{Effect: effect, Params: params, start: time.Now()}
}

// Elapsed reports seconds since the overlay's clock started, the same
// value Apply uses internally; the GPU overlay pipeline needs it exposed
// so its uniform block matches the CPU path exactly (spec.md 4.2).
func (o *Overlay) Elapsed() float64 {
	return time.Since(o.start).Seconds()
}

// Apply mutates f in place according to the overlay's effect and elapsed
// time.
func (o *Overlay) Apply(f frame.ARGB) {
	elapsed := o.Elapsed()
	switch o.Effect {
	case Vignette:
		applyVignette(f, o.Params.strength(0.7))
	case Scanlines:
		applyScanlines(f, o.Params.intensity(0.3), o.Params.lineWidth(2.0))
	case FilmGrain:
		applyFilmGrain(f, o.Params.intensity(0.1), elapsed)
	case ChromaticAberration:
		applyChromaticAberration(f, o.Params.offset(2.0))
	case CRT:
		applyCRT(f, o.Params.intensity(0.3))
	case Pixelate:
		applyPixelate(f, o.Params.pixelSize(8))
	case Tint:
		r, g, b := o.Params.color([3]float64{1.0, 0.8, 0.6})
		applyColorTint(f, r, g, b, o.Params.strength(0.3))
	}
}

func applyVignette(f frame.ARGB, strength float64) {
	cx, cy := float64(f.Width)/2, float64(f.Height)/2
	maxDist := math.Sqrt(cx*cx + cy*cy)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := (y*f.Width + x) * 4
			dx, dy := float64(x)-cx, float64(y)-cy
			dist := math.Sqrt(dx*dx + dy*dy)
			v := 1 - math.Min(dist/maxDist*strength, 1)
			f.Pix[idx] = byte(float64(f.Pix[idx]) * v)
			f.Pix[idx+1] = byte(float64(f.Pix[idx+1]) * v)
			f.Pix[idx+2] = byte(float64(f.Pix[idx+2]) * v)
		}
	}
}

func applyScanlines(f frame.ARGB, intensity, lineWidth float64) {
	for y := 0; y < f.Height; y++ {
		scan := (math.Sin(float64(y)/lineWidth)*0.5 + 0.5) * intensity
		darken := 1 - scan
		for x := 0; x < f.Width; x++ {
			idx := (y*f.Width + x) * 4
			f.Pix[idx] = byte(float64(f.Pix[idx]) * darken)
			f.Pix[idx+1] = byte(float64(f.Pix[idx+1]) * darken)
			f.Pix[idx+2] = byte(float64(f.Pix[idx+2]) * darken)
		}
	}
}

func applyFilmGrain(f frame.ARGB, intensity, t float64) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := (y*f.Width + x) * 4
			seed := math.Sin(float64(x)*12.9898 + float64(y)*78.233 + t*43758.5453)
			_, frac := math.Modf(seed)
			noise := (frac - 0.5) * intensity * 255
			f.Pix[idx] = clampByte(float64(f.Pix[idx]) + noise)
			f.Pix[idx+1] = clampByte(float64(f.Pix[idx+1]) + noise)
			f.Pix[idx+2] = clampByte(float64(f.Pix[idx+2]) + noise)
		}
	}
}

func applyChromaticAberration(f frame.ARGB, offset float64) {
	out := f.Clone()
	offI := int(offset)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := (y*f.Width + x) * 4
			rx := clampInt(x+offI, 0, f.Width-1)
			bx := clampInt(x-offI, 0, f.Width-1)
			rIdx := (y*f.Width + rx) * 4
			bIdx := (y*f.Width + bx) * 4
			out.Pix[idx] = f.Pix[bIdx]     // B shifted left
			out.Pix[idx+1] = f.Pix[idx+1]  // G unchanged
			out.Pix[idx+2] = f.Pix[rIdx+2] // R shifted right
		}
	}
	copy(f.Pix, out.Pix)
}

func applyCRT(f frame.ARGB, scanlineIntensity float64) {
	applyScanlines(f, scanlineIntensity, 2.0)
	applyVignette(f, 0.3)

	cx := float64(f.Width) / 2
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := (y*f.Width + x) * 4
			edgeDist := math.Pow(math.Abs(float64(x)-cx)/cx, 2.0)
			if edgeDist > 0.7 {
				shift := byte((edgeDist - 0.7) * 50)
				f.Pix[idx] = satSub(f.Pix[idx], shift)
				f.Pix[idx+2] = satAdd(f.Pix[idx+2], shift)
			}
		}
	}
}

func applyPixelate(f frame.ARGB, pixelSize int) {
	if pixelSize < 1 {
		pixelSize = 1
	}
	out := f.Clone()
	for by := 0; by < f.Height; by += pixelSize {
		for bx := 0; bx < f.Width; bx += pixelSize {
			var sumB, sumG, sumR, count int
			yEnd := minInt(by+pixelSize, f.Height)
			xEnd := minInt(bx+pixelSize, f.Width)
			for y := by; y < yEnd; y++ {
				for x := bx; x < xEnd; x++ {
					idx := (y*f.Width + x) * 4
					sumB += int(f.Pix[idx])
					sumG += int(f.Pix[idx+1])
					sumR += int(f.Pix[idx+2])
					count++
				}
			}
			if count == 0 {
				continue
			}
			avgB, avgG, avgR := byte(sumB/count), byte(sumG/count), byte(sumR/count)
			for y := by; y < yEnd; y++ {
				for x := bx; x < xEnd; x++ {
					idx := (y*f.Width + x) * 4
					out.Pix[idx] = avgB
					out.Pix[idx+1] = avgG
					out.Pix[idx+2] = avgR
				}
			}
		}
	}
	copy(f.Pix, out.Pix)
}

func applyColorTint(f frame.ARGB, r, g, b, strength float64) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := (y*f.Width + x) * 4
			origB := float64(f.Pix[idx])
			origG := float64(f.Pix[idx+1])
			origR := float64(f.Pix[idx+2])
			f.Pix[idx] = byte(origB*(1-strength) + origB*b*strength)
			f.Pix[idx+1] = byte(origG*(1-strength) + origG*g*strength)
			f.Pix[idx+2] = byte(origR*(1-strength) + origR*r*strength)
		}
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func satSub(a, b byte) byte {
	if int(a)-int(b) < 0 {
		return 0
	}
	return a - b
}

func satAdd(a, b byte) byte {
	if int(a)+int(b) > 255 {
		return 255
	}
	return a + b
}

// Package shader implements the procedural shader source (C5): produces a
// frame at a requested size for (kind, parameters, elapsed time), per
// spec.md 4.5. The GPU path (internal/gpu pipelines) is preferred; this
// package additionally provides the CPU fallback used when no GPU context
// is available or a GPU render call fails.
package shader

import (
	"fmt"
	"math"
	"time"

	"github.com/chikof/momoi/internal/colorhex"
	"github.com/chikof/momoi/internal/frame"
)

// Kind enumerates the seven procedural shader kinds (spec.md 4.5).
type Kind string

const (
	KindPlasma      Kind = "plasma"
	KindWaves       Kind = "waves"
	KindMatrix      Kind = "matrix"
	KindGradient    Kind = "gradient"
	KindStarfield   Kind = "starfield"
	KindRaymarching Kind = "raymarching"
	KindTunnel      Kind = "tunnel"
)

// Params is the uniform shared between GPU and CPU renderers (spec.md 4.2's
// uniform block and 4.5's parameter list).
type Params struct {
	Speed             float64
	Color1            colorhex.Color
	Color2            colorhex.Color
	Color3            colorhex.Color
	Scale             float64
	Intensity         float64
	Count             float64
}

// DefaultParams matches the defaults named in spec.md 4.5 ("speed x1.0
// default" and the rest left at sensible neutral values).
func DefaultParams() Params {
	return Params{
		Speed:     1.0,
		Color1:    colorhex.Color{R: 1, G: 0, B: 0.5},
		Color2:    colorhex.Color{R: 0, G: 0.5, B: 1},
		Color3:    colorhex.Color{R: 1, G: 1, B: 1},
		Scale:     1.0,
		Intensity: 1.0,
		Count:     8,
	}
}

// Source targets a fixed (width, height) and a frame-rate gate.
type Source struct {
	Kind   Kind
	Params Params
	Width  int
	Height int
	FPS    float64

	start    time.Time
	lastTick time.Time
}

// New constructs a shader source with a default 30 Hz frame-rate gate
// (spec.md 4.5).
func New(kind Kind, params Params, w, h int) *Source {
	now := time.Now()
	return &Source{Kind: kind, Params: params, Width: w, Height: h, FPS: 30, start: now, lastTick: now}
}

// ShouldRender reports whether enough time has elapsed since the last
// render to honour FPS.
func (s *Source) ShouldRender(now time.Time) bool {
	return now.Sub(s.lastTick).Seconds() >= 1.0/s.FPS
}

// Elapsed reports raw seconds since the source's clock started, unscaled
// by Speed; the GPU pipeline applies speed itself from Params (spec.md
// 4.2's shader uniform), so this must match what Render would compute
// before the Speed multiply.
func (s *Source) Elapsed(now time.Time) float64 {
	return now.Sub(s.start).Seconds()
}

// MarkRendered records that a frame for now was produced, advancing the
// FPS gate used by ShouldRender. Render does this itself for the CPU
// path; callers dispatching through the GPU pipeline call this instead.
func (s *Source) MarkRendered(now time.Time) {
	s.lastTick = now
}

// Render advances the animation clock and produces a frame using the CPU
// fallback path. GPU dispatch is performed by internal/gpu when a device
// is available; callers fall back here on acquisition failure or
// transient GPU error (spec.md 4.2/4.5/7).
func (s *Source) Render(now time.Time) frame.ARGB {
	s.lastTick = now
	t := now.Sub(s.start).Seconds() * s.Params.Speed

	switch s.Kind {
	case KindPlasma:
		return s.renderPlasma(t)
	case KindWaves:
		return s.renderWaves(t)
	case KindGradient:
		return s.renderGradient(t)
	case KindStarfield:
		return s.renderStarfield(t)
	case KindMatrix:
		return s.renderMatrix(t)
	case KindRaymarching, KindTunnel:
		// No CPU implementation for these two kinds (spec.md 4.5);
		// produce a neutral gradient fallback.
		return s.renderGradient(t)
	default:
		return frame.New(s.Width, s.Height)
	}
}

// HasCPUFallback reports whether Render's output for kind is a faithful
// implementation (true) or the neutral gradient fallback (false), so
// callers can log the warning named in spec.md 4.5.
func HasCPUFallback(k Kind) bool {
	return k != KindRaymarching && k != KindTunnel
}

func (s *Source) renderPlasma(t float64) frame.ARGB {
	f := frame.New(s.Width, s.Height)
	scale := s.Params.Scale
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			fx, fy := float64(x)*0.05*scale, float64(y)*0.05*scale
			v := math.Sin(fx+t) + math.Sin(fy+t) + math.Sin(fx+fy+t) + math.Sin(math.Sqrt(fx*fx+fy*fy)+t)
			mix := (v/4 + 1) / 2
			writeMix3(f, x, y, s.Params.Color1, s.Params.Color2, s.Params.Color3, mix)
		}
	}
	return f
}

func (s *Source) renderWaves(t float64) frame.ARGB {
	f := frame.New(s.Width, s.Height)
	scale := s.Params.Scale
	for y := 0; y < s.Height; y++ {
		wave := math.Sin(float64(y)*0.1*scale+t*2) * 0.5
		for x := 0; x < s.Width; x++ {
			mix := (math.Sin(float64(x)*0.02*scale+wave+t)+1)/2*s.Params.Intensity
			writeMix2(f, x, y, s.Params.Color1, s.Params.Color2, mix)
		}
	}
	return f
}

func (s *Source) renderGradient(t float64) frame.ARGB {
	f := frame.New(s.Width, s.Height)
	for y := 0; y < s.Height; y++ {
		mix := float64(y) / math.Max(1, float64(s.Height-1))
		for x := 0; x < s.Width; x++ {
			writeMix2(f, x, y, s.Params.Color1, s.Params.Color2, mix)
		}
	}
	return f
}

func (s *Source) renderStarfield(t float64) frame.ARGB {
	f := frame.New(s.Width, s.Height)
	cx, cy := float64(s.Width)/2, float64(s.Height)/2
	count := int(math.Max(1, s.Params.Count))
	f.FillColor(0, 0, 0, 255)
	for i := 0; i < count*20; i++ {
		seed := float64(i) * 12.9898
		angle := math.Mod(seed, 2*math.Pi)
		speed := 0.3 + math.Mod(seed*7.1, 1.0)
		dist := math.Mod(t*speed*40+seed*53, math.Max(cx, cy))
		x := int(cx + math.Cos(angle)*dist)
		y := int(cy + math.Sin(angle)*dist)
		if x >= 0 && x < s.Width && y >= 0 && y < s.Height {
			b := colorhex.Color{R: 1, G: 1, B: 1}
			writeMix2(f, x, y, b, b, 1)
		}
	}
	return f
}

func (s *Source) renderMatrix(t float64) frame.ARGB {
	f := frame.New(s.Width, s.Height)
	f.FillColor(0, 0, 0, 255)
	colWidth := int(math.Max(4, 16/math.Max(0.1, s.Params.Scale)))
	for x := 0; x < s.Width; x += colWidth {
		phase := math.Mod(t*2+float64(x)*0.37, 1.0)
		head := int(phase * float64(s.Height) * 2)
		for y := 0; y < s.Height; y++ {
			d := head - y
			if d < 0 || d > s.Height/2 {
				continue
			}
			fade := 1 - float64(d)/float64(s.Height/2)
			writeMix2(f, clampCoord(x, s.Width), y, colorhex.Color{}, s.Params.Color1, fade)
		}
	}
	return f
}

func writeMix2(f frame.ARGB, x, y int, c1, c2 colorhex.Color, mix float64) {
	mix = clamp01(mix)
	r := c1.R + (c2.R-c1.R)*float32(mix)
	g := c1.G + (c2.G-c1.G)*float32(mix)
	b := c1.B + (c2.B-c1.B)*float32(mix)
	f.Set(x, y, byte(b*255), byte(g*255), byte(r*255), 255)
}

func writeMix3(f frame.ARGB, x, y int, c1, c2, c3 colorhex.Color, mix float64) {
	if mix < 0.5 {
		writeMix2(f, x, y, c1, c2, mix*2)
	} else {
		writeMix2(f, x, y, c2, c3, (mix-0.5)*2)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

// ParseKind validates a shader name against the enumerated kinds.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPlasma, KindWaves, KindMatrix, KindGradient, KindStarfield, KindRaymarching, KindTunnel:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("shader: unknown kind %q", s)
	}
}

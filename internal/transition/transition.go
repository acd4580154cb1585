// Package transition implements time-parameterised blending between a
// captured "old" frame and a "new" frame (C7), per spec.md 4.7.
package transition

import (
	"math"
	"math/rand"
	"time"

	"github.com/chikof/momoi/internal/frame"
)

// Kind is the tagged transition variant from spec.md 3. Random collapses
// to a concrete kind at construction time.
type Kind int

const (
	KindNone Kind = iota
	KindFade
	KindWipeLeft
	KindWipeRight
	KindWipeTop
	KindWipeBottom
	KindWipeAngle
	KindCenter
	KindOuter
	KindRandom
)

// Easing is the progress curve applied before blending.
type Easing int

const (
	EaseLinear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
)

// Apply maps linear progress t in [0,1] through the easing curve.
func (e Easing) Apply(t float64) float64 {
	switch e {
	case EaseLinear:
		return t
	case EaseIn:
		return t * t
	case EaseOut:
		return t * (2 - t)
	default: // EaseInOut, the default per spec.md 4.7.
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}
}

// ResolveRandom collapses KindRandom to one of the eight concrete kinds
// with equal weight, grounded on original_source's transition.rs
// resolve-at-construction match arm (WipeAngle resolves to 45 degrees,
// the diagonal case named there).
func ResolveRandom() (Kind, float64) {
	switch rand.Intn(8) {
	case 0:
		return KindFade, 0
	case 1:
		return KindWipeLeft, 0
	case 2:
		return KindWipeRight, 0
	case 3:
		return KindWipeTop, 0
	case 4:
		return KindWipeBottom, 0
	case 5:
		return KindWipeAngle, 45
	case 6:
		return KindCenter, 0
	default:
		return KindOuter, 0
	}
}

// Transition blends a captured old frame toward a pending new frame over
// Duration, following Easing.
type Transition struct {
	Kind        Kind
	AngleDeg    float64 // only meaningful for KindWipeAngle
	Easing      Easing
	Duration    time.Duration
	OldFrame    frame.ARGB
	startedAt   time.Time
}

// New captures the old frame and starts the clock.
func New(kind Kind, angleDeg float64, duration time.Duration, old frame.ARGB) *Transition {
	return &Transition{
		Kind:      kind,
		AngleDeg:  angleDeg,
		Easing:    EaseInOut,
		Duration:  duration,
		OldFrame:  old,
		startedAt: time.Now(),
	}
}

// WithEasing overrides the default easing curve.
func (t *Transition) WithEasing(e Easing) *Transition {
	t.Easing = e
	return t
}

func (t *Transition) rawProgress() float64 {
	elapsed := time.Since(t.startedAt)
	if elapsed >= t.Duration || t.Duration <= 0 {
		return 1
	}
	return elapsed.Seconds() / t.Duration.Seconds()
}

// Progress returns eased progress in [0,1].
func (t *Transition) Progress() float64 {
	return t.Easing.Apply(t.rawProgress())
}

// IsComplete reports elapsed >= duration.
func (t *Transition) IsComplete() bool {
	return time.Since(t.startedAt) >= t.Duration
}

// Blend computes the frame at the transition's current progress. GPU
// acceleration is selected by the caller (internal/output) when the
// kind is GPU-supported (fade/wipe*/center/outer per spec.md 4.2); this
// function is always the CPU path, used directly when no GPU context
// exists and as the fallback on GPU failure.
func (t *Transition) Blend(new frame.ARGB) frame.ARGB {
	return BlendAt(t.Kind, t.AngleDeg, t.Progress(), t.OldFrame, new)
}

// BlendAt computes the blended frame for an explicit progress value,
// split out from Blend so tests can exercise boundary behaviour
// (testable property 3) without waiting on a real clock.
func BlendAt(kind Kind, angleDeg, progress float64, old, new frame.ARGB) frame.ARGB {
	switch kind {
	case KindNone:
		return new.Clone()
	case KindFade:
		return blendFade(old, new, progress)
	case KindWipeLeft:
		return blendWipeHorizontal(old, new, progress, false)
	case KindWipeRight:
		return blendWipeHorizontal(old, new, progress, true)
	case KindWipeTop:
		return blendWipeVertical(old, new, progress, false)
	case KindWipeBottom:
		return blendWipeVertical(old, new, progress, true)
	case KindWipeAngle:
		return blendWipeAngle(old, new, progress, angleDeg)
	case KindCenter:
		return blendRadial(old, new, progress, false)
	case KindOuter:
		return blendRadial(old, new, progress, true)
	default:
		return new.Clone()
	}
}

func blendFade(old, new frame.ARGB, progress float64) frame.ARGB {
	out := frame.ARGB{Pix: make([]byte, len(old.Pix)), Width: old.Width, Height: old.Height}
	for i := 0; i+4 <= len(old.Pix); i += 4 {
		for k := 0; k < 4; k++ {
			ov := float64(old.Pix[i+k])
			nv := float64(new.Pix[i+k])
			out.Pix[i+k] = byte(ov + (nv-ov)*progress)
		}
	}
	return out
}

func blendWipeHorizontal(old, new frame.ARGB, progress float64, rightToLeft bool) frame.ARGB {
	out := old.Clone()
	stride := old.Stride()
	w := float64(old.Width)
	boundary := w * progress
	if rightToLeft {
		boundary = w * (1 - progress)
	}
	for y := 0; y < old.Height; y++ {
		row := y * stride
		for x := 0; x < old.Width; x++ {
			showNew := float64(x) < boundary
			if rightToLeft {
				showNew = float64(x) >= boundary
			}
			if showNew {
				px := row + x*4
				copy(out.Pix[px:px+4], new.Pix[px:px+4])
			}
		}
	}
	return out
}

func blendWipeVertical(old, new frame.ARGB, progress float64, bottomToTop bool) frame.ARGB {
	out := old.Clone()
	stride := old.Stride()
	h := float64(old.Height)
	boundary := h * progress
	if bottomToTop {
		boundary = h * (1 - progress)
	}
	for y := 0; y < old.Height; y++ {
		showNew := float64(y) < boundary
		if bottomToTop {
			showNew = float64(y) >= boundary
		}
		if showNew {
			row := y * stride
			copy(out.Pix[row:row+stride], new.Pix[row:row+stride])
		}
	}
	return out
}

func blendWipeAngle(old, new frame.ARGB, progress, angleDeg float64) frame.ARGB {
	out := old.Clone()
	stride := old.Stride()
	angleRad := angleDeg * math.Pi / 180
	cosA, sinA := math.Cos(angleRad), math.Sin(angleRad)
	maxDist := float64(old.Width)*math.Abs(cosA) + float64(old.Height)*math.Abs(sinA)
	boundary := maxDist * progress

	for y := 0; y < old.Height; y++ {
		row := y * stride
		for x := 0; x < old.Width; x++ {
			dist := float64(x)*cosA + float64(y)*sinA
			if dist < boundary {
				px := row + x*4
				copy(out.Pix[px:px+4], new.Pix[px:px+4])
			}
		}
	}
	return out
}

// blendRadial implements both Center (outward, default) and Outer
// (complement, new appears at edges and shrinks in).
func blendRadial(old, new frame.ARGB, progress float64, outer bool) frame.ARGB {
	if progress <= 0 {
		return old.Clone()
	}
	if progress >= 1 {
		return new.Clone()
	}
	out := old.Clone()
	stride := old.Stride()
	cx := float64(old.Width) / 2
	cy := float64(old.Height) / 2
	maxRadius := math.Sqrt(cx*cx + cy*cy)
	radius := maxRadius * progress
	if outer {
		radius = maxRadius * (1 - progress)
	}

	for y := 0; y < old.Height; y++ {
		row := y * stride
		for x := 0; x < old.Width; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			dist := math.Sqrt(dx*dx + dy*dy)
			showNew := dist < radius
			if outer {
				showNew = dist > radius
			}
			if showNew {
				px := row + x*4
				copy(out.Pix[px:px+4], new.Pix[px:px+4])
			}
		}
	}
	return out
}

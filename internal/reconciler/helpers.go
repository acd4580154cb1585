package reconciler

import (
	"strings"

	"github.com/chikof/momoi/internal/colorhex"
	"github.com/chikof/momoi/internal/imagesrc"
	"github.com/chikof/momoi/internal/ipc"
	"github.com/chikof/momoi/internal/overlay"
	"github.com/chikof/momoi/internal/shader"
	"github.com/chikof/momoi/internal/transition"
)

func parseColor(s string) (colorhex.Color, bool) {
	return colorhex.Parse(s)
}

func scaleModeFromName(name string) (imagesrc.ScaleMode, bool) {
	switch strings.ToLower(name) {
	case "center":
		return imagesrc.ScaleCenter, true
	case "fill":
		return imagesrc.ScaleFill, true
	case "fit":
		return imagesrc.ScaleFit, true
	case "stretch":
		return imagesrc.ScaleStretch, true
	case "tile":
		return imagesrc.ScaleTile, true
	default:
		return imagesrc.ScaleFill, false
	}
}

// parseScaleMode resolves an IPC scale string, falling back to def when
// name is empty or unrecognized.
func parseScaleMode(name string, def imagesrc.ScaleMode) imagesrc.ScaleMode {
	if name == "" {
		return def
	}
	if mode, ok := scaleModeFromName(name); ok {
		return mode
	}
	return def
}

// parseTransitionKind resolves an IPC transition name, collapsing
// "random" via transition.ResolveRandom (spec.md 4.7).
func parseTransitionKind(name string, angleDeg float64) (transition.Kind, float64) {
	switch strings.ToLower(name) {
	case "", "none":
		return transition.KindNone, angleDeg
	case "fade":
		return transition.KindFade, angleDeg
	case "wipe-left":
		return transition.KindWipeLeft, angleDeg
	case "wipe-right":
		return transition.KindWipeRight, angleDeg
	case "wipe-top":
		return transition.KindWipeTop, angleDeg
	case "wipe-bottom":
		return transition.KindWipeBottom, angleDeg
	case "wipe-angle":
		return transition.KindWipeAngle, angleDeg
	case "center":
		return transition.KindCenter, angleDeg
	case "outer":
		return transition.KindOuter, angleDeg
	case "random":
		return transition.ResolveRandom()
	default:
		return transition.KindFade, angleDeg
	}
}

// parseOverlayEffect accepts the same hyphen/underscore spelling variants
// as common::OverlayEffect::from_str in original_source/common/src/lib.rs.
func parseOverlayEffect(name string) (overlay.Effect, bool) {
	switch strings.ToLower(name) {
	case "vignette":
		return overlay.Vignette, true
	case "scanlines":
		return overlay.Scanlines, true
	case "film-grain", "film_grain", "filmgrain":
		return overlay.FilmGrain, true
	case "chromatic", "chromatic-aberration", "chromatic_aberration":
		return overlay.ChromaticAberration, true
	case "crt":
		return overlay.CRT, true
	case "pixelate":
		return overlay.Pixelate, true
	case "tint", "color-tint", "color_tint":
		return overlay.Tint, true
	default:
		return 0, false
	}
}

func convertOverlayParams(p *ipc.OverlayParams) overlay.Params {
	if p == nil {
		return overlay.Params{}
	}
	out := overlay.Params{
		Strength:  f32ToF64Ptr(p.Strength),
		Intensity: f32ToF64Ptr(p.Intensity),
		LineWidth: f32ToF64Ptr(p.LineWidth),
		Offset:    f32ToF64Ptr(p.Offset),
		Curvature: f32ToF64Ptr(p.Curvature),
		R:         f32ToF64Ptr(p.R),
		G:         f32ToF64Ptr(p.G),
		B:         f32ToF64Ptr(p.B),
	}
	if p.PixelSize != nil {
		v := int(*p.PixelSize)
		out.PixelSize = &v
	}
	return out
}

func applyShaderParams(base shader.Params, p *ipc.ShaderParams) shader.Params {
	if p == nil {
		return base
	}
	if p.Speed != nil {
		base.Speed = float64(*p.Speed)
	}
	if p.Color1 != nil {
		if c, ok := parseColor(*p.Color1); ok {
			base.Color1 = c
		}
	}
	if p.Color2 != nil {
		if c, ok := parseColor(*p.Color2); ok {
			base.Color2 = c
		}
	}
	if p.Color3 != nil {
		if c, ok := parseColor(*p.Color3); ok {
			base.Color3 = c
		}
	}
	if p.Scale != nil {
		base.Scale = float64(*p.Scale)
	}
	if p.Intensity != nil {
		base.Intensity = float64(*p.Intensity)
	}
	if p.Count != nil {
		base.Count = float64(*p.Count)
	}
	return base
}

func f32ToF64Ptr(p *float32) *float64 {
	if p == nil {
		return nil
	}
	v := float64(*p)
	return &v
}

// Package imagesrc implements the image source (C3): decoding stills and
// applying one of five fit modes, per spec.md 4.3.
package imagesrc

import "github.com/chikof/momoi/internal/frame"

// ScaleMode is the tagged fit-mode variant from spec.md 3.
type ScaleMode int

const (
	ScaleCenter ScaleMode = iota
	ScaleFill
	ScaleFit
	ScaleStretch
	ScaleTile
)

// Apply produces an (outW, outH) frame.ARGB raster (BGRA byte order) from src per the given mode,
// matching the invariants in testable property 2.
func Apply(mode ScaleMode, src frame.ARGB, outW, outH int) frame.ARGB {
	switch mode {
	case ScaleCenter:
		return center(src, outW, outH)
	case ScaleFill:
		return fill(src, outW, outH)
	case ScaleFit:
		return fit(src, outW, outH)
	case ScaleStretch:
		return frame.ResizeLanczos(src, outW, outH)
	case ScaleTile:
		return tile(src, outW, outH)
	default:
		return frame.New(outW, outH)
	}
}

// center places the source unscaled, centered, zero-fill padding.
func center(src frame.ARGB, outW, outH int) frame.ARGB {
	out := frame.New(outW, outH)
	offX := (outW - src.Width) / 2
	offY := (outH - src.Height) / 2
	blit(out, src, offX, offY)
	return out
}

// fill uniformly scales so the source covers the output, cropping the
// center excess. Tie-break by output aspect: if target_ratio > src_ratio
// scale-to-width else scale-to-height (spec.md 4.3).
func fill(src frame.ARGB, outW, outH int) frame.ARGB {
	targetRatio := float64(outW) / float64(outH)
	srcRatio := float64(src.Width) / float64(src.Height)

	var scaledW, scaledH int
	if targetRatio > srcRatio {
		scaledW = outW
		scaledH = int(float64(outW) / srcRatio)
	} else {
		scaledH = outH
		scaledW = int(float64(outH) * srcRatio)
	}
	scaled := frame.ResizeLanczos(src, scaledW, scaledH)

	out := frame.New(outW, outH)
	offX := (outW - scaledW) / 2
	offY := (outH - scaledH) / 2
	blit(out, scaled, offX, offY)
	return out
}

// fit uniformly scales so the source fits inside, zero-fill letterboxed.
func fit(src frame.ARGB, outW, outH int) frame.ARGB {
	targetRatio := float64(outW) / float64(outH)
	srcRatio := float64(src.Width) / float64(src.Height)

	var scaledW, scaledH int
	if targetRatio > srcRatio {
		scaledH = outH
		scaledW = int(float64(outH) * srcRatio)
	} else {
		scaledW = outW
		scaledH = int(float64(outW) / srcRatio)
	}
	scaled := frame.ResizeLanczos(src, scaledW, scaledH)

	out := frame.New(outW, outH)
	offX := (outW - scaledW) / 2
	offY := (outH - scaledH) / 2
	blit(out, scaled, offX, offY)
	return out
}

// tile repeats the source at native resolution from (0,0), clipping the
// final row/column.
func tile(src frame.ARGB, outW, outH int) frame.ARGB {
	out := frame.New(outW, outH)
	if src.Width == 0 || src.Height == 0 {
		return out
	}
	for ty := 0; ty < outH; ty += src.Height {
		for tx := 0; tx < outW; tx += src.Width {
			blit(out, src, tx, ty)
		}
	}
	return out
}

// blit copies src into dst at (offX, offY), clipping to dst bounds and
// skipping entirely off-canvas regions (the zero-fill padding cases).
func blit(dst, src frame.ARGB, offX, offY int) {
	for sy := 0; sy < src.Height; sy++ {
		dy := offY + sy
		if dy < 0 || dy >= dst.Height {
			continue
		}
		for sx := 0; sx < src.Width; sx++ {
			dx := offX + sx
			if dx < 0 || dx >= dst.Width {
				continue
			}
			b, g, r, a := src.At(sx, sy)
			dst.Set(dx, dy, b, g, r, a)
		}
	}
}

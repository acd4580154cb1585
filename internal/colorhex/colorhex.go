// Package colorhex parses the 6-hex-digit colour strings used throughout
// shader, overlay and wallpaper-color requests.
package colorhex

import "strings"

// Color holds normalised 0..1 channel values.
type Color struct {
	R, G, B float32
}

// Parse parses a string of exactly 6 hex digits, with an optional leading
// '#', into normalised RGB. Any other length or non-hex digit returns
// ok=false, matching testable property 1 in spec.md.
func Parse(s string) (c Color, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, false
	}
	r, ok1 := hexByte(s[0:2])
	g, ok2 := hexByte(s[2:4])
	b, ok3 := hexByte(s[4:6])
	if !ok1 || !ok2 || !ok3 {
		return Color{}, false
	}
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
	}, true
}

// ParseBytes is Parse returning 0..255 byte channels, used by the CPU
// overlay/transition paths that write directly into ARGB frames.
func ParseBytes(s string) (r, g, b uint8, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	rv, ok1 := hexByte(s[0:2])
	gv, ok2 := hexByte(s[2:4])
	bv, ok3 := hexByte(s[4:6])
	if !ok1 || !ok2 || !ok3 {
		return 0, 0, 0, false
	}
	return rv, gv, bv, true
}

func hexByte(s string) (uint8, bool) {
	var v uint8
	for _, c := range []byte(s) {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= c - '0'
		case c >= 'a' && c <= 'f':
			v |= c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v |= c - 'A' + 10
		default:
			return 0, false
		}
	}
	return v, true
}

package main

import (
	"context"
	"fmt"

	"github.com/chikof/momoi/internal/compositor"
)

// Dial is the compositor.DialFunc this binary hands to the reconciler.
// Wayland protocol wiring is out of scope (spec.md 1): no client library
// is vendored in this module, so Dial reports a clear error rather than
// pretending to connect. Swap this for a real dial in a build that links
// a Wayland client library; the reconciler and everything above it only
// depend on the compositor.Compositor interface, not on this function.
func Dial(ctx context.Context) (compositor.Compositor, error) {
	return nil, fmt.Errorf("momoid: no Wayland compositor backend compiled in")
}

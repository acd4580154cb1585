// Package compositor defines the boundary this daemon needs from a Wayland
// client library: layer-shell surfaces, shm buffer registration, and output
// enumeration. Per spec.md 1, the Wayland protocol itself is out of scope
// and assumed available as a library offering these operations; this
// package is that assumed interface, plus an in-memory fake used by tests.
package compositor

import "context"

// OutputID identifies one compositor output by its stable name (e.g. "DP-1").
type OutputID string

// OutputInfo mirrors the output descriptor in spec.md 3.
type OutputInfo struct {
	Name        OutputID
	Width       int
	Height      int
	HiDPIScale  float64
	RefreshHz   float64
	HasRefresh  bool
}

// OutputEvent is delivered from Dispatch when outputs appear, are
// reconfigured, or disappear.
type OutputEvent struct {
	Kind   OutputEventKind
	Output OutputInfo
}

type OutputEventKind int

const (
	OutputAdded OutputEventKind = iota
	OutputConfigured
	OutputRemoved
)

// ErrDisconnected is returned by Dispatch/Flush when the compositor
// connection is broken (spec.md 4.9's "broken pipe" reconnect trigger).
var ErrDisconnected = errDisconnected{}

type errDisconnected struct{}

func (errDisconnected) Error() string { return "compositor: connection broken" }

// LayerSurface is the per-output background-layer surface used as the
// wallpaper canvas (glossary: "Layer surface").
type LayerSurface interface {
	// Attach binds a buffer to be shown on the next Commit.
	Attach(buf Buffer)
	// Damage marks the whole surface dirty.
	Damage()
	// Commit submits the attached buffer to the compositor.
	Commit()
	// Destroy tears down the surface.
	Destroy()
}

// Buffer is a compositor-side handle for a shared-memory buffer (C1).
// internal/buffer pairs each Buffer with the ShmSegment mapping beneath it.
type Buffer interface {
	// Released reports whether the compositor has released this buffer
	// back to the client (the release flag in spec.md 3/4.1).
	Released() bool
	// Destroy releases the compositor-side handle. Must be called before
	// unmapping the backing memory (spec.md 3 invariant c).
	Destroy()
}

// Compositor is the connection-level interface the reconciler drives.
type Compositor interface {
	// Dispatch processes pending compositor events, delivering them via
	// the events channel supplied at connect time. Returns
	// ErrDisconnected on broken pipe.
	Dispatch(ctx context.Context) error
	// Flush sends any buffered requests to the compositor.
	Flush() error
	// Events returns the channel of output lifecycle events.
	Events() <-chan OutputEvent
	// NewLayerSurface creates a background-layer surface for an output.
	NewLayerSurface(output OutputID) (LayerSurface, error)
	// NewShmBuffer registers a shared-memory mapping as a compositor buffer.
	NewShmBuffer(seg ShmSegment, width, height, stride int) (Buffer, error)
	// Outputs returns the currently known outputs.
	Outputs() []OutputInfo
	// Close disconnects.
	Close() error
}

// ShmSegment is a file-backed memory mapping, the storage beneath a
// Buffer. Implemented in production by an anonymous-file (memfd) mapping,
// and in tests by an in-process byte slice (see NewFakeShm in shm.go).
type ShmSegment interface {
	Bytes() []byte
	Close() error
}

// Dial connects to the compositor named by the WAYLAND_DISPLAY-style
// environment convention. Out of scope per spec.md 1; real wiring replaces
// this with the chosen Wayland client library's connection constructor.
type DialFunc func(ctx context.Context) (Compositor, error)

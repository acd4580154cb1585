// Package output implements per-output render state (C8): the owner of
// one output's active wallpaper source, overlay, transition and buffer
// pool, per spec.md 4.8.
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/chikof/momoi/internal/buffer"
	"github.com/chikof/momoi/internal/colorhex"
	"github.com/chikof/momoi/internal/compositor"
	"github.com/chikof/momoi/internal/frame"
	"github.com/chikof/momoi/internal/gpu"
	"github.com/chikof/momoi/internal/imagesrc"
	"github.com/chikof/momoi/internal/overlay"
	"github.com/chikof/momoi/internal/shader"
	"github.com/chikof/momoi/internal/transition"
	"github.com/chikof/momoi/internal/video"
)

// SourceKind is the tagged active-source variant (spec.md 3's
// WallpaperKind, restricted to what an output actually renders from:
// None/Color/Image/Video/Shader).
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceColor
	SourceImage
	SourceVideo
	SourceShader
)

// Source is the output's currently applied wallpaper source. Exactly one
// set of fields is meaningful, selected by Kind.
type Source struct {
	Kind SourceKind

	Color colorhex.Color

	Image *imagesrc.Source

	// Video points at a decoder shared across every output displaying the
	// same file; VideoW/VideoH is this output's registered consumer
	// resolution (spec.md 4.4's resolution de-duplication).
	Video          *video.Source
	VideoW, VideoH int

	Shader *shader.Source
}

// State is one output's render state (spec.md 4.8): width, height,
// hidpi_scale, configured, buffer_current, buffer_pool, source, overlay,
// transition, pending_new_frame.
type State struct {
	mu sync.Mutex

	name       compositor.OutputID
	width      int
	height     int
	hidpiScale float64
	configured bool

	surface compositor.LayerSurface
	pool    *buffer.Pool
	gpu     *gpu.Pipelines

	bufferCurrent *buffer.Buffer
	source        Source
	overlay       *overlay.Overlay

	transitionState *transition.Transition
	pendingNewFrame *frame.ARGB

	poolWarnings []string
}

// New binds render state to one output's layer surface and a dedicated
// buffer pool.
func New(name compositor.OutputID, surface compositor.LayerSurface, pool *buffer.Pool) *State {
	return &State{name: name, surface: surface, pool: pool}
}

// Name reports the output this state belongs to.
func (s *State) Name() compositor.OutputID { return s.name }

// SetGPU installs the shared GPU pipeline set for this output, enabling
// the GPU path for transition blend and overlay apply in AdvanceTransition
// (spec.md 4.2). A nil pipelines value (the default) keeps this output on
// the CPU path unconditionally.
func (s *State) SetGPU(p *gpu.Pipelines) {
	s.mu.Lock()
	s.gpu = p
	s.mu.Unlock()
}

// Dimensions reports the last-configured pixel size.
func (s *State) Dimensions() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Configured reports whether OnConfigure has run at least once.
func (s *State) Configured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configured
}

// OnConfigure records dimensions, marks the output configured, and
// renders a neutral dark-grey placeholder so the surface is visible
// while real content loads (spec.md 4.8).
func (s *State) OnConfigure(width, height int, hidpiScale float64) error {
	s.mu.Lock()
	s.width, s.height = width, height
	s.hidpiScale = hidpiScale
	s.configured = true
	s.mu.Unlock()

	placeholder := frame.New(width, height)
	placeholder.FillColor(0x20, 0x20, 0x20, 0xff)
	return s.Commit(placeholder)
}

// Apply drops a conflicting previous source, deregistering a shared
// video consumer if one was installed, and installs src (spec.md 4.8).
func (s *State) Apply(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropSourceLocked()
	s.source = src
	if src.Kind == SourceVideo && src.Video != nil {
		src.Video.AddConsumer(src.VideoW, src.VideoH)
	}
}

func (s *State) dropSourceLocked() {
	if s.source.Kind == SourceVideo && s.source.Video != nil {
		s.source.Video.RemoveConsumer(s.source.VideoW, s.source.VideoH)
	}
	s.source = Source{}
}

// Source returns a snapshot of the active source descriptor.
func (s *State) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// SetOverlay installs the active post-process overlay; pass nil to clear
// it (the ClearOverlay command).
func (s *State) SetOverlay(o *overlay.Overlay) {
	s.mu.Lock()
	s.overlay = o
	s.mu.Unlock()
}

// Overlay returns the active overlay, nil if none.
func (s *State) Overlay() *overlay.Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay
}

// HasTransition reports whether a transition is in flight.
func (s *State) HasTransition() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionState != nil
}

// StartTransition reads back buffer_current as the transition's old
// frame, constructs the transition, and stashes newFrame as pending
// (spec.md 4.8). An instant swap (duration <= 0) is not a transition:
// callers should Commit directly instead of calling this.
func (s *State) StartTransition(kind transition.Kind, angleDeg float64, duration time.Duration, newFrame frame.ARGB) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var old frame.ARGB
	if s.bufferCurrent != nil {
		old = s.bufferCurrent.ReadFrame()
	} else {
		old = frame.New(s.width, s.height)
	}
	nf := newFrame
	s.transitionState = transition.New(kind, angleDeg, duration, old)
	s.pendingNewFrame = &nf
}

// AdvanceTransition computes the current blended frame and commits it
// (spec.md 4.9 step 5); on the tick where the transition completes, it
// commits the final pending frame and clears the transition instead of
// blending. Returns false if no transition is active.
func (s *State) AdvanceTransition() (bool, error) {
	s.mu.Lock()
	t := s.transitionState
	pending := s.pendingNewFrame
	g := s.gpu
	if t == nil || pending == nil {
		s.mu.Unlock()
		return false, nil
	}

	var blended frame.ARGB
	if t.IsComplete() {
		blended = *pending
		s.transitionState = nil
		s.pendingNewFrame = nil
	} else {
		blended = s.blendLocked(g, t, *pending)
	}
	ov := s.overlay
	s.mu.Unlock()

	if ov != nil {
		blended = s.applyOverlay(g, ov, blended)
	}
	if err := s.Commit(blended); err != nil {
		return false, err
	}
	return true, nil
}

// blendLocked tries the GPU blend pipeline when one is installed and the
// kind is GPU-supported (spec.md 4.2), falling back to the CPU path on a
// nil pipelines reference, an unsupported kind, or a transient GPU error.
func (s *State) blendLocked(g *gpu.Pipelines, t *transition.Transition, newFrame frame.ARGB) frame.ARGB {
	if g != nil && gpu.BlendSupported(t.Kind) {
		if out, err := g.Blend(t.Kind, t.Progress(), t.OldFrame, newFrame); err == nil {
			return out
		}
	}
	return t.Blend(newFrame)
}

// applyOverlay tries the GPU overlay pipeline before falling back to the
// CPU in-place apply (spec.md 4.2/4.6).
func (s *State) applyOverlay(g *gpu.Pipelines, ov *overlay.Overlay, f frame.ARGB) frame.ARGB {
	if g != nil {
		if out, err := g.ApplyOverlay(ov.Effect, ov.Params, ov.Elapsed(), f); err == nil {
			return out
		}
	}
	f = f.Clone()
	ov.Apply(f)
	return f
}

// Commit acquires/reuses a pool buffer matching f's size, writes f,
// attach-damage-commits it on the surface, moves the previous
// buffer_current into the pool (now busy until the compositor releases
// it), and trims the pool (spec.md 4.8).
func (s *State) Commit(f frame.ARGB) error {
	s.mu.Lock()
	pool := s.pool
	surface := s.surface
	prev := s.bufferCurrent
	s.mu.Unlock()

	buf, err := pool.Acquire(f.Width, f.Height)
	if err != nil {
		return fmt.Errorf("output: acquire buffer: %w", err)
	}
	if err := buf.WriteFrame(f.Pix); err != nil {
		return fmt.Errorf("output: write frame: %w", err)
	}

	surface.Attach(buf.Handle())
	surface.Damage()
	surface.Commit()

	s.mu.Lock()
	s.bufferCurrent = buf
	s.mu.Unlock()

	if prev != nil {
		if warnings := pool.Return(prev); len(warnings) > 0 {
			s.mu.Lock()
			s.poolWarnings = append(s.poolWarnings, warnings...)
			s.mu.Unlock()
		}
	}
	return nil
}

// DrainPoolWarnings returns and clears any buffer-leak warnings recorded
// since the last drain, for the reconciler to log at warn level
// (spec.md 7: "buffer leak warning").
func (s *State) DrainPoolWarnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.poolWarnings
	s.poolWarnings = nil
	return w
}

// CurrentFrame returns a copy of the committed frame, for snapshotting
// the previous content before an instant source swap.
func (s *State) CurrentFrame() (frame.ARGB, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bufferCurrent == nil {
		return frame.ARGB{}, false
	}
	return s.bufferCurrent.ReadFrame(), true
}

// Destroy tears down source, transition and pool, then the surface
// itself (spec.md 4.8: "this must tear down decoder/shader resources").
func (s *State) Destroy() {
	s.mu.Lock()
	s.dropSourceLocked()
	s.transitionState = nil
	s.pendingNewFrame = nil
	pool := s.pool
	surface := s.surface
	s.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
	if surface != nil {
		surface.Destroy()
	}
}

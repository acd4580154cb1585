// Package buffer implements the shared-memory buffer pool (C1): framebuffers
// tracked by a compositor release flag, reused across commits per spec.md 4.1.
package buffer

import (
	"fmt"
	"sync"

	"github.com/chikof/momoi/internal/compositor"
	"github.com/chikof/momoi/internal/frame"
)

// maxIdle is the pool cap beyond the currently attached buffer (spec.md 3).
const maxIdle = 3

// Buffer is one shared-memory framebuffer.
//
// Invariants (spec.md 3): a buffer attached to a surface must not be
// written to until its release flag is true; dimensions and stride are
// immutable for the buffer's lifetime; Destroy tears down the compositor
// handle before the mapping.
type Buffer struct {
	seg           compositor.ShmSegment
	handle        compositor.Buffer
	width, height int
	stride        int
}

func newBuffer(comp compositor.Compositor, newShm func(int) (compositor.ShmSegment, error), width, height int) (*Buffer, error) {
	stride := width * 4
	size := stride * height
	seg, err := newShm(size)
	if err != nil {
		return nil, fmt.Errorf("buffer: allocate: %w", err)
	}
	handle, err := comp.NewShmBuffer(seg, width, height, stride)
	if err != nil {
		_ = seg.Close()
		return nil, fmt.Errorf("buffer: register with compositor: %w", err)
	}
	return &Buffer{seg: seg, handle: handle, width: width, height: height, stride: stride}, nil
}

// Width and Height report the immutable buffer dimensions.
func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Matches reports whether this buffer's dimensions equal (w,h).
func (b *Buffer) Matches(w, h int) bool { return b.width == w && b.height == h }

// IsReleased reports the compositor release flag.
func (b *Buffer) IsReleased() bool { return b.handle.Released() }

// Handle returns the compositor-level buffer handle, for attaching to a
// layer surface.
func (b *Buffer) Handle() compositor.Buffer { return b.handle }

// FillColor writes the BGRA word repeatedly into the mapping.
func (b *Buffer) FillColor(r, g, bl, a uint8) {
	frame.ARGB{Pix: b.seg.Bytes(), Width: b.width, Height: b.height}.FillColor(r, g, bl, a)
}

// WriteFrame copies bytes into the mapping; fails on length mismatch.
func (b *Buffer) WriteFrame(bytes []byte) error {
	if err := frame.Validate(bytes, len(b.seg.Bytes())); err != nil {
		return fmt.Errorf("buffer: write_frame: %w", err)
	}
	copy(b.seg.Bytes(), bytes)
	return nil
}

// ReadFrame returns a copy of the mapping, used to capture the "old frame"
// for transitions (spec.md 4.1).
func (b *Buffer) ReadFrame() frame.ARGB {
	f := frame.New(b.width, b.height)
	copy(f.Pix, b.seg.Bytes())
	return f
}

// destroy tears down the compositor handle before the mapping, per
// invariant (c).
func (b *Buffer) destroy() {
	b.handle.Destroy()
	_ = b.seg.Close()
}

// Pool manages at most maxIdle idle buffers per output (spec.md 3).
type Pool struct {
	mu   sync.Mutex
	comp compositor.Compositor
	// newShm is overridable to let tests use an in-process segment
	// instead of a real memfd mapping.
	newShm func(int) (compositor.ShmSegment, error)

	idle []*Buffer
	busy []*Buffer
}

// NewPool constructs a pool bound to one output's compositor connection.
func NewPool(comp compositor.Compositor) *Pool {
	return &Pool{comp: comp, newShm: compositor.NewMemShm}
}

// NewFakePool is a test constructor that allocates segments in-process.
func NewFakePool(comp compositor.Compositor) *Pool {
	return &Pool{comp: comp, newShm: func(size int) (compositor.ShmSegment, error) {
		return compositor.NewFakeShm(size), nil
	}}
}

// Acquire returns a buffer of (w,h): a released, matching idle buffer if
// one exists, otherwise a freshly allocated one.
func (p *Pool) Acquire(w, h int) (*Buffer, error) {
	p.mu.Lock()
	for i, b := range p.idle {
		if b.Matches(w, h) && b.IsReleased() {
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			p.mu.Unlock()
			return b, nil
		}
	}
	p.mu.Unlock()

	b, err := newBuffer(p.comp, p.newShm, w, h)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Return moves a detached buffer into the idle set and trims the pool,
// implementing spec.md 3's "at most three buffers beyond attached" cap.
func (p *Pool) Return(b *Buffer) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.idle = append(p.idle, b)
	return p.trimLocked()
}

// trimLocked removes released buffers first until the pool is within cap.
// If buffers remain over cap while all are busy, it returns warnings for
// the caller to log (spec.md 4.1's buffer-leak diagnostic).
func (p *Pool) trimLocked() []string {
	var warnings []string

	for len(p.idle) > maxIdle {
		removedAny := false
		for i, b := range p.idle {
			if b.IsReleased() {
				b.destroy()
				p.idle = append(p.idle[:i], p.idle[i+1:]...)
				removedAny = true
				break
			}
		}
		if !removedAny {
			warnings = append(warnings, fmt.Sprintf(
				"buffer: pool over capacity (%d idle, cap %d) with no released buffer to reclaim",
				len(p.idle), maxIdle))
			break
		}
	}
	return warnings
}

// Count returns the number of idle buffers currently tracked, for tests.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Close destroys every tracked buffer.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.idle {
		b.destroy()
	}
	p.idle = nil
}

package compositor

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-process Compositor used by tests (reconciler scenarios
// S1-S6, buffer pool property tests). It never talks to a real Wayland
// server; mirrors hal/noop's role as a deterministic backend for
// behavioural tests.
type Fake struct {
	mu      sync.Mutex
	outputs map[OutputID]OutputInfo
	events  chan OutputEvent
	broken  bool
	closed  bool
}

// NewFake creates an empty fake compositor.
func NewFake() *Fake {
	return &Fake{
		outputs: make(map[OutputID]OutputInfo),
		events:  make(chan OutputEvent, 32),
	}
}

// AddOutput synthesizes an "output added" event, as a test would simulate
// the compositor announcing a new monitor.
func (f *Fake) AddOutput(info OutputInfo) {
	f.mu.Lock()
	f.outputs[info.Name] = info
	f.mu.Unlock()
	f.events <- OutputEvent{Kind: OutputAdded, Output: info}
	f.events <- OutputEvent{Kind: OutputConfigured, Output: info}
}

// RemoveOutput synthesizes an "output destroyed" event.
func (f *Fake) RemoveOutput(name OutputID) {
	f.mu.Lock()
	info, ok := f.outputs[name]
	delete(f.outputs, name)
	f.mu.Unlock()
	if ok {
		f.events <- OutputEvent{Kind: OutputRemoved, Output: info}
	}
}

// BreakPipe makes the next Dispatch/Flush return ErrDisconnected, for
// testable property 7 (reconnect restoration).
func (f *Fake) BreakPipe() {
	f.mu.Lock()
	f.broken = true
	f.mu.Unlock()
}

// Heal clears a prior BreakPipe so a subsequent reconnect can succeed.
func (f *Fake) Heal() {
	f.mu.Lock()
	f.broken = false
	f.mu.Unlock()
}

func (f *Fake) Dispatch(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return ErrDisconnected
	}
	return nil
}

func (f *Fake) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return ErrDisconnected
	}
	return nil
}

func (f *Fake) Events() <-chan OutputEvent { return f.events }

func (f *Fake) Outputs() []OutputInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]OutputInfo, 0, len(f.outputs))
	for _, o := range f.outputs {
		out = append(out, o)
	}
	return out
}

func (f *Fake) NewLayerSurface(output OutputID) (LayerSurface, error) {
	f.mu.Lock()
	_, ok := f.outputs[output]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("compositor: unknown output %q", output)
	}
	return &fakeSurface{}, nil
}

func (f *Fake) NewShmBuffer(seg ShmSegment, width, height, stride int) (Buffer, error) {
	return &fakeBuffer{seg: seg, released: true}, nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	close(f.events)
	return nil
}

type fakeSurface struct {
	mu       sync.Mutex
	attached Buffer
}

func (s *fakeSurface) Attach(buf Buffer) {
	s.mu.Lock()
	s.attached = buf
	s.mu.Unlock()
}

func (s *fakeSurface) Damage() {}

// Commit marks the currently attached buffer released at once, simulating
// the compositor's release event firing promptly, unless Hold() was called
// on that buffer (tests use Hold to keep a buffer "busy").
func (s *fakeSurface) Commit() {
	s.mu.Lock()
	buf := s.attached
	s.mu.Unlock()
	if fb, ok := buf.(*fakeBuffer); ok {
		fb.mu.Lock()
		if !fb.held {
			fb.released = true
		}
		fb.mu.Unlock()
	}
}

func (s *fakeSurface) Destroy() {}

type fakeBuffer struct {
	mu       sync.Mutex
	seg      ShmSegment
	released bool
	held     bool
}

func (b *fakeBuffer) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Hold keeps the buffer marked busy across the next Commit, for pool-cap
// tests that need to simulate a slow compositor.
func (b *fakeBuffer) Hold() {
	b.mu.Lock()
	b.held = true
	b.released = false
	b.mu.Unlock()
}

// Release simulates the compositor's release event firing.
func (b *fakeBuffer) Release() {
	b.mu.Lock()
	b.held = false
	b.released = true
	b.mu.Unlock()
}

func (b *fakeBuffer) Destroy() {}

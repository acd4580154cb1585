// Package state holds the single mutex-protected, process-wide record
// (C10) consulted by the reconciler and the IPC handler: spec.md 4.10.
package state

import (
	"sync"
	"time"

	"github.com/chikof/momoi/internal/compositor"
)

// WallpaperKind is the tagged variant from spec.md 3.
type WallpaperKind struct {
	Tag    WallpaperTag
	Color  string // hex, for Tag == WallpaperColor
	Path   string // for Tag == WallpaperImage / WallpaperVideo
	Shader string // for Tag == WallpaperShader
}

type WallpaperTag int

const (
	WallpaperNone WallpaperTag = iota
	WallpaperColor
	WallpaperImage
	WallpaperVideo
	WallpaperShader
)

// ResourceStats mirrors the fields satisfied by GetResources (spec.md 6).
type ResourceStats struct {
	PerfMode       string
	MemoryMB       float64
	CPUPercent     float64
	OnBattery      bool
	BatteryPercent int
	HasBattery     bool
}

// State is the single lock guarding process-wide daemon state. Per
// spec.md 5/9, every holder is a short critical section: grab, clone
// primitives, release, act.
type State struct {
	mu sync.Mutex

	outputs     map[compositor.OutputID]compositor.OutputInfo
	wallpapers  map[compositor.OutputID]WallpaperKind
	resources   ResourceStats
	shouldExit  bool
	startedAt   time.Time
	versionStr  string
}

// New creates an empty state record, recording the process start time for
// Status's uptime_secs field.
func New(version string) *State {
	return &State{
		outputs:    make(map[compositor.OutputID]compositor.OutputInfo),
		wallpapers: make(map[compositor.OutputID]WallpaperKind),
		startedAt:  time.Now(),
		versionStr: version,
	}
}

// SetOutput records or updates an output descriptor.
func (s *State) SetOutput(info compositor.OutputInfo) {
	s.mu.Lock()
	s.outputs[info.Name] = info
	s.mu.Unlock()
}

// RemoveOutput drops an output and its wallpaper entry (spec.md 3:
// "its render state drops all buffers, sources, and transitions").
func (s *State) RemoveOutput(name compositor.OutputID) {
	s.mu.Lock()
	delete(s.outputs, name)
	delete(s.wallpapers, name)
	s.mu.Unlock()
}

// Outputs returns a snapshot of known outputs.
func (s *State) Outputs() []compositor.OutputInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]compositor.OutputInfo, 0, len(s.outputs))
	for _, o := range s.outputs {
		out = append(out, o)
	}
	return out
}

// SetWallpaper records the wallpaper kind selected for an output, used
// both to answer Query and to restore after reconnect (spec.md 4.9).
func (s *State) SetWallpaper(output compositor.OutputID, kind WallpaperKind) {
	s.mu.Lock()
	s.wallpapers[output] = kind
	s.mu.Unlock()
}

// Wallpapers returns a snapshot of the output -> wallpaper-kind map.
func (s *State) Wallpapers() map[compositor.OutputID]WallpaperKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[compositor.OutputID]WallpaperKind, len(s.wallpapers))
	for k, v := range s.wallpapers {
		out[k] = v
	}
	return out
}

// SetResourceStats records the latest resource reading.
func (s *State) SetResourceStats(stats ResourceStats) {
	s.mu.Lock()
	s.resources = stats
	s.mu.Unlock()
}

// ResourceStats returns the last recorded resource reading.
func (s *State) ResourceStats() ResourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resources
}

// RequestExit sets the should_exit flag, observed by the reconciler and
// the IPC accept loop once per tick/poll (spec.md 5).
func (s *State) RequestExit() {
	s.mu.Lock()
	s.shouldExit = true
	s.mu.Unlock()
}

// ShouldExit reports the exit flag.
func (s *State) ShouldExit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shouldExit
}

// UptimeSeconds reports elapsed seconds since New.
func (s *State) UptimeSeconds() int64 {
	return int64(time.Since(s.startedAt).Seconds())
}

// Version returns the daemon version string reported in Status.
func (s *State) Version() string { return s.versionStr }

// TryLockAndRead attempts a non-blocking read of the wallpapers map,
// matching spec.md 5's "readers use try-lock and skip the tick if
// contended" requirement for state reads from the reconciler's hot path.
func (s *State) TryLockAndRead(fn func(*State)) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	fn(s)
	return true
}

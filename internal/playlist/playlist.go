// Package playlist implements wallpaper rotation: a shuffle-bag or
// sequential rotation over a set of wallpaper files discovered from
// source paths, directories, or glob patterns.
//
// Source discovery and shuffling stay on the standard library
// (path/filepath.Glob, math/rand/v2.Shuffle): no library in this
// module's dependency set covers glob expansion or slice shuffling
// any better, and the stdlib primitives cover the needed behavior
// (direct file / directory scan / glob pattern, Fisher-Yates reshuffle
// per cycle) exactly.
package playlist

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// State is a rotation over a discovered wallpaper set, optionally scoped
// to one output.
type State struct {
	wallpapers   []string
	currentIndex int
	shuffleOrder []int
	shuffle      bool
	lastRotation time.Time
	interval     time.Duration
	outputName   string // "" means global
}

// New discovers wallpapers from sources (file paths, directories, or
// glob patterns) filtered by extensions, and builds a rotation state.
func New(sources, extensions []string, intervalSecs uint64, shuffle bool, outputName string) (*State, error) {
	wallpapers, err := loadWallpapersFromSources(sources, extensions)
	if err != nil {
		return nil, err
	}
	if len(wallpapers) == 0 {
		return nil, fmt.Errorf("playlist: no wallpapers found in playlist sources")
	}

	s := &State{
		wallpapers:   wallpapers,
		shuffle:      shuffle,
		lastRotation: time.Now(),
		interval:     time.Duration(intervalSecs) * time.Second,
		outputName:   outputName,
	}
	if shuffle {
		s.generateShuffleOrder()
	}
	return s, nil
}

func loadWallpapersFromSources(sources, extensions []string) ([]string, error) {
	var wallpapers []string

	for _, source := range sources {
		expanded := expandTilde(source)

		info, err := os.Stat(expanded)
		if err == nil && info.Mode().IsRegular() {
			if hasValidExtension(expanded, extensions) {
				wallpapers = append(wallpapers, expanded)
			}
			continue
		}
		if err == nil && info.IsDir() {
			for _, ext := range extensions {
				matches, _ := filepath.Glob(filepath.Join(expanded, "*."+ext))
				for _, m := range matches {
					if mi, err := os.Stat(m); err == nil && mi.Mode().IsRegular() {
						wallpapers = append(wallpapers, m)
					}
				}
			}
			continue
		}

		matches, globErr := filepath.Glob(expanded)
		if globErr != nil {
			continue
		}
		for _, m := range matches {
			if mi, err := os.Stat(m); err == nil && mi.Mode().IsRegular() && hasValidExtension(m, extensions) {
				wallpapers = append(wallpapers, m)
			}
		}
	}

	sort.Strings(wallpapers)
	wallpapers = dedupSorted(wallpapers)
	return wallpapers, nil
}

func dedupSorted(in []string) []string {
	out := in[:0]
	var prev string
	for i, v := range in {
		if i == 0 || v != prev {
			out = append(out, v)
			prev = v
		}
	}
	return out
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func hasValidExtension(path string, extensions []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func (s *State) generateShuffleOrder() {
	order := make([]int, len(s.wallpapers))
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	s.shuffleOrder = order
	s.currentIndex = 0
}

// Current returns the currently selected wallpaper path, "" if empty.
func (s *State) Current() string {
	if len(s.wallpapers) == 0 {
		return ""
	}
	idx := s.currentIndex
	if s.shuffle {
		if s.currentIndex < len(s.shuffleOrder) {
			idx = s.shuffleOrder[s.currentIndex]
		} else {
			idx = 0
		}
	}
	return s.wallpapers[idx]
}

// Next advances the rotation, regenerating the shuffle order at the end
// of each cycle.
func (s *State) Next() string {
	if len(s.wallpapers) == 0 {
		return ""
	}
	s.currentIndex = (s.currentIndex + 1) % len(s.wallpapers)
	if s.shuffle && s.currentIndex == 0 {
		s.generateShuffleOrder()
	}
	s.lastRotation = time.Now()
	return s.Current()
}

// Prev moves back one position without disturbing the shuffle order.
func (s *State) Prev() string {
	if len(s.wallpapers) == 0 {
		return ""
	}
	if s.currentIndex == 0 {
		s.currentIndex = len(s.wallpapers) - 1
	} else {
		s.currentIndex--
	}
	s.lastRotation = time.Now()
	return s.Current()
}

// ShouldRotate reports whether the rotation interval has elapsed.
func (s *State) ShouldRotate() bool {
	return time.Since(s.lastRotation) >= s.interval
}

// ToggleShuffle flips shuffle mode, regenerating the order when enabled.
func (s *State) ToggleShuffle() {
	s.shuffle = !s.shuffle
	if s.shuffle {
		s.generateShuffleOrder()
	}
}

func (s *State) Len() int          { return len(s.wallpapers) }
func (s *State) IsEmpty() bool     { return len(s.wallpapers) == 0 }
func (s *State) CurrentIndex() int { return s.currentIndex }
func (s *State) OutputName() string { return s.outputName }

// ResetTimer restarts the rotation countdown (e.g. after a manual skip).
func (s *State) ResetTimer() {
	s.lastRotation = time.Now()
}

// TimeUntilRotation reports how long remains before the next rotation.
func (s *State) TimeUntilRotation() time.Duration {
	elapsed := time.Since(s.lastRotation)
	if elapsed >= s.interval {
		return 0
	}
	return s.interval - elapsed
}

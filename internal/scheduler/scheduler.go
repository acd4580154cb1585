// Package scheduler implements time-based wallpaper switching: a set of
// named entries, each either a wall-clock HH:MM active range or a cron
// expression firing a one-shot change.
//
// Range evaluation handles the midnight-crossing case (a range whose
// end time is earlier than its start time wraps past midnight).
// Cron-expression entries are parsed with github.com/robfig/cron/v3,
// reusing its standard five-field parser rather than hand-rolling one.
package scheduler

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Entry is one schedule rule. Exactly one of (StartTime, EndTime) or Cron
// is expected to be set; Cron takes precedence when both are present.
type Entry struct {
	Name       string
	StartTime  string // "HH:MM", empty if Cron is used
	EndTime    string // "HH:MM"
	Cron       string // standard 5-field cron expression, empty for a range entry
	Wallpaper  string
	Transition string
	DurationMS uint64
}

// Scheduled is the wallpaper change a matched entry requests.
type Scheduled struct {
	Path         string
	Transition   string
	DurationMS   uint64
	ScheduleName string
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// State evaluates schedule entries against the wall clock.
type State struct {
	entries       []Entry
	cronSchedules map[string]cron.Schedule
	lastCheck     time.Time
	checkInterval time.Duration
	activeEntry   string
	lastCronFire  map[string]time.Time
}

// New builds a scheduler from entries, pre-parsing any cron expressions
// up front so a malformed rule is surfaced at construction, not at the
// first tick.
func New(entries []Entry) (*State, error) {
	s := &State{
		entries:       entries,
		cronSchedules: make(map[string]cron.Schedule),
		lastCheck:     time.Now(),
		checkInterval: time.Minute,
		lastCronFire:  make(map[string]time.Time),
	}
	for _, e := range entries {
		if e.Cron == "" {
			continue
		}
		sched, err := cronParser.Parse(e.Cron)
		if err != nil {
			return nil, fmt.Errorf("scheduler: entry %q: invalid cron expression %q: %w", e.Name, e.Cron, err)
		}
		s.cronSchedules[e.Name] = sched
	}
	return s, nil
}

// ShouldCheck reports whether the per-minute check cadence has elapsed.
func (s *State) ShouldCheck(now time.Time) bool {
	return now.Sub(s.lastCheck) >= s.checkInterval
}

// Check evaluates entries against now and returns the wallpaper to
// activate, if the active entry changed since the last check.
func (s *State) Check(now time.Time) *Scheduled {
	s.lastCheck = now

	for _, entry := range s.entries {
		if entry.Cron != "" {
			if s.cronFired(entry, now) {
				s.activeEntry = entry.Name
				return &Scheduled{
					Path: expandTilde(entry.Wallpaper), Transition: entry.Transition,
					DurationMS: entry.DurationMS, ScheduleName: entry.Name,
				}
			}
			continue
		}

		if timeInRange(now, entry.StartTime, entry.EndTime) {
			if s.activeEntry != entry.Name {
				s.activeEntry = entry.Name
				return &Scheduled{
					Path: expandTilde(entry.Wallpaper), Transition: entry.Transition,
					DurationMS: entry.DurationMS, ScheduleName: entry.Name,
				}
			}
			return nil
		}
	}

	s.activeEntry = ""
	return nil
}

// cronFired reports whether entry's cron schedule's most recent
// scheduled tick on/before now has not yet been fired.
func (s *State) cronFired(entry Entry, now time.Time) bool {
	sched, ok := s.cronSchedules[entry.Name]
	if !ok {
		return false
	}
	last, seen := s.lastCronFire[entry.Name]
	if !seen {
		last = now.Add(-time.Minute)
	}
	next := sched.Next(last)
	if !next.After(now) {
		s.lastCronFire[entry.Name] = now
		return true
	}
	return false
}

// timeInRange mirrors scheduler.rs's time_in_range, including the
// midnight-crossing branch.
func timeInRange(now time.Time, start, end string) bool {
	startT, err := parseClockTime(start)
	if err != nil {
		return false
	}
	endT, err := parseClockTime(end)
	if err != nil {
		return false
	}
	current := minutesOfDay(now.Hour(), now.Minute())

	if startT <= endT {
		return current >= startT && current < endT
	}
	return current >= startT || current < endT
}

func minutesOfDay(h, m int) int { return h*60 + m }

// parseClockTime parses "HH:MM", rejecting out-of-range hours/minutes
// exactly as scheduler.rs's parse_time does via NaiveTime::from_hms_opt.
func parseClockTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("scheduler: invalid time format %q (expected HH:MM)", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("scheduler: invalid hour in time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("scheduler: invalid minute in time %q: %w", s, err)
	}
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("scheduler: invalid time %q", s)
	}
	return minutesOfDay(hour, minute), nil
}

// ActiveEntry returns the currently active entry's name, "" if none.
func (s *State) ActiveEntry() string { return s.activeEntry }

// Entries returns all configured entries.
func (s *State) Entries() []Entry { return s.entries }

// ForceCheck resets the check timer so the next tick evaluates
// immediately.
func (s *State) ForceCheck() {
	s.lastCheck = s.lastCheck.Add(-s.checkInterval)
}

func expandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + strings.TrimPrefix(path, "~")
}

// Package resource implements the resource monitor (C-adjacent ambient
// component named in spec.md 9): tracks this process's own memory/CPU
// usage and the system's battery state, and derives a PerformanceMode
// used to tier video/shader frame rates and memory budgets.
//
// Grounded on original_source/daemon/src/resource_monitor.rs. The
// refresh-only-our-PID discipline from that file is preserved exactly
// (spec.md 9's named regression: never gather process stats for every
// PID on the system) via gopsutil's per-PID process.NewProcess, rather
// than any system-wide process enumeration call.
package resource

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Mode is the tagged performance-tier variant (spec.md 9).
type Mode int

const (
	ModeBalanced Mode = iota
	ModePerformance
	ModePowerSave
)

func (m Mode) String() string {
	switch m {
	case ModePerformance:
		return "performance"
	case ModePowerSave:
		return "powersave"
	default:
		return "balanced"
	}
}

// ParseMode accepts the case-insensitive spellings from the original
// implementation, including the powersave hyphen/underscore variants.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "performance":
		return ModePerformance, true
	case "balanced":
		return ModeBalanced, true
	case "powersave", "power-save", "power_save":
		return ModePowerSave, true
	default:
		return ModeBalanced, false
	}
}

// VideoFPSLimit, GIFFPSLimit and MemoryLimitMB mirror resource_monitor.rs's
// per-mode tier table exactly.
func (m Mode) VideoFPSLimit() int {
	switch m {
	case ModePerformance:
		return 60
	case ModePowerSave:
		return 15
	default:
		return 30
	}
}

func (m Mode) GIFFPSLimit() int {
	switch m {
	case ModePerformance:
		return 50
	case ModePowerSave:
		return 10
	default:
		return 30
	}
}

func (m Mode) MemoryLimitMB() int {
	switch m {
	case ModePerformance:
		return 500
	case ModePowerSave:
		return 150
	default:
		return 300
	}
}

// Stats is one sample of process/battery state.
type Stats struct {
	MemoryBytes    uint64
	CPUPercent     float64
	OnBattery      bool
	BatteryPercent int
	HasBattery     bool
}

// Config holds the resource-monitor tunables read from config.toml.
type Config struct {
	AutoBatteryMode     bool
	EnforceMemoryLimits bool
	MaxMemoryMB         int
	CPUThreshold        float64
}

// DefaultConfig matches the original's Default impl.
func DefaultConfig() Config {
	return Config{
		AutoBatteryMode:     true,
		EnforceMemoryLimits: true,
		MaxMemoryMB:         300,
		CPUThreshold:        80.0,
	}
}

// Monitor tracks this process's resource usage and the active
// PerformanceMode. Every method takes the internal mutex, so the IPC
// handler and the reconciler's tick loop may both call it.
type Monitor struct {
	mu sync.Mutex

	proc          *process.Process
	mode          Mode
	manualMode    bool
	config        Config
	lastCheck     time.Time
	checkInterval time.Duration
}

// New constructs a monitor bound to the current process's own PID,
// never a system-wide process snapshot.
func New(config Config) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Monitor{
		proc:          proc,
		mode:          ModeBalanced,
		config:        config,
		lastCheck:     time.Now(),
		checkInterval: 5 * time.Second,
	}, nil
}

// Mode returns the currently active performance mode.
func (m *Monitor) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetMode sets the mode manually, pinning it against auto-battery
// switching until ResumeAutoMode is called (the set_performance_mode
// IPC request's effect, spec.md 6 and 9).
func (m *Monitor) SetMode(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	m.manualMode = true
}

// ResumeAutoMode re-enables battery-driven auto-switching.
func (m *Monitor) ResumeAutoMode() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manualMode = false
}

// ShouldCheck reports whether enough time has elapsed since the last
// Update call (a five-second cadence).
func (m *Monitor) ShouldCheck(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return now.Sub(m.lastCheck) >= m.checkInterval
}

// Update refreshes stats for our own process only, consults battery
// state, and (unless a mode was set manually) re-derives the
// performance mode from it.
func (m *Monitor) Update(ctx context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCheck = time.Now()

	memInfo, err := m.proc.MemoryInfoWithContext(ctx)
	var memBytes uint64
	if err == nil && memInfo != nil {
		memBytes = memInfo.RSS
	}

	cpuPercent, _ := m.proc.CPUPercentWithContext(ctx)

	onBattery, batteryPercent, hasBattery := checkBattery()

	if m.config.AutoBatteryMode && !m.manualMode {
		newMode := ModePerformance
		if onBattery {
			if hasBattery && batteryPercent < 20 {
				newMode = ModePowerSave
			} else {
				newMode = ModeBalanced
			}
		}
		m.mode = newMode
	}

	return Stats{
		MemoryBytes:    memBytes,
		CPUPercent:     cpuPercent,
		OnBattery:      onBattery,
		BatteryPercent: batteryPercent,
		HasBattery:     hasBattery,
	}, nil
}

// checkBattery reads /sys/class/power_supply/BAT0 directly, avoiding a
// upower D-Bus dependency.
func checkBattery() (onBattery bool, percent int, hasBattery bool) {
	const batteryPath = "/sys/class/power_supply/BAT0"

	statusBytes, err := os.ReadFile(batteryPath + "/status")
	if err == nil {
		onBattery = strings.EqualFold(strings.TrimSpace(string(statusBytes)), "discharging")
	}

	capacityBytes, err := os.ReadFile(batteryPath + "/capacity")
	if err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(string(capacityBytes))); err == nil {
			percent = v
			hasBattery = true
		}
	}
	return onBattery, percent, hasBattery
}

// IsOverMemoryLimit reports whether currentBytes exceeds the configured
// cap, when limits are enforced.
func (m *Monitor) IsOverMemoryLimit(currentBytes uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.config.EnforceMemoryLimits || m.config.MaxMemoryMB == 0 {
		return false
	}
	return currentBytes > uint64(m.config.MaxMemoryMB)*1024*1024
}

// CurrentMemoryLimitMB is the effective cap: the tighter of the
// configured ceiling and the active mode's own limit.
func (m *Monitor) CurrentMemoryLimitMB() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.config.MaxMemoryMB > 0 && m.config.MaxMemoryMB < m.mode.MemoryLimitMB() {
		return m.config.MaxMemoryMB
	}
	return m.mode.MemoryLimitMB()
}

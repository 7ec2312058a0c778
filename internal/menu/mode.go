// Package menu implements the settings menu: the mode selection cycle, the
// clamped parameter adjuster, and debounced button handling with long-press
// fast adjust. This package is pure logic: time is always injectable via
// time.Time parameters and there is no hardware access.
package menu

import "github.com/sweeney/signal-gate/internal/config"

// Mode selects which settings field the increase/decrease buttons act on.
// ModeMonitor is normal operation; the mode button cycles through the rest.
type Mode int

const (
	ModeMonitor Mode = iota
	ModeHighThreshold
	ModeLowThreshold
	ModeReadingsCount
	ModeKerchunk
	ModeHold
	ModeFragmentation
	ModeOutputLevel

	modeCount
)

// Next returns the following mode in the cycle, wrapping back to Monitor.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// String returns the mode's identifier for logs.
func (m Mode) String() string {
	switch m {
	case ModeMonitor:
		return "MONITOR"
	case ModeHighThreshold:
		return "HIGH_THRESHOLD"
	case ModeLowThreshold:
		return "LOW_THRESHOLD"
	case ModeReadingsCount:
		return "READINGS_COUNT"
	case ModeKerchunk:
		return "KERCHUNK"
	case ModeHold:
		return "HOLD"
	case ModeFragmentation:
		return "FRAGMENTATION"
	case ModeOutputLevel:
		return "OUTPUT_LEVEL"
	}
	return "UNKNOWN"
}

// Label returns the mode's display title.
func (m Mode) Label() string {
	if f, ok := fields[m]; ok {
		return f.label
	}
	return "Monitor"
}

// field maps a mode onto a Settings field: its display label, its bounds
// (which may depend on other fields), and its accessors.
type field struct {
	label string
	min   func(config.Settings) int
	max   func(config.Settings) int
	get   func(config.Settings) int
	set   func(*config.Settings, int)
}

func fixed(v int) func(config.Settings) int {
	return func(config.Settings) int { return v }
}

var fields = map[Mode]field{
	ModeHighThreshold: {
		label: "High threshold",
		min:   func(s config.Settings) int { return s.LowThreshold + config.ThresholdGap },
		max:   fixed(config.ThresholdMax),
		get:   func(s config.Settings) int { return s.HighThreshold },
		set:   func(s *config.Settings, v int) { s.HighThreshold = v },
	},
	ModeLowThreshold: {
		label: "Low threshold",
		min:   fixed(config.ThresholdMin),
		max:   func(s config.Settings) int { return s.HighThreshold - config.ThresholdGap },
		get:   func(s config.Settings) int { return s.LowThreshold },
		set:   func(s *config.Settings, v int) { s.LowThreshold = v },
	},
	ModeReadingsCount: {
		label: "Readings count",
		min:   fixed(config.ReadingsMin),
		max:   fixed(config.ReadingsMax),
		get:   func(s config.Settings) int { return s.ReadingsCount },
		set:   func(s *config.Settings, v int) { s.ReadingsCount = v },
	},
	ModeKerchunk: {
		label: "Kerchunk timer",
		min:   fixed(config.KerchunkMin),
		max:   fixed(config.KerchunkMax),
		get:   func(s config.Settings) int { return s.KerchunkTime },
		set:   func(s *config.Settings, v int) { s.KerchunkTime = v },
	},
	ModeHold: {
		label: "Hold time",
		min:   fixed(config.HoldMin),
		max:   fixed(config.HoldMax),
		get:   func(s config.Settings) int { return s.HoldTime },
		set:   func(s *config.Settings, v int) { s.HoldTime = v },
	},
	ModeFragmentation: {
		label: "Fragmentation time",
		min:   fixed(config.FragmentationMin),
		max:   fixed(config.FragmentationMax),
		get:   func(s config.Settings) int { return s.FragmentationTime },
		set:   func(s *config.Settings, v int) { s.FragmentationTime = v },
	},
	ModeOutputLevel: {
		// Two-value domain: 1 = active-high, 0 = active-low.
		label: "Output level",
		min:   fixed(0),
		max:   fixed(1),
		get: func(s config.Settings) int {
			if s.ActiveLow {
				return 0
			}
			return 1
		},
		set: func(s *config.Settings, v int) { s.ActiveLow = v == 0 },
	},
}

// Package config stores the tunable gate settings as a versioned JSON record.
// Any record whose version tag does not match SchemaVersion is replaced
// wholesale with the defaults; that is the normal first-boot path, not an
// error.
package config

import "time"

// SchemaVersion tags the persisted record. Bump it when the record layout
// changes; stored records with any other value are reset to defaults.
const SchemaVersion = 1

// Field bounds. The high and low thresholds must always stay at least
// ThresholdGap apart; the adjuster clamps against the opposite threshold and
// sanitize repairs stored records that violate it.
const (
	ThresholdMin = 0
	ThresholdMax = 5000
	ThresholdGap = 10

	ReadingsMin = 1
	ReadingsMax = 10

	KerchunkMin      = 0
	KerchunkMax      = 50
	HoldMin          = 0
	HoldMax          = 50
	FragmentationMin = 5
	FragmentationMax = 50
)

// TimerUnit is the duration of one count of the kerchunk, hold, and
// fragmentation timers.
const TimerUnit = 10 * time.Millisecond

// Settings is the persisted parameter record. It is mutated only through the
// menu adjuster and persisted on menu exit and on menu timeout.
type Settings struct {
	HighThreshold     int  `json:"high_threshold"`
	LowThreshold      int  `json:"low_threshold"`
	ReadingsCount     int  `json:"readings_count"`
	KerchunkTime      int  `json:"kerchunk_time"`
	HoldTime          int  `json:"hold_time"`
	FragmentationTime int  `json:"fragmentation_time"`
	ActiveLow         bool `json:"active_low"`
	Version           int  `json:"version"`
}

// Defaults returns the factory settings written on first boot or on a
// version mismatch.
func Defaults() Settings {
	return Settings{
		HighThreshold:     4000,
		LowThreshold:      3000,
		ReadingsCount:     3,
		KerchunkTime:      15,
		HoldTime:          10,
		FragmentationTime: 20,
		ActiveLow:         false,
		Version:           SchemaVersion,
	}
}

// KerchunkDuration returns the kerchunk guard as a duration.
func (s Settings) KerchunkDuration() time.Duration {
	return time.Duration(s.KerchunkTime) * TimerUnit
}

// HoldDuration returns the hold cool-down as a duration.
func (s Settings) HoldDuration() time.Duration {
	return time.Duration(s.HoldTime) * TimerUnit
}

// FragmentationDuration returns the fragmentation guard as a duration.
func (s Settings) FragmentationDuration() time.Duration {
	return time.Duration(s.FragmentationTime) * TimerUnit
}

// sanitize clamps every field to its bounds and repairs the threshold
// invariant. A torn write must never leave the in-memory record with the
// thresholds inverted, so Load runs every stored record through here.
func sanitize(s Settings) Settings {
	s.HighThreshold = clamp(s.HighThreshold, ThresholdMin, ThresholdMax)
	s.LowThreshold = clamp(s.LowThreshold, ThresholdMin, ThresholdMax)
	if s.HighThreshold < s.LowThreshold+ThresholdGap {
		s.LowThreshold = s.HighThreshold - ThresholdGap
		if s.LowThreshold < ThresholdMin {
			s.LowThreshold = ThresholdMin
			s.HighThreshold = ThresholdMin + ThresholdGap
		}
	}
	s.ReadingsCount = clamp(s.ReadingsCount, ReadingsMin, ReadingsMax)
	s.KerchunkTime = clamp(s.KerchunkTime, KerchunkMin, KerchunkMax)
	s.HoldTime = clamp(s.HoldTime, HoldMin, HoldMax)
	s.FragmentationTime = clamp(s.FragmentationTime, FragmentationMin, FragmentationMax)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package logic contains pure business logic for signal gating.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the gate state machine's current state.
type State string

const (
	// StateIdle: no sustained signal; output de-asserted.
	StateIdle State = "IDLE"
	// StateCheck: enough valid samples seen; waiting out the kerchunk guard.
	StateCheck State = "CHECK"
	// StateActive: genuine transmission; output asserted.
	StateActive State = "ACTIVE"
	// StateFragment: signal dipped below the low threshold; output still
	// asserted while the drop-out is within the fragmentation guard.
	StateFragment State = "FRAGMENT"
	// StateHold: transmission ended; cool-down before returning to idle.
	StateHold State = "HOLD"
)

// EventType represents a gate output transition event.
type EventType string

const (
	EventGateOpen  EventType = "GATE_OPEN"
	EventGateClose EventType = "GATE_CLOSE"
)

// Event represents an output transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      State
	To        State
	Sample    int
}

// Params holds the tuning values the gate consults on every step. This is a
// local copy of the persisted settings to avoid importing internal/config.
type Params struct {
	HighThreshold int
	LowThreshold  int
	ReadingsCount int
	Kerchunk      time.Duration
	Fragmentation time.Duration
	Hold          time.Duration
}

// Input represents a single sampled cycle.
type Input struct {
	// Sample is the rescaled signal magnitude, 0..5000.
	Sample int
	// Valid is the validity count over the configured window.
	Valid int
	Time  time.Time
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Opens  int
	Closes int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

package logic

import "time"

// Gate is the five-state decision machine that turns raw signal-strength
// samples into a debounced "transmission present" output.
//
// CHECK suppresses kerchunks: a momentary strong reading does not open the
// gate until it has persisted past the kerchunk guard. FRAGMENT tolerates
// brief drop-outs within an otherwise continuous transmission, re-opening
// instantly if the signal recovers. HOLD adds a cool-down before returning to
// idle so a signal flapping near the threshold re-opens directly instead of
// chattering through the full open sequence.
type Gate struct {
	state        State
	entered      time.Time
	outputActive bool

	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewGate creates a gate in the idle state. The startTime is used for
// calculating uptime in heartbeat events.
func NewGate(startTime time.Time) *Gate {
	return &Gate{
		state:         StateIdle,
		entered:       startTime,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Step advances the machine by one polled cycle and returns any output
// transition events. At most one state transition happens per step.
//
// Threshold comparisons are inclusive at the boundary favoring "open":
// >= for validity and high-threshold re-entry, < for low-threshold exit.
func (g *Gate) Step(p Params, in Input) []Event {
	elapsed := in.Time.Sub(g.entered)

	var events []Event

	switch g.state {
	case StateIdle:
		if in.Valid >= p.ReadingsCount {
			g.transition(StateCheck, in.Time)
		}

	case StateCheck:
		if in.Sample < p.LowThreshold {
			g.transition(StateIdle, in.Time)
		} else if elapsed >= p.Kerchunk {
			g.transition(StateActive, in.Time)
			g.outputActive = true
			events = append(events, g.event(EventGateOpen, StateCheck, in))
		}

	case StateActive:
		if in.Sample < p.LowThreshold {
			g.transition(StateFragment, in.Time)
		}

	case StateFragment:
		if in.Sample >= p.HighThreshold {
			g.transition(StateActive, in.Time)
		} else if elapsed >= p.Fragmentation {
			g.transition(StateHold, in.Time)
			g.outputActive = false
			events = append(events, g.event(EventGateClose, StateFragment, in))
		}

	case StateHold:
		if in.Sample >= p.HighThreshold {
			g.transition(StateActive, in.Time)
			g.outputActive = true
			events = append(events, g.event(EventGateOpen, StateHold, in))
		} else if elapsed >= p.Hold {
			g.transition(StateIdle, in.Time)
		}
	}

	for _, e := range events {
		switch e.Type {
		case EventGateOpen:
			g.eventCounts.Opens++
		case EventGateClose:
			g.eventCounts.Closes++
		}
	}

	return events
}

func (g *Gate) transition(to State, now time.Time) {
	g.state = to
	g.entered = now
}

func (g *Gate) event(t EventType, from State, in Input) Event {
	return Event{
		Timestamp: in.Time,
		Type:      t,
		From:      from,
		To:        g.state,
		Sample:    in.Sample,
	}
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// OutputActive reports whether the gate output should be asserted.
func (g *Gate) OutputActive() bool {
	return g.outputActive
}

// EnteredAt returns when the current state was entered.
func (g *Gate) EnteredAt() time.Time {
	return g.entered
}

// EventCountsSnapshot returns a copy of the accumulated event counts.
func (g *Gate) EventCountsSnapshot() EventCounts {
	return g.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (g *Gate) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(g.lastHeartbeat) < interval {
		return nil
	}

	g.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(g.startTime),
		Counts:    g.eventCounts,
	}
}

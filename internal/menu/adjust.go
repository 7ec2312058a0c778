package menu

import "github.com/sweeney/signal-gate/internal/config"

// Adjustment step magnitudes. A short press moves one step; a held button
// repeats with the fast step.
const (
	StepSingle = 1
	StepFast   = 10
)

// Adjust applies delta to the field selected by mode and clamps the result to
// the field's bounds. The threshold fields clamp against each other, so the
// high/low gap invariant holds after every call. Returns true if the stored
// value changed; Monitor mode has no adjustable field.
func Adjust(s *config.Settings, m Mode, delta int) bool {
	f, ok := fields[m]
	if !ok {
		return false
	}

	cur := f.get(*s)
	v := cur + delta
	if lo := f.min(*s); v < lo {
		v = lo
	}
	if hi := f.max(*s); v > hi {
		v = hi
	}

	if v == cur {
		return false
	}
	f.set(s, v)
	return true
}

// Value returns the displayed value for a mode, or 0 for Monitor.
func Value(s config.Settings, m Mode) int {
	f, ok := fields[m]
	if !ok {
		return 0
	}
	return f.get(s)
}

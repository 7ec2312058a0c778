package menu

import (
	"time"

	"github.com/sweeney/signal-gate/internal/config"
)

// Input timing. The controller expects to be stepped on the polling cadence
// (10ms or faster); all guards are elapsed-time comparisons against the
// injected clock.
const (
	// debounceSettle suppresses contact bounce: after any honored edge on a
	// button, further edges on that button are ignored for this long.
	debounceSettle = 50 * time.Millisecond
	// modeAdvanceGuard is the minimum gap between honored mode advances, so
	// one physical press cannot skip multiple menu entries.
	modeAdvanceGuard = 300 * time.Millisecond
	// fastAdjustDelay is how long a button must be held before auto-repeat
	// starts.
	fastAdjustDelay = 500 * time.Millisecond
	// fastAdjustEvery is the auto-repeat cadence, shared between the increase
	// and decrease buttons.
	fastAdjustEvery = 100 * time.Millisecond
)

// DefaultIdleTimeout is how long the menu stays in a settings mode with no
// button activity before reverting to Monitor and saving.
const DefaultIdleTimeout = 10 * time.Second

// Buttons holds the logical pressed levels observed in one poll.
type Buttons struct {
	Mode bool
	Up   bool
	Down bool
}

// Result reports the side effects one controller step asks the caller to
// perform.
type Result struct {
	// Save requests persisting the settings now: the menu was exited by a
	// mode advance back to Monitor, or it timed out.
	Save bool
	// Redrive requests re-driving the output pin to its idle level: the
	// polarity changed while the gate output is not asserted. A polarity
	// change while the output is asserted is deferred to the state machine's
	// next pin write instead, so an active transmission is never glitched.
	Redrive bool
	// Changed reports that a settings field was mutated this step.
	Changed bool
	// ModeChanged reports that the menu mode advanced or timed out.
	ModeChanged bool
}

// Controller tracks per-button edge state and the active menu mode.
// Everything here is ephemeral; only the settings it mutates persist.
type Controller struct {
	mode        Mode
	idleTimeout time.Duration

	last Buttons

	// Last honored edge per button, anchoring the settle window.
	modeEdgeAt time.Time
	upEdgeAt   time.Time
	downEdgeAt time.Time

	// Press onset, zero when released. Set on the press edge, cleared on the
	// release edge; fast adjust is only eligible while non-zero.
	upHeldSince   time.Time
	downHeldSince time.Time

	// Shared fast-adjust rate limiter for both buttons.
	lastFast time.Time

	lastActivity time.Time
}

// NewController creates a controller in Monitor mode.
func NewController(start time.Time) *Controller {
	return &Controller{
		idleTimeout:  DefaultIdleTimeout,
		lastActivity: start,
	}
}

// SetIdleTimeout overrides the menu inactivity timeout. Zero or negative
// disables it.
func (c *Controller) SetIdleTimeout(d time.Duration) {
	c.idleTimeout = d
}

// Mode returns the active menu mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Step processes one poll of button levels, mutating the settings through the
// adjuster as needed. outputAsserted tells the controller whether the gate is
// currently driving its output, which decides how a polarity change takes
// effect.
func (c *Controller) Step(s *config.Settings, b Buttons, outputAsserted bool, now time.Time) Result {
	var res Result

	prevActiveLow := s.ActiveLow

	c.stepMode(b, now, &res)
	c.stepAdjustButton(s, b.Up, c.last.Up, &c.upEdgeAt, &c.upHeldSince, StepSingle, now, &res)
	c.stepAdjustButton(s, b.Down, c.last.Down, &c.downEdgeAt, &c.downHeldSince, -StepSingle, now, &res)
	c.stepFastAdjust(s, now, &res)

	if s.ActiveLow != prevActiveLow && !outputAsserted {
		res.Redrive = true
	}

	if c.mode != ModeMonitor && c.idleTimeout > 0 && now.Sub(c.lastActivity) >= c.idleTimeout {
		c.mode = ModeMonitor
		res.Save = true
		res.ModeChanged = true
	}

	c.last = b
	return res
}

// stepMode handles the mode-advance button. One advance per physical press;
// leaving a settings mode requests a save.
func (c *Controller) stepMode(b Buttons, now time.Time, res *Result) {
	if !b.Mode || c.last.Mode {
		return
	}
	if !c.modeEdgeAt.IsZero() && now.Sub(c.modeEdgeAt) < modeAdvanceGuard {
		return
	}

	c.modeEdgeAt = now
	prev := c.mode
	c.mode = c.mode.Next()
	res.ModeChanged = true

	if prev != ModeMonitor {
		res.Save = true
	}
	if c.mode != ModeMonitor {
		c.lastActivity = now
	}
}

// stepAdjustButton handles press/release edges for one of the adjust buttons:
// a single step on the press edge, onset bookkeeping for fast adjust, and the
// settle window on both edges.
func (c *Controller) stepAdjustButton(s *config.Settings, pressed, wasPressed bool, edgeAt, heldSince *time.Time, delta int, now time.Time, res *Result) {
	if pressed && !wasPressed {
		if !edgeAt.IsZero() && now.Sub(*edgeAt) < debounceSettle {
			return
		}
		*edgeAt = now
		*heldSince = now
		c.lastActivity = now
		if Adjust(s, c.mode, delta) {
			res.Changed = true
		}
		return
	}

	if !pressed && wasPressed {
		*heldSince = time.Time{}
		*edgeAt = now
	}
}

// stepFastAdjust applies the auto-repeat step while a button has been held
// past the delay. Both buttons share one rate limiter, so alternating holds
// cannot exceed the combined cadence. If both are held, increase wins.
func (c *Controller) stepFastAdjust(s *config.Settings, now time.Time, res *Result) {
	upDue := !c.upHeldSince.IsZero() && now.Sub(c.upHeldSince) >= fastAdjustDelay
	downDue := !c.downHeldSince.IsZero() && now.Sub(c.downHeldSince) >= fastAdjustDelay
	if !upDue && !downDue {
		return
	}
	if !c.lastFast.IsZero() && now.Sub(c.lastFast) < fastAdjustEvery {
		return
	}

	c.lastFast = now
	c.lastActivity = now

	delta := StepFast
	if downDue && !upDue {
		delta = -StepFast
	}
	if Adjust(s, c.mode, delta) {
		res.Changed = true
	}
}

// Package gpio provides button input and output-pin drive with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// ButtonState holds the logical pressed levels of the three buttons.
type ButtonState struct {
	Mode bool
	Up   bool
	Down bool
}

// Reader reads raw button levels each poll. Debouncing happens downstream in
// the menu controller.
type Reader interface {
	// Read returns the logical pressed states. Raw lines are active-low:
	// raw 0 = pressed.
	Read() (ButtonState, error)

	// Close releases GPIO resources.
	Close() error
}

// Driver drives the gate output and status LED lines.
type Driver interface {
	// SetGate drives the gate output to the given physical level. The caller
	// is responsible for applying the configured polarity.
	SetGate(high bool) error

	// SetLED turns the status LED on or off.
	SetLED(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinMode = 17
	DefaultPinUp   = 27
	DefaultPinDown = 22
	DefaultPinGate = 23
	DefaultPinLED  = 24
)

// Pins names the five GPIO lines the daemon owns.
type Pins struct {
	Mode int
	Up   int
	Down int
	Gate int
	LED  int
}

// DefaultPins returns the default pin assignment.
func DefaultPins() Pins {
	return Pins{
		Mode: DefaultPinMode,
		Up:   DefaultPinUp,
		Down: DefaultPinDown,
		Gate: DefaultPinGate,
		LED:  DefaultPinLED,
	}
}

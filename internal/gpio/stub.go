//go:build !linux

package gpio

import "errors"

// RealIO is not available on non-Linux platforms.
type RealIO struct{}

// NewRealIO returns an error on non-Linux platforms.
func NewRealIO(p Pins) (*RealIO, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealIO) Read() (ButtonState, error) {
	return ButtonState{}, errors.New("gpio: not supported")
}

// SetGate is not implemented on non-Linux platforms.
func (r *RealIO) SetGate(high bool) error {
	return errors.New("gpio: not supported")
}

// SetLED is not implemented on non-Linux platforms.
func (r *RealIO) SetLED(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealIO) Close() error {
	return nil
}

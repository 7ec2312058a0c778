package gpio

import "errors"

// FakeIO is a test double: scripted button samples in, recorded output
// writes out. It implements both Reader and Driver.
type FakeIO struct {
	// Samples contains scripted button states to return.
	// Each call to Read() consumes the next sample.
	Samples []ButtonState

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error

	// GateError, if set, will be returned by SetGate()
	GateError error

	// GateLevels records every SetGate call in order.
	GateLevels []bool

	// LEDLevels records every SetLED call in order.
	LEDLevels []bool
}

// NewFakeIO creates a FakeIO with the given button samples.
func NewFakeIO(samples []ButtonState) *FakeIO {
	return &FakeIO{Samples: samples}
}

// Read returns the next scripted button state.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeIO) Read() (ButtonState, error) {
	if f.ReadError != nil {
		return ButtonState{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return ButtonState{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// SetGate records the driven gate level.
func (f *FakeIO) SetGate(high bool) error {
	if f.GateError != nil {
		return f.GateError
	}
	f.GateLevels = append(f.GateLevels, high)
	return nil
}

// SetLED records the driven LED level.
func (f *FakeIO) SetLED(on bool) error {
	f.LEDLevels = append(f.LEDLevels, on)
	return nil
}

// LastGate returns the most recently driven gate level.
// ok is false if SetGate was never called.
func (f *FakeIO) LastGate() (high, ok bool) {
	if len(f.GateLevels) == 0 {
		return false, false
	}
	return f.GateLevels[len(f.GateLevels)-1], true
}

// Close marks the fake as closed.
func (f *FakeIO) Close() error {
	f.Closed = true
	return nil
}

// Reset resets samples and recorded writes.
func (f *FakeIO) Reset() {
	f.index = 0
	f.Closed = false
	f.GateLevels = nil
	f.LEDLevels = nil
	f.ReadError = nil
	f.GateError = nil
}

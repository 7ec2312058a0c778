//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealIO owns the button, gate, and LED lines using the Linux GPIO character
// device. It implements both Reader and Driver.
type RealIO struct {
	chip *gpiocdev.Chip
	mode *gpiocdev.Line
	up   *gpiocdev.Line
	down *gpiocdev.Line
	gate *gpiocdev.Line
	led  *gpiocdev.Line
}

// NewRealIO requests the five lines on gpiochip0. Buttons are inputs with
// pull-up (pressed pulls the line to ground); gate and LED start driven low.
func NewRealIO(p Pins) (*RealIO, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealIO{chip: chip}

	request := func(dst **gpiocdev.Line, pin int, name string, opts ...gpiocdev.LineReqOption) error {
		line, err := chip.RequestLine(pin, opts...)
		if err != nil {
			r.Close()
			return fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		*dst = line
		return nil
	}

	if err := request(&r.mode, p.Mode, "mode button", gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		return nil, err
	}
	if err := request(&r.up, p.Up, "up button", gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		return nil, err
	}
	if err := request(&r.down, p.Down, "down button", gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		return nil, err
	}
	if err := request(&r.gate, p.Gate, "gate output", gpiocdev.AsOutput(0)); err != nil {
		return nil, err
	}
	if err := request(&r.led, p.LED, "led", gpiocdev.AsOutput(0)); err != nil {
		return nil, err
	}

	return r, nil
}

// Read returns the logical pressed states of the three buttons.
// Inverts raw levels: raw 0 (line pulled to ground) = pressed.
func (r *RealIO) Read() (ButtonState, error) {
	var bs ButtonState

	modeRaw, err := r.mode.Value()
	if err != nil {
		return bs, fmt.Errorf("read mode button: %w", err)
	}
	upRaw, err := r.up.Value()
	if err != nil {
		return bs, fmt.Errorf("read up button: %w", err)
	}
	downRaw, err := r.down.Value()
	if err != nil {
		return bs, fmt.Errorf("read down button: %w", err)
	}

	bs.Mode = modeRaw == 0
	bs.Up = upRaw == 0
	bs.Down = downRaw == 0
	return bs, nil
}

// SetGate drives the gate output line.
func (r *RealIO) SetGate(high bool) error {
	if err := r.gate.SetValue(level(high)); err != nil {
		return fmt.Errorf("set gate output: %w", err)
	}
	return nil
}

// SetLED drives the status LED line.
func (r *RealIO) SetLED(on bool) error {
	if err := r.led.SetValue(level(on)); err != nil {
		return fmt.Errorf("set led: %w", err)
	}
	return nil
}

func level(high bool) int {
	if high {
		return 1
	}
	return 0
}

// Close releases GPIO resources. Output lines are reconfigured back to inputs
// first so external hardware does not see a held level after shutdown.
func (r *RealIO) Close() error {
	var errs []error

	for _, in := range []*gpiocdev.Line{r.mode, r.up, r.down} {
		if in == nil {
			continue
		}
		if err := in.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close input line: %w", err))
		}
	}

	for _, out := range []*gpiocdev.Line{r.gate, r.led} {
		if out == nil {
			continue
		}
		if err := out.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure output line: %w", err))
		}
		if err := out.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close output line: %w", err))
		}
	}

	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

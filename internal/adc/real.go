//go:build linux

package adc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// RealReader reads raw samples from an IIO sysfs attribute and rescales them
// to the fixed span.
type RealReader struct {
	path   string
	maxRaw int
}

// NewRealReader creates a reader for the given IIO raw-value attribute.
// maxRaw is the converter's full-scale value (4095 for a 12-bit ADC).
func NewRealReader(path string, maxRaw int) (*RealReader, error) {
	if maxRaw <= 0 {
		return nil, fmt.Errorf("adc: full-scale value must be positive, got %d", maxRaw)
	}

	// Fail at startup rather than on the first poll.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("adc: open channel: %w", err)
	}

	return &RealReader{path: path, maxRaw: maxRaw}, nil
}

// Read returns one rescaled sample. Raw values outside [0, maxRaw] are
// clipped before scaling.
func (r *RealReader) Read() (int, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("adc: read %s: %w", r.path, err)
	}

	raw, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("adc: parse %s: %w", r.path, err)
	}

	if raw < 0 {
		raw = 0
	}
	if raw > r.maxRaw {
		raw = r.maxRaw
	}

	return raw * Span / r.maxRaw, nil
}

// Close releases the converter. Sysfs needs no teardown.
func (r *RealReader) Close() error {
	return nil
}

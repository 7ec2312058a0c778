// Package adc provides the analog signal-strength reading with hardware
// abstraction. The real implementation reads a Linux IIO sysfs channel.
// The fake implementation allows testing without hardware.
package adc

// Span is the fixed comparison span. Raw readings are rescaled into
// [0, Span] so the configured thresholds are independent of the converter's
// native resolution.
const Span = 5000

// DefaultPath is the raw-value attribute of the first IIO ADC channel.
const DefaultPath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"

// DefaultMaxRaw is the full-scale raw value of a 12-bit converter.
const DefaultMaxRaw = 4095

// Reader reads rescaled signal-strength samples.
type Reader interface {
	// Read returns one sample in [0, Span].
	Read() (int, error)

	// Close releases the converter.
	Close() error
}

package core

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is wrapped by every constructor that rejects a
// frequency, Q, ratio, time constant or sample rate.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterf returns an error wrapping ErrInvalidParameter.
func InvalidParameterf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// ValidateSampleRate rejects non-positive or non-finite sample rates.
func ValidateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return InvalidParameterf("sample rate must be positive and finite: %f", sampleRate)
	}

	return nil
}

// ValidateFrequency checks 0 < freq < sampleRate/2.
func ValidateFrequency(name string, freq, sampleRate float64) error {
	if err := ValidateSampleRate(sampleRate); err != nil {
		return err
	}

	if freq <= 0 || freq >= sampleRate/2 || !IsFinite(freq) {
		return InvalidParameterf("%s must be in (0, %g) Hz: %f", name, sampleRate/2, freq)
	}

	return nil
}

// ValidatePositive checks that v is finite and > 0.
func ValidatePositive(name string, v float64) error {
	if v <= 0 || !IsFinite(v) {
		return InvalidParameterf("%s must be positive and finite: %f", name, v)
	}

	return nil
}

// ValidateFinite checks that v is neither NaN nor Inf.
func ValidateFinite(name string, v float64) error {
	if !IsFinite(v) {
		return InvalidParameterf("%s must be finite: %f", name, v)
	}

	return nil
}

// ValidateUnit checks that v lies in [0, 1].
func ValidateUnit(name string, v float64) error {
	if v < 0 || v > 1 || !IsFinite(v) {
		return InvalidParameterf("%s must be in [0, 1]: %f", name, v)
	}

	return nil
}

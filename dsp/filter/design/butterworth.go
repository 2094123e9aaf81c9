package design

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
)

const maxButterworthOrder = 16

// ButterworthLowpass designs a lowpass Butterworth cascade of the given
// order. Odd orders end with a first-order section (B2 = A2 = 0).
func ButterworthLowpass(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if err := validateButterworth(freq, order, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, Lowpass(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderLowpass(freq, sampleRate))
	}

	return sections, nil
}

// ButterworthHighpass designs a highpass Butterworth cascade.
func ButterworthHighpass(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if err := validateButterworth(freq, order, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, Highpass(freq, butterworthQ(order, i), sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderHighpass(freq, sampleRate))
	}

	return sections, nil
}

// ButterworthBandpass designs a band-pass as a Butterworth highpass at low
// followed by a Butterworth lowpass at high, each of the given order.
func ButterworthBandpass(low, high float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if low >= high {
		return nil, core.InvalidParameterf("band-pass edges must satisfy low < high: %g >= %g", low, high)
	}

	hp, err := ButterworthHighpass(low, order, sampleRate)
	if err != nil {
		return nil, err
	}

	lp, err := ButterworthLowpass(high, order, sampleRate)
	if err != nil {
		return nil, err
	}

	return append(hp, lp...), nil
}

func validateButterworth(freq float64, order int, sampleRate float64) error {
	if order <= 0 || order > maxButterworthOrder {
		return core.InvalidParameterf("butterworth order must be in [1, %d]: %d", maxButterworthOrder, order)
	}
	return core.ValidateFrequency("butterworth cutoff", freq, sampleRate)
}

// butterworthQ returns the quality factor of biquad section index of an
// order-n Butterworth prototype.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

func firstOrderLowpass(freq, sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

func firstOrderHighpass(freq, sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

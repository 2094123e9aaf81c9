package loudness

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
)

// K-weighting stage parameters. The bilinear-transform form below
// reproduces the BS.1770-4 48 kHz coefficients exactly and extends them to
// any sample rate.
const (
	kShelfFreq = 1681.974450955533
	kShelfGain = 3.999843853973347
	kShelfQ    = 0.7071752369554196
	kShelfVb   = 0.4996667741545416
	kHpfFreq   = 38.13547087602444
	kHpfQ      = 0.5003270373238773
)

// kWeighting returns the pre-filter (high shelf) and RLB high-pass stages.
func kWeighting(sampleRate float64) (shelf, hpf biquad.Coefficients) {
	k := math.Tan(math.Pi * kShelfFreq / sampleRate)
	vh := math.Pow(10, kShelfGain/20)
	vb := math.Pow(vh, kShelfVb)
	a0 := 1 + k/kShelfQ + k*k

	shelf = biquad.Coefficients{
		B0: (vh + vb*k/kShelfQ + k*k) / a0,
		B1: 2 * (k*k - vh) / a0,
		B2: (vh - vb*k/kShelfQ + k*k) / a0,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/kShelfQ + k*k) / a0,
	}

	k = math.Tan(math.Pi * kHpfFreq / sampleRate)
	a0 = 1 + k/kHpfQ + k*k

	hpf = biquad.Coefficients{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/kHpfQ + k*k) / a0,
	}

	return shelf, hpf
}

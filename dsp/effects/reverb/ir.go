package reverb

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vocal/dsp/core"
)

// SyntheticIR returns an exponentially decaying noise burst that falls by
// 60 dB over rt60S seconds. The response is deterministic for a given seed
// and normalised to unit energy so that a fully wet mix keeps the input
// level roughly unchanged.
func SyntheticIR(sampleRate, rt60S float64, seed int64) ([]float64, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := core.ValidatePositive("rt60", rt60S); err != nil {
		return nil, err
	}

	n := max(int(math.Ceil(rt60S*sampleRate)), 1)
	ir := make([]float64, n)

	// -60 dB at n samples.
	decay := math.Log(1000) / float64(n)
	rng := rand.New(rand.NewSource(seed))
	for i := range ir {
		ir[i] = (2*rng.Float64() - 1) * math.Exp(-decay*float64(i))
	}

	return NormalizeIR(ir), nil
}

// NormalizeIR scales ir in place to unit energy and returns it. An all-zero
// response is returned unchanged.
func NormalizeIR(ir []float64) []float64 {
	energy := vecmath.DotProduct(ir, ir)
	if energy > 0 {
		vecmath.ScaleBlockInPlace(ir, 1/math.Sqrt(energy))
	}
	return ir
}

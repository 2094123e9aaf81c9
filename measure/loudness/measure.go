package loudness

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
)

// Integrated measures the gated integrated loudness of planar audio in one
// pass.
func Integrated(channels [][]float64, sampleRate float64) (float64, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return 0, err
	}
	if len(channels) == 0 {
		return 0, core.InvalidParameterf("no channels")
	}

	m := NewMeter(WithSampleRate(sampleRate), WithChannels(len(channels)))
	m.StartIntegration()
	m.ProcessPlanar(channels)

	return m.Integrated(), nil
}

// Downmix averages planar channels into a mono signal. The result has the
// length of the shortest channel.
func Downmix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		return append([]float64(nil), channels[0]...)
	}

	n := len(channels[0])
	for _, ch := range channels {
		n = min(n, len(ch))
	}

	out := make([]float64, n)
	scale := 1 / float64(len(channels))
	for _, ch := range channels {
		for i := range out {
			out[i] += ch[i] * scale
		}
	}

	return out
}

// RMS returns the root-mean-square level of x (0 for empty input).
func RMS(x []float64) float64 {
	return core.RMS(x)
}

// RMSDB returns RMS(x) in dBFS, floored at SilenceLUFS.
func RMSDB(x []float64) float64 {
	r := RMS(x)
	if r <= 0 {
		return SilenceLUFS
	}
	return math.Max(20*math.Log10(r), SilenceLUFS)
}

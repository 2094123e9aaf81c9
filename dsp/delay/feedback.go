package delay

import (
	"github.com/cwbudde/algo-vocal/dsp/core"
)

// SamplesFromTempo returns the delay length used by the vocal chain for a
// tempo in BPM: 60000/(bpm/2) milliseconds, i.e. two beats, truncated to
// whole samples.
func SamplesFromTempo(bpm, sampleRate float64) (int, error) {
	if err := core.ValidatePositive("tempo", bpm); err != nil {
		return 0, err
	}
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return 0, err
	}

	ms := 60000 / (bpm / 2)
	n := int(sampleRate * ms / 1000)
	if n < 1 {
		return 0, core.InvalidParameterf("tempo %g BPM gives a delay shorter than one sample", bpm)
	}

	return n, nil
}

// FeedbackDelay is a single-tap comb with feedback:
//
//	delayed[i] = in[i] + fb*delayed[i-N]
//	out[i]     = (1-mix)*in[i] + mix*delayed[i]
type FeedbackDelay struct {
	line     *Line
	feedback float64
	mix      float64
}

// NewFeedbackDelay builds a delay of delaySamples with feedback in [0, 1)
// and mix in [0, 1].
func NewFeedbackDelay(delaySamples int, feedback, mix float64) (*FeedbackDelay, error) {
	if feedback < 0 || feedback >= 1 || !core.IsFinite(feedback) {
		return nil, core.InvalidParameterf("delay feedback must be in [0, 1): %f", feedback)
	}
	if err := core.ValidateUnit("delay mix", mix); err != nil {
		return nil, err
	}

	line, err := New(delaySamples)
	if err != nil {
		return nil, err
	}

	return &FeedbackDelay{line: line, feedback: feedback, mix: mix}, nil
}

// DelaySamples returns the delay length.
func (f *FeedbackDelay) DelaySamples() int { return f.line.Len() }

// ProcessSample processes one sample.
func (f *FeedbackDelay) ProcessSample(x float64) float64 {
	delayed := x + f.feedback*f.line.Read(f.line.Len())
	f.line.Write(delayed)

	return (1-f.mix)*x + f.mix*delayed
}

// ProcessInPlace processes buf in place.
func (f *FeedbackDelay) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the recirculating history.
func (f *FeedbackDelay) Reset() { f.line.Reset() }

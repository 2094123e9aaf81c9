package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vocal/dsp/conv"
	"github.com/cwbudde/algo-vocal/dsp/core"
)

// DefaultBlockOrder is the partition size (2^order samples) used when the
// caller has no preference.
const DefaultBlockOrder = 9

// MixMode selects the dry/wet crossfade law.
type MixMode int

const (
	// MixLinear weights dry by (1-m) and wet by m.
	MixLinear MixMode = iota
	// MixEqualPower weights dry by cos(m*pi/2) and wet by sin(m*pi/2).
	MixEqualPower
)

func (m MixMode) String() string {
	switch m {
	case MixLinear:
		return "linear"
	case MixEqualPower:
		return "equal-power"
	default:
		return fmt.Sprintf("MixMode(%d)", int(m))
	}
}

// ConvolutionReverb applies a room impulse response via partitioned
// convolution to a mono signal.
//
// The convolution introduces no latency, so dry and wet stay aligned and
// the output does not depend on how the input is split into blocks.
type ConvolutionReverb struct {
	engine *conv.Partitioned
	mix    float64
	mode   MixMode
	wet    float64
	dry    float64
	buf    []float64 // scratch output buffer
}

// NewConvolutionReverb creates a convolution reverb from a mono IR.
// minBlockOrder sets the partition size 2^minBlockOrder; larger partitions
// move work from the per-sample head into the FFT stages.
// The initial mix is fully wet.
func NewConvolutionReverb(kernel []float64, minBlockOrder int) (*ConvolutionReverb, error) {
	if len(kernel) == 0 {
		return nil, fmt.Errorf("reverb: %w", conv.ErrEmptyKernel)
	}
	for i, v := range kernel {
		if !core.IsFinite(v) {
			return nil, core.InvalidParameterf("impulse response sample %d is not finite", i)
		}
	}

	engine, err := conv.NewPartitioned(kernel, minBlockOrder)
	if err != nil {
		return nil, fmt.Errorf("reverb: failed to create convolution engine: %w", err)
	}

	r := &ConvolutionReverb{engine: engine}
	if err := r.SetMix(1, MixLinear); err != nil {
		return nil, err
	}

	return r, nil
}

// SetMix sets the dry/wet balance. mix must lie in [0,1].
func (r *ConvolutionReverb) SetMix(mix float64, mode MixMode) error {
	if math.IsNaN(mix) || mix < 0 || mix > 1 {
		return core.InvalidParameterf("reverb mix must be in [0,1]: %f", mix)
	}

	switch mode {
	case MixLinear:
		r.dry, r.wet = 1-mix, mix
	case MixEqualPower:
		r.dry, r.wet = math.Cos(mix*math.Pi/2), math.Sin(mix*math.Pi/2)
	default:
		return core.InvalidParameterf("unknown mix mode %v", mode)
	}

	r.mix = mix
	r.mode = mode
	return nil
}

// Mix returns the current mix amount and law.
func (r *ConvolutionReverb) Mix() (float64, MixMode) { return r.mix, r.mode }

// Gains returns the effective dry and wet weights.
func (r *ConvolutionReverb) Gains() (dry, wet float64) { return r.dry, r.wet }

// ProcessInPlace applies reverb to block in place (mono).
// The output is: block[i] = dry*block[i] + wet*reverb(block[i]).
// The block length may vary between calls.
func (r *ConvolutionReverb) ProcessInPlace(block []float64) error {
	n := len(block)
	if n == 0 {
		return nil
	}

	if len(r.buf) < n {
		r.buf = make([]float64, n)
	}

	reverbOut := r.buf[:n]
	if err := r.engine.ProcessBlockTo(reverbOut, block); err != nil {
		return fmt.Errorf("reverb: convolution engine: %w", err)
	}

	dry, wet := r.dry, r.wet
	for i := range n {
		block[i] = dry*block[i] + wet*reverbOut[i]
	}

	return nil
}

// Reset clears convolution state.
func (r *ConvolutionReverb) Reset() {
	r.engine.Reset()
}

// Len returns the impulse response length in samples.
func (r *ConvolutionReverb) Len() int {
	return r.engine.KernelLen()
}

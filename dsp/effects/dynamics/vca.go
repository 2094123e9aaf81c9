package dynamics

import (
	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/envelope"
)

// VCACompressor is a hard-knee feedforward compressor.
//
// Per sample the instantaneous level (core.LevelDB) runs through the static
// gain computer, the resulting reduction in dB is smoothed (attack while the
// reduction grows, release while it shrinks) and the control gain
// 10^((makeup - reduction)/20) is applied.
type VCACompressor struct {
	params    Parameters
	smoother  *envelope.Smoother
	makeupLin float64

	metrics Metrics
}

// NewVCACompressor validates p and builds a compressor in its rest state.
func NewVCACompressor(sampleRate float64, p Parameters) (*VCACompressor, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sm, err := envelope.NewSmoother(p.AttackS, p.ReleaseS, sampleRate)
	if err != nil {
		return nil, err
	}

	return &VCACompressor{
		params:    p,
		smoother:  sm,
		makeupLin: core.DBToLinear(p.MakeupDB),
	}, nil
}

// Parameters returns the construction parameters.
func (c *VCACompressor) Parameters() Parameters { return c.params }

// ProcessSample compresses one sample.
func (c *VCACompressor) ProcessSample(x float64) float64 {
	level := core.LevelDB(x)
	reduction := c.smoother.Step(StaticReductionDB(level, c.params.ThresholdDB, c.params.Ratio))

	y := x * c.makeupLin * core.DBToLinear(-reduction)
	c.metrics.update(x, y, reduction)

	return y
}

// ProcessInPlace compresses buf in place.
func (c *VCACompressor) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// GainReductionDB returns the current smoothed reduction.
func (c *VCACompressor) GainReductionDB() float64 { return c.smoother.Value() }

// Metrics returns metering since the last reset.
func (c *VCACompressor) Metrics() Metrics { return c.metrics }

// Reset clears the ballistics and metering.
func (c *VCACompressor) Reset() {
	c.smoother.Reset(0)
	c.metrics = Metrics{}
}

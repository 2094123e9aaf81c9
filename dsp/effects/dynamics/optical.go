package dynamics

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/envelope"
)

// OpticalCompressor models a program-dependent optical leveller.
//
// A linear peak-hold envelope takes |x| immediately and decays by the
// release coefficient. Above the linear threshold T the
// computer asks for g = (T + (env - T)/ratio) / env, so the envelope itself
// comes out compressed by ratio. That gain passes through a second smoother
// whose attack applies while the gain falls, and is then scaled by the
// makeup gain.
type OpticalCompressor struct {
	params       Parameters
	thresholdLin float64
	makeupLin    float64

	env  *envelope.Smoother
	gain *envelope.Smoother

	metrics Metrics
}

// NewOpticalCompressor validates p and builds a compressor at unity gain.
func NewOpticalCompressor(sampleRate float64, p Parameters) (*OpticalCompressor, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	env, err := envelope.NewSmoother(p.AttackS, p.ReleaseS, sampleRate)
	if err != nil {
		return nil, err
	}

	gain, err := envelope.NewSmoother(p.AttackS, p.ReleaseS, sampleRate,
		envelope.WithDirection(envelope.AttackOnFall),
		envelope.WithInitialValue(1))
	if err != nil {
		return nil, err
	}

	return &OpticalCompressor{
		params:       p,
		thresholdLin: core.DBToLinear(p.ThresholdDB),
		makeupLin:    core.DBToLinear(p.MakeupDB),
		env:          env,
		gain:         gain,
	}, nil
}

// Parameters returns the construction parameters.
func (c *OpticalCompressor) Parameters() Parameters { return c.params }

// StaticGain returns the unsmoothed linear gain for an envelope value.
func (c *OpticalCompressor) StaticGain(env float64) float64 {
	if env <= c.thresholdLin || env <= 0 {
		return 1
	}

	g := (c.thresholdLin + (env-c.thresholdLin)/c.params.Ratio) / env

	return core.Clamp(g, 0, 1)
}

// ProcessSample compresses one sample.
func (c *OpticalCompressor) ProcessSample(x float64) float64 {
	env := c.env.Hold(math.Abs(x))
	g := c.gain.Step(c.StaticGain(env))

	y := x * g * c.makeupLin
	c.metrics.update(x, y, -core.LinearToDB(g))

	return y
}

// ProcessInPlace compresses buf in place.
func (c *OpticalCompressor) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Envelope returns the current linear peak envelope.
func (c *OpticalCompressor) Envelope() float64 { return c.env.Value() }

// GainReductionDB returns the current smoothed reduction in dB (>= 0).
func (c *OpticalCompressor) GainReductionDB() float64 {
	return -core.LinearToDB(c.gain.Value())
}

// Metrics returns metering since the last reset.
func (c *OpticalCompressor) Metrics() Metrics { return c.metrics }

// Reset returns the envelope to 0 and the gain to unity.
func (c *OpticalCompressor) Reset() {
	c.env.Reset(0)
	c.gain.ResetInitial()
	c.metrics = Metrics{}
}

package modulation

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/delay"
)

// minChorusDelaySamples keeps the Hermite neighbourhood inside the written
// history. Reads happen before the current sample is written.
const minChorusDelaySamples = 2

// ChorusParams configures a Chorus.
type ChorusParams struct {
	RateHz       float64 `json:"rate_hz"`
	DepthS       float64 `json:"depth_s"`
	CentreDelayS float64 `json:"centre_delay_s"`
	Feedback     float64 `json:"feedback"`
	Mix          float64 `json:"mix"`
	// Voices is the number of modulated taps. Zero selects one.
	Voices int `json:"voices,omitempty"`
}

// Validate checks the modulation ranges.
func (p ChorusParams) Validate() error {
	if err := core.ValidatePositive("chorus rate", p.RateHz); err != nil {
		return err
	}
	if err := core.ValidatePositive("chorus centre delay", p.CentreDelayS); err != nil {
		return err
	}
	if p.DepthS < 0 || p.DepthS > p.CentreDelayS || !core.IsFinite(p.DepthS) {
		return core.InvalidParameterf("chorus depth must be in [0, centre delay]: %f", p.DepthS)
	}
	if p.Feedback <= -1 || p.Feedback >= 1 || !core.IsFinite(p.Feedback) {
		return core.InvalidParameterf("chorus feedback must be in (-1, 1): %f", p.Feedback)
	}
	if err := core.ValidateUnit("chorus mix", p.Mix); err != nil {
		return err
	}
	if p.Voices < 0 {
		return core.InvalidParameterf("chorus voices must be >= 0: %d", p.Voices)
	}
	return nil
}

// Chorus is a modulated-delay chorus with feedback.
//
// Voice k reads the delay line at
//
//	d_k(t) = centre + depth * sin(phase + 2*pi*k/voices)
//
// The averaged voices form the wet signal, a fraction of which is fed back
// into the line.
type Chorus struct {
	params     ChorusParams
	sampleRate float64

	line        *delay.Line
	centre      float64
	depth       float64
	phase       float64
	phaseStep   float64
	voiceOffset float64
}

// NewChorus validates p and allocates the delay line.
func NewChorus(sampleRate float64, p ChorusParams) (*Chorus, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Voices == 0 {
		p.Voices = 1
	}

	centre := p.CentreDelayS * sampleRate
	depth := p.DepthS * sampleRate

	line, err := delay.New(int(math.Ceil(centre+depth)) + 4)
	if err != nil {
		return nil, err
	}

	return &Chorus{
		params:      p,
		sampleRate:  sampleRate,
		line:        line,
		centre:      centre,
		depth:       depth,
		phaseStep:   2 * math.Pi * p.RateHz / sampleRate,
		voiceOffset: 2 * math.Pi / float64(p.Voices),
	}, nil
}

// Params returns the effective parameters.
func (c *Chorus) Params() ChorusParams { return c.params }

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(x float64) float64 {
	wet := 0.0
	for k := range c.params.Voices {
		d := c.centre + c.depth*math.Sin(c.phase+float64(k)*c.voiceOffset)
		wet += c.line.ReadFractional(max(d, minChorusDelaySamples))
	}
	wet /= float64(c.params.Voices)

	c.line.Write(x + c.params.Feedback*wet)

	c.phase += c.phaseStep
	if c.phase >= 2*math.Pi {
		c.phase -= 2 * math.Pi
	}

	return (1-c.params.Mix)*x + c.params.Mix*wet
}

// ProcessInPlace applies chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Reset clears delay state and modulation phase.
func (c *Chorus) Reset() {
	c.line.Reset()
	c.phase = 0
}

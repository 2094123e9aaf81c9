package vocalchain

import (
	"fmt"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/delay"
	"github.com/cwbudde/algo-vocal/dsp/effects/dynamics"
	"github.com/cwbudde/algo-vocal/dsp/effects/eq"
	"github.com/cwbudde/algo-vocal/dsp/effects/modulation"
	"github.com/cwbudde/algo-vocal/dsp/effects/reverb"
)

// Channel is the full stage set for one audio channel. Its state is never
// shared with another Channel.
type Channel struct {
	inputGain eq.Gain
	deEssIn   *dynamics.DeEsser
	vca       *dynamics.VCACompressor
	preGain   eq.Gain
	resA      *eq.ResonantEQ
	resB      *eq.ResonantEQ
	dynEQ     *eq.DynamicEQ
	optical   *dynamics.OpticalCompressor
	shelf     *eq.ShelfSaturator
	postGain  eq.Gain
	deEssOut  *dynamics.DeEsser
	highShelf *eq.HighShelf
	wet       *wetBranch

	deEssBlock int
	mixA, mixB float64

	scratch []float64
	samples int
	clipped int
}

type wetBranch struct {
	chorus *modulation.Chorus
	delay  *delay.FeedbackDelay
	reverb *reverb.ConvolutionReverb
}

// ChannelMetrics reports per-channel metering since the last reset.
type ChannelMetrics struct {
	Samples int `json:"samples"`
	// Clipped counts samples changed by the final hard clip.
	Clipped      int                     `json:"clipped"`
	ShelfClipped int                     `json:"shelf_clipped"`
	DeEssIn      dynamics.DeEsserMetrics `json:"deess_in"`
	DeEssOut     dynamics.DeEsserMetrics `json:"deess_out"`
	VCA          dynamics.Metrics        `json:"vca"`
	Optical      dynamics.Metrics        `json:"optical"`
	ResonantA    [2]float64              `json:"resonant_a_db"`
	ResonantB    [2]float64              `json:"resonant_b_db"`
	DynamicEQ    [2]float64              `json:"dynamic_eq_db"`
}

// newChannel builds a fresh stage set. cfg must already be validated.
func newChannel(cfg Config, o options) (*Channel, error) {
	fs := o.SampleRate
	c := &Channel{
		inputGain:  eq.Gain{DB: cfg.InputGainDB},
		preGain:    eq.Gain{DB: cfg.PreEQGainDB},
		postGain:   eq.Gain{DB: cfg.PostEQGainDB},
		deEssBlock: cfg.DeEssBlock,
		mixA:       cfg.MixA,
		mixB:       cfg.MixB,
	}

	var err error
	if c.deEssIn, err = dynamics.NewDeEsser(fs, cfg.DeEssIn); err != nil {
		return nil, fmt.Errorf("de-ess in: %w", err)
	}
	if c.vca, err = dynamics.NewVCACompressor(fs, cfg.VCA); err != nil {
		return nil, fmt.Errorf("vca: %w", err)
	}
	if c.resA, err = eq.NewResonantEQ(fs, cfg.ResonantA); err != nil {
		return nil, fmt.Errorf("resonant eq a: %w", err)
	}
	if c.resB, err = eq.NewResonantEQ(fs, cfg.ResonantB); err != nil {
		return nil, fmt.Errorf("resonant eq b: %w", err)
	}
	if c.dynEQ, err = eq.NewDynamicEQ(fs, cfg.DynamicEQ); err != nil {
		return nil, fmt.Errorf("dynamic eq: %w", err)
	}
	if c.optical, err = dynamics.NewOpticalCompressor(fs, cfg.Optical); err != nil {
		return nil, fmt.Errorf("optical: %w", err)
	}
	if c.shelf, err = eq.NewShelfSaturator(fs, cfg.Shelf); err != nil {
		return nil, fmt.Errorf("shelf: %w", err)
	}
	if c.deEssOut, err = dynamics.NewDeEsser(fs, cfg.DeEssOut); err != nil {
		return nil, fmt.Errorf("de-ess out: %w", err)
	}
	hs := cfg.HighShelf
	if c.highShelf, err = eq.NewHighShelf(fs, hs.FreqHz, hs.GainDB, hs.Q); err != nil {
		return nil, fmt.Errorf("high shelf: %w", err)
	}

	if o.wet {
		if c.wet, err = newWetBranch(cfg.Wet, o); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func newWetBranch(w WetConfig, o options) (*wetBranch, error) {
	chorus, err := modulation.NewChorus(o.SampleRate, w.Chorus)
	if err != nil {
		return nil, fmt.Errorf("chorus: %w", err)
	}

	n, err := delay.SamplesFromTempo(o.tempo, o.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("delay: %w", err)
	}
	fd, err := delay.NewFeedbackDelay(n, w.DelayFeedback, w.DelayMix)
	if err != nil {
		return nil, fmt.Errorf("delay: %w", err)
	}

	rv, err := reverb.NewConvolutionReverb(o.ir, w.ReverbBlockOrder)
	if err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}
	if err := rv.SetMix(w.ReverbMix, w.ReverbMixMode); err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}

	return &wetBranch{chorus: chorus, delay: fd, reverb: rv}, nil
}

// ProcessInPlace runs block through every stage in order. Any block length
// is accepted; the output matches a single call on the concatenated input
// as long as every block length is a multiple of the de-esser block.
func (c *Channel) ProcessInPlace(block []float64) error {
	if len(block) == 0 {
		return nil
	}

	c.inputGain.ProcessInPlace(block)
	c.deEssIn.ProcessInPlace(block, c.deEssBlock)
	c.vca.ProcessInPlace(block)
	c.preGain.ProcessInPlace(block)

	wet := core.EnsureLen(c.scratch, len(block))
	c.scratch = wet

	copy(wet, block)
	c.resA.ProcessInPlace(wet)
	core.Mix(block, block, wet, c.mixA)

	copy(wet, block)
	c.resB.ProcessInPlace(wet)
	core.Mix(block, block, wet, c.mixB)

	c.dynEQ.ProcessInPlace(block)
	c.optical.ProcessInPlace(block)
	c.shelf.ProcessInPlace(block)
	c.postGain.ProcessInPlace(block)
	c.deEssOut.ProcessInPlace(block, c.deEssBlock)
	c.highShelf.ProcessInPlace(block)

	if c.wet != nil {
		c.wet.chorus.ProcessInPlace(block)
		c.wet.delay.ProcessInPlace(block)
		if err := c.wet.reverb.ProcessInPlace(block); err != nil {
			return err
		}
	}

	c.clipped += core.HardClip(block)
	c.samples += len(block)

	return nil
}

// Metrics returns the channel metering.
func (c *Channel) Metrics() ChannelMetrics {
	return ChannelMetrics{
		Samples:      c.samples,
		Clipped:      c.clipped,
		ShelfClipped: c.shelf.Clipped(),
		DeEssIn:      c.deEssIn.Metrics(),
		DeEssOut:     c.deEssOut.Metrics(),
		VCA:          c.vca.Metrics(),
		Optical:      c.optical.Metrics(),
		ResonantA:    c.resA.CurrentGainsDB(),
		ResonantB:    c.resB.CurrentGainsDB(),
		DynamicEQ:    c.dynEQ.CurrentGainsDB(),
	}
}

// Reset returns every stage to its initial state.
func (c *Channel) Reset() {
	c.deEssIn.Reset()
	c.vca.Reset()
	c.resA.Reset()
	c.resB.Reset()
	c.dynEQ.Reset()
	c.optical.Reset()
	c.shelf.Reset()
	c.deEssOut.Reset()
	c.highShelf.Reset()
	if c.wet != nil {
		c.wet.chorus.Reset()
		c.wet.delay.Reset()
		c.wet.reverb.Reset()
	}
	c.samples = 0
	c.clipped = 0
}

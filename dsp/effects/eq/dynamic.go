package eq

import (
	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
	"github.com/cwbudde/algo-vocal/dsp/filter/design"
)

// DynamicConfig configures a DynamicEQ.
type DynamicConfig struct {
	Resonant   ResonantConfig `json:"resonant"`
	HighpassHz float64        `json:"highpass_hz"`
	HighpassQ  float64        `json:"highpass_q"`
}

// Validate checks the peak pair and the high-pass corner.
func (c DynamicConfig) Validate(sampleRate float64) error {
	if err := c.Resonant.Validate(sampleRate); err != nil {
		return err
	}
	if err := core.ValidateFrequency("high-pass frequency", c.HighpassHz, sampleRate); err != nil {
		return err
	}
	return core.ValidatePositive("high-pass Q", c.HighpassQ)
}

// DynamicEQ is a smoothed two-band resonant EQ followed by a fixed RBJ
// high-pass that removes rumble.
type DynamicEQ struct {
	peaks    *ResonantEQ
	highpass *biquad.Section
}

// NewDynamicEQ validates cfg and builds the stage.
func NewDynamicEQ(sampleRate float64, cfg DynamicConfig) (*DynamicEQ, error) {
	peaks, err := NewResonantEQ(sampleRate, cfg.Resonant)
	if err != nil {
		return nil, err
	}

	hp, err := design.Design(design.KindHighPass, sampleRate, cfg.HighpassHz, cfg.HighpassQ, 0)
	if err != nil {
		return nil, err
	}

	return &DynamicEQ{peaks: peaks, highpass: biquad.NewSection(hp)}, nil
}

// CurrentGainsDB returns the smoothed peak gains.
func (d *DynamicEQ) CurrentGainsDB() [2]float64 { return d.peaks.CurrentGainsDB() }

// ProcessInPlace filters buf in place.
func (d *DynamicEQ) ProcessInPlace(buf []float64) {
	d.peaks.ProcessInPlace(buf)
	d.highpass.ProcessBlock(buf)
}

// Reset clears all state.
func (d *DynamicEQ) Reset() {
	d.peaks.Reset()
	d.highpass.Reset()
}

// Gain is a fixed gain stage.
type Gain struct {
	DB float64 `json:"db"`
}

// ProcessInPlace scales buf by g.DB.
func (g Gain) ProcessInPlace(buf []float64) {
	core.ApplyGainDB(buf, g.DB)
}

// HighShelf is a fixed RBJ high-shelf stage.
type HighShelf struct {
	section *biquad.Section
}

// NewHighShelf builds a high shelf at freq with gainDB and quality q.
func NewHighShelf(sampleRate, freq, gainDB, q float64) (*HighShelf, error) {
	c, err := design.Design(design.KindHighShelf, sampleRate, freq, q, gainDB)
	if err != nil {
		return nil, err
	}
	return &HighShelf{section: biquad.NewSection(c)}, nil
}

// ProcessInPlace filters buf in place.
func (h *HighShelf) ProcessInPlace(buf []float64) { h.section.ProcessBlock(buf) }

// Reset clears the filter state.
func (h *HighShelf) Reset() { h.section.Reset() }

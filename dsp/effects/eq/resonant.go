package eq

import (
	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/envelope"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
	"github.com/cwbudde/algo-vocal/dsp/filter/design"
)

// DefaultControlBlock is the number of samples between coefficient updates.
const DefaultControlBlock = 64

// ResonantConfig configures a two-band ResonantEQ.
type ResonantConfig struct {
	BandA    Band    `json:"band_a"`
	BandB    Band    `json:"band_b"`
	AttackS  float64 `json:"attack_s"`
	ReleaseS float64 `json:"release_s"`
	// Depth scales each band's target gain.
	Depth float64 `json:"depth"`
	// StartGainDB is the smoothed gain both bands start from.
	StartGainDB float64 `json:"start_gain_db"`
	// ControlBlock is the update interval in samples. Zero selects
	// DefaultControlBlock.
	ControlBlock int `json:"control_block,omitempty"`
}

// Validate checks both bands and the smoothing parameters.
func (c ResonantConfig) Validate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	if err := c.BandA.Validate(sampleRate); err != nil {
		return err
	}
	if err := c.BandB.Validate(sampleRate); err != nil {
		return err
	}
	if err := core.ValidatePositive("resonant EQ attack", c.AttackS); err != nil {
		return err
	}
	if err := core.ValidatePositive("resonant EQ release", c.ReleaseS); err != nil {
		return err
	}
	if c.Depth < 0 || !core.IsFinite(c.Depth) {
		return core.InvalidParameterf("resonant EQ depth must be >= 0: %f", c.Depth)
	}
	if err := core.ValidateFinite("resonant EQ start gain", c.StartGainDB); err != nil {
		return err
	}
	if c.ControlBlock < 0 {
		return core.InvalidParameterf("resonant EQ control block must be >= 0: %d", c.ControlBlock)
	}
	return nil
}

type smoothedBand struct {
	band     Band
	target   float64
	smoother *envelope.Smoother
	section  *biquad.Section
}

// ResonantEQ runs two peaking bands in series. Each band's gain glides from
// StartGainDB toward GainDB*Depth with attack/release smoothing.
//
// Coefficients are rebuilt once per control block from the smoothed gain,
// so the response is time-invariant inside a block. Filter taps survive the
// rebuild, and the block phase is counted across calls, which makes the
// output independent of how the input is chunked.
type ResonantEQ struct {
	cfg        ResonantConfig
	sampleRate float64
	bands      [2]smoothedBand
	phase      int
}

// NewResonantEQ validates cfg and builds an EQ at its start gain.
func NewResonantEQ(sampleRate float64, cfg ResonantConfig) (*ResonantEQ, error) {
	if err := cfg.Validate(sampleRate); err != nil {
		return nil, err
	}
	if cfg.ControlBlock == 0 {
		cfg.ControlBlock = DefaultControlBlock
	}

	e := &ResonantEQ{cfg: cfg, sampleRate: sampleRate}
	for i, b := range [2]Band{cfg.BandA, cfg.BandB} {
		sm, err := envelope.NewSmoother(cfg.AttackS, cfg.ReleaseS, sampleRate,
			envelope.WithInitialValue(cfg.StartGainDB))
		if err != nil {
			return nil, err
		}
		e.bands[i] = smoothedBand{
			band:     b,
			target:   b.GainDB * cfg.Depth,
			smoother: sm,
			section:  biquad.NewSection(biquad.Coefficients{}),
		}
	}

	return e, nil
}

// Config returns the effective configuration.
func (e *ResonantEQ) Config() ResonantConfig { return e.cfg }

// CurrentGainsDB returns the smoothed gain of both bands.
func (e *ResonantEQ) CurrentGainsDB() [2]float64 {
	return [2]float64{e.bands[0].smoother.Value(), e.bands[1].smoother.Value()}
}

// ProcessInPlace filters buf in place.
func (e *ResonantEQ) ProcessInPlace(buf []float64) {
	for len(buf) > 0 {
		if e.phase == 0 {
			e.updateCoefficients()
		}

		n := min(e.cfg.ControlBlock-e.phase, len(buf))
		block := buf[:n]
		for i := range e.bands {
			if !e.bands[i].band.Bypass {
				e.bands[i].section.ProcessBlock(block)
			}
		}

		e.phase = (e.phase + n) % e.cfg.ControlBlock
		buf = buf[n:]
	}
}

// updateCoefficients advances every active band by one control block and
// rebuilds its peaking filter from the smoothed gain.
func (e *ResonantEQ) updateCoefficients() {
	for i := range e.bands {
		b := &e.bands[i]
		if b.band.Bypass {
			continue
		}
		g := b.smoother.Advance(b.target, e.cfg.ControlBlock)
		b.section.SetCoefficients(design.Peak(b.band.FreqHz, g, b.band.Q, e.sampleRate))
	}
}

// Reset returns both bands to the start gain and clears filter state.
func (e *ResonantEQ) Reset() {
	for i := range e.bands {
		e.bands[i].smoother.ResetInitial()
		e.bands[i].section.Reset()
	}
	e.phase = 0
}

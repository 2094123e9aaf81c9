package eq

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
	"github.com/cwbudde/algo-vocal/dsp/filter/design"
)

// ShelfMode selects how the Butterworth branches are combined with the dry
// signal.
type ShelfMode int

const (
	// ShelfModeReference is the legacy behaviour, where the branch
	// gain is picked by comparing the sample value with the cutoff
	// frequency. For audio in [-1, 1] the low shelf therefore always adds
	// boost*lowpass(x) and the high shelf always adds cut*highpass(x).
	ShelfModeReference ShelfMode = iota
	// ShelfModeCorrected is a true shelf: y = x + (boost-1)*filtered(x).
	ShelfModeCorrected
)

func (m ShelfMode) String() string {
	switch m {
	case ShelfModeReference:
		return "reference"
	case ShelfModeCorrected:
		return "corrected"
	default:
		return "unknown"
	}
}

const defaultShelfOrder = 4

// ShelfConfig configures a ShelfSaturator. Boost and cut values are in dB.
type ShelfConfig struct {
	LowHz       float64   `json:"low_hz"`
	LowBoostDB  float64   `json:"low_boost_db"`
	LowCutDB    float64   `json:"low_cut_db"`
	HighHz      float64   `json:"high_hz"`
	HighBoostDB float64   `json:"high_boost_db"`
	HighCutDB   float64   `json:"high_cut_db"`
	Order       int       `json:"order"`
	Drive       float64   `json:"drive"`
	Mode        ShelfMode `json:"mode"`
}

// Validate checks the shelf frequencies, gains, order and drive.
func (c ShelfConfig) Validate(sampleRate float64) error {
	if err := core.ValidateFrequency("low shelf frequency", c.LowHz, sampleRate); err != nil {
		return err
	}
	if err := core.ValidateFrequency("high shelf frequency", c.HighHz, sampleRate); err != nil {
		return err
	}
	for _, g := range []struct {
		name string
		v    float64
	}{
		{"low boost", c.LowBoostDB},
		{"low cut", c.LowCutDB},
		{"high boost", c.HighBoostDB},
		{"high cut", c.HighCutDB},
	} {
		if err := core.ValidateFinite(g.name, g.v); err != nil {
			return err
		}
	}
	if c.Order < 0 || c.Order > 8 {
		return core.InvalidParameterf("shelf order must be in [1, 8]: %d", c.Order)
	}
	if c.Drive <= 0 || c.Drive > 1 || !core.IsFinite(c.Drive) {
		return core.InvalidParameterf("drive must be in (0, 1]: %f", c.Drive)
	}
	if c.Mode != ShelfModeReference && c.Mode != ShelfModeCorrected {
		return core.InvalidParameterf("unknown shelf mode %d", int(c.Mode))
	}
	return nil
}

// ShelfSaturator is a Pultec-style pair of Butterworth shelves followed by
// a hard clip to [-1, 1] and tanh soft saturation.
type ShelfSaturator struct {
	cfg ShelfConfig

	lowpass  *biquad.Chain
	highpass *biquad.Chain

	lowBoost, lowCut   float64
	highBoost, highCut float64

	scratch []float64
	clipped int
}

// NewShelfSaturator validates cfg and designs both Butterworth branches.
func NewShelfSaturator(sampleRate float64, cfg ShelfConfig) (*ShelfSaturator, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := cfg.Validate(sampleRate); err != nil {
		return nil, err
	}
	if cfg.Order == 0 {
		cfg.Order = defaultShelfOrder
	}

	lp, err := design.ButterworthLowpass(cfg.LowHz, cfg.Order, sampleRate)
	if err != nil {
		return nil, err
	}
	hp, err := design.ButterworthHighpass(cfg.HighHz, cfg.Order, sampleRate)
	if err != nil {
		return nil, err
	}

	return &ShelfSaturator{
		cfg:       cfg,
		lowpass:   biquad.NewChain(lp),
		highpass:  biquad.NewChain(hp),
		lowBoost:  core.DBToLinear(cfg.LowBoostDB),
		lowCut:    core.DBToLinear(cfg.LowCutDB),
		highBoost: core.DBToLinear(cfg.HighBoostDB),
		highCut:   core.DBToLinear(cfg.HighCutDB),
	}, nil
}

// Config returns the effective configuration.
func (s *ShelfSaturator) Config() ShelfConfig { return s.cfg }

// Clipped returns the number of samples limited before saturation since
// the last reset.
func (s *ShelfSaturator) Clipped() int { return s.clipped }

// ProcessInPlace runs both shelves and the saturator over buf.
func (s *ShelfSaturator) ProcessInPlace(buf []float64) {
	if len(buf) == 0 {
		return
	}
	s.scratch = core.EnsureLen(s.scratch, len(buf))

	s.lowpass.ProcessBlockTo(s.scratch, buf)
	s.combine(buf, s.scratch, s.cfg.LowHz, s.lowBoost, s.lowCut, false)

	s.highpass.ProcessBlockTo(s.scratch, buf)
	s.combine(buf, s.scratch, s.cfg.HighHz, s.highBoost, s.highCut, true)

	s.clipped += core.HardClip(buf)
	for i, x := range buf {
		buf[i] = math.Tanh(s.cfg.Drive * x)
	}
}

// combine adds the weighted filtered branch to buf.
func (s *ShelfSaturator) combine(buf, filtered []float64, cutoff, boost, cut float64, high bool) {
	if s.cfg.Mode == ShelfModeCorrected {
		w := boost - 1
		for i, f := range filtered {
			buf[i] += w * f
		}
		return
	}

	for i, f := range filtered {
		// The comparison is between amplitude and frequency; see
		// ShelfModeReference.
		above := buf[i] > cutoff
		if above == high {
			buf[i] += f * boost
		} else {
			buf[i] += f * cut
		}
	}
}

// Reset clears filter state and the clip counter.
func (s *ShelfSaturator) Reset() {
	s.lowpass.Reset()
	s.highpass.Reset()
	s.clipped = 0
}

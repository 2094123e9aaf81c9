package vocalchain

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/effects/dynamics"
	"github.com/cwbudde/algo-vocal/dsp/effects/eq"
	"github.com/cwbudde/algo-vocal/dsp/effects/modulation"
	"github.com/cwbudde/algo-vocal/dsp/effects/reverb"
)

// DefaultDeEssBlock is the de-esser decision block in samples.
const DefaultDeEssBlock = 4096

// Config holds every parameter of the chain. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	InputGainDB float64 `json:"input_gain_db"`

	DeEssIn    dynamics.DeEsserParams `json:"deess_in"`
	DeEssOut   dynamics.DeEsserParams `json:"deess_out"`
	DeEssBlock int                    `json:"deess_block"`

	VCA         dynamics.Parameters `json:"vca"`
	PreEQGainDB float64             `json:"pre_eq_gain_db"`

	ResonantA eq.ResonantConfig `json:"resonant_a"`
	MixA      float64           `json:"mix_a"`
	ResonantB eq.ResonantConfig `json:"resonant_b"`
	MixB      float64           `json:"mix_b"`

	DynamicEQ eq.DynamicConfig    `json:"dynamic_eq"`
	Optical   dynamics.Parameters `json:"optical"`
	Shelf     eq.ShelfConfig      `json:"shelf"`

	PostEQGainDB float64         `json:"post_eq_gain_db"`
	HighShelf    HighShelfConfig `json:"high_shelf"`

	Wet WetConfig `json:"wet"`
}

// HighShelfConfig configures the final RBJ high shelf.
type HighShelfConfig struct {
	FreqHz float64 `json:"freq_hz"`
	GainDB float64 `json:"gain_db"`
	Q      float64 `json:"q"`
}

// WetConfig configures the optional chorus, delay and reverb branch.
type WetConfig struct {
	Chorus modulation.ChorusParams `json:"chorus"`

	DelayFeedback float64 `json:"delay_feedback"`
	DelayMix      float64 `json:"delay_mix"`

	ReverbMix     float64        `json:"reverb_mix"`
	ReverbMixMode reverb.MixMode `json:"reverb_mix_mode"`
	// ReverbRT60S sets the decay of the synthetic impulse response used
	// when none is supplied.
	ReverbRT60S      float64 `json:"reverb_rt60_s"`
	ReverbBlockOrder int     `json:"reverb_block_order"`
}

// DefaultConfig returns the golden-vocal preset.
func DefaultConfig() Config {
	return Config{
		InputGainDB: 0,

		DeEssIn: dynamics.DeEsserParams{
			LowHz: 6210, HighHz: 20000,
			ThresholdDB: -36, ReductionDB: 6, RangeDB: 5.3,
			Order: 4,
		},
		DeEssOut: dynamics.DeEsserParams{
			LowHz: 6210, HighHz: 20000,
			ThresholdDB: -33.84, ReductionDB: 6, RangeDB: 6.5,
			Order: 4,
		},
		DeEssBlock: DefaultDeEssBlock,

		VCA: dynamics.Parameters{
			ThresholdDB: -12, Ratio: 2.5,
			AttackS: 0.02, ReleaseS: 0.06,
			MakeupDB: 5,
		},
		PreEQGainDB: -6,

		ResonantA: eq.ResonantConfig{
			BandA:    eq.Band{FreqHz: 1100, Q: 1, GainDB: 8.7},
			BandB:    eq.Band{FreqHz: 4100, Q: 1, GainDB: 11},
			AttackS:  0.01,
			ReleaseS: 6.0,
			Depth:    1,
		},
		MixA: 0.4,
		ResonantB: eq.ResonantConfig{
			BandA:    eq.Band{FreqHz: 588, Q: 10, GainDB: 12},
			BandB:    eq.Band{Q: 1, Bypass: true},
			AttackS:  1.0,
			ReleaseS: 0.01,
			Depth:    1,
		},
		MixB: 0.47,

		DynamicEQ: eq.DynamicConfig{
			Resonant: eq.ResonantConfig{
				BandA:    eq.Band{FreqHz: 550, Q: 2.459, GainDB: -0.5},
				BandB:    eq.Band{FreqHz: 1500, Q: 1, GainDB: -1.4},
				AttackS:  0.01,
				ReleaseS: 0.1,
				Depth:    1,
			},
			HighpassHz: 100,
			HighpassQ:  1 / math.Sqrt2,
		},

		Optical: dynamics.Parameters{
			ThresholdDB: -15, Ratio: 4,
			AttackS: 0.005, ReleaseS: 0.2,
			MakeupDB: 3,
		},

		Shelf: eq.ShelfConfig{
			LowHz: 100, LowBoostDB: 1, LowCutDB: 1,
			HighHz: 16000, HighBoostDB: 3.5, HighCutDB: 0.8,
			Order: 4,
			Drive: 0.2,
			Mode:  eq.ShelfModeReference,
		},

		PostEQGainDB: 6,
		HighShelf:    HighShelfConfig{FreqHz: 3480, GainDB: 3, Q: 1 / math.Sqrt2},

		Wet: WetConfig{
			Chorus: modulation.ChorusParams{
				RateHz:       5,
				DepthS:       0.002,
				CentreDelayS: 0.01,
				Feedback:     0.2,
				Mix:          0.15,
			},
			DelayFeedback:    0.2,
			DelayMix:         0.3,
			ReverbMix:        0.35,
			ReverbMixMode:    reverb.MixLinear,
			ReverbRT60S:      1.5,
			ReverbBlockOrder: reverb.DefaultBlockOrder,
		},
	}
}

// topEdgeFraction places an adapted top band edge below Nyquist.
const topEdgeFraction = 0.9

// AdaptTo returns a copy of c for sampleRate. Band edges that stand for
// "top of the spectrum" (the de-esser high edges and the shelf high edge)
// are moved to 0.9 of Nyquist when they sit at or above it, so the preset
// works on low-rate takes. Every other parameter is left alone and still
// goes through Validate.
func (c Config) AdaptTo(sampleRate float64) Config {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return c
	}

	nyquist := sampleRate / 2
	limit := func(f float64) float64 {
		if f >= nyquist {
			return topEdgeFraction * nyquist
		}
		return f
	}

	c.DeEssIn.HighHz = limit(c.DeEssIn.HighHz)
	c.DeEssOut.HighHz = limit(c.DeEssOut.HighHz)
	c.Shelf.HighHz = limit(c.Shelf.HighHz)

	return c
}

// Validate checks every stage parameter against sampleRate. It reports the
// first error found, prefixed with the stage name.
func (c Config) Validate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}

	checks := []struct {
		stage string
		err   error
	}{
		{"input gain", core.ValidateFinite("gain", c.InputGainDB)},
		{"de-ess in", c.DeEssIn.Validate(sampleRate)},
		{"de-ess out", c.DeEssOut.Validate(sampleRate)},
		{"de-ess block", validateBlock(c.DeEssBlock)},
		{"vca", c.VCA.Validate()},
		{"pre-eq gain", core.ValidateFinite("gain", c.PreEQGainDB)},
		{"resonant eq a", c.ResonantA.Validate(sampleRate)},
		{"mix a", core.ValidateUnit("mix", c.MixA)},
		{"resonant eq b", c.ResonantB.Validate(sampleRate)},
		{"mix b", core.ValidateUnit("mix", c.MixB)},
		{"dynamic eq", c.DynamicEQ.Validate(sampleRate)},
		{"optical", c.Optical.Validate()},
		{"shelf", c.Shelf.Validate(sampleRate)},
		{"post-eq gain", core.ValidateFinite("gain", c.PostEQGainDB)},
		{"high shelf", c.HighShelf.Validate(sampleRate)},
		{"wet", c.Wet.Validate()},
	}

	for _, chk := range checks {
		if chk.err != nil {
			return fmt.Errorf("%s: %w", chk.stage, chk.err)
		}
	}

	return nil
}

func validateBlock(n int) error {
	if n <= 0 {
		return core.InvalidParameterf("block size must be > 0: %d", n)
	}
	return nil
}

// Validate checks the shelf frequency, gain and Q.
func (h HighShelfConfig) Validate(sampleRate float64) error {
	if err := core.ValidateFrequency("high shelf frequency", h.FreqHz, sampleRate); err != nil {
		return err
	}
	if err := core.ValidateFinite("high shelf gain", h.GainDB); err != nil {
		return err
	}
	return core.ValidatePositive("high shelf Q", h.Q)
}

// Validate checks the wet branch parameters. Sample-rate dependent chorus
// limits are checked when the chorus is built.
func (w WetConfig) Validate() error {
	if err := w.Chorus.Validate(); err != nil {
		return err
	}
	if w.DelayFeedback < 0 || w.DelayFeedback >= 1 || !core.IsFinite(w.DelayFeedback) {
		return core.InvalidParameterf("delay feedback must be in [0, 1): %f", w.DelayFeedback)
	}
	if err := core.ValidateUnit("delay mix", w.DelayMix); err != nil {
		return err
	}
	if err := core.ValidateUnit("reverb mix", w.ReverbMix); err != nil {
		return err
	}
	if w.ReverbMixMode != reverb.MixLinear && w.ReverbMixMode != reverb.MixEqualPower {
		return core.InvalidParameterf("unknown reverb mix mode %v", w.ReverbMixMode)
	}
	return core.ValidatePositive("reverb rt60", w.ReverbRT60S)
}

// LoadConfig reads a JSON preset. Fields absent from the document keep
// their DefaultConfig values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("vocalchain: decode preset: %w", err)
	}

	return cfg, nil
}

// LoadConfigFile reads a JSON preset from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("vocalchain: open preset: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// WriteConfig encodes cfg as indented JSON.
func WriteConfig(w io.Writer, cfg Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("vocalchain: encode preset: %w", err)
	}
	return nil
}

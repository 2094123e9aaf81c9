package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-vocal/dsp/core"
)

// Parameters configures a compressor.
type Parameters struct {
	ThresholdDB float64 `json:"threshold_db"`
	Ratio       float64 `json:"ratio"`
	AttackS     float64 `json:"attack_s"`
	ReleaseS    float64 `json:"release_s"`
	MakeupDB    float64 `json:"makeup_db"`
}

// Validate checks ratio >= 1, positive time constants and finite levels.
// Ratios below 1 would mean expansion, which these compressors do not do.
func (p Parameters) Validate() error {
	if err := core.ValidateFinite("threshold", p.ThresholdDB); err != nil {
		return err
	}
	if p.Ratio < 1 || !core.IsFinite(p.Ratio) {
		return core.InvalidParameterf("ratio must be >= 1: %f", p.Ratio)
	}
	if err := core.ValidatePositive("attack time", p.AttackS); err != nil {
		return err
	}
	if err := core.ValidatePositive("release time", p.ReleaseS); err != nil {
		return err
	}
	return core.ValidateFinite("makeup gain", p.MakeupDB)
}

func (p Parameters) String() string {
	return fmt.Sprintf("threshold=%.2fdB ratio=%.2f:1 attack=%gs release=%gs makeup=%.2fdB",
		p.ThresholdDB, p.Ratio, p.AttackS, p.ReleaseS, p.MakeupDB)
}

// StaticReductionDB is the hard-knee gain computer: the reduction in dB for
// a level at or above threshold is (level - threshold)*(1 - 1/ratio), and
// zero below.
func StaticReductionDB(levelDB, thresholdDB, ratio float64) float64 {
	if levelDB < thresholdDB {
		return 0
	}

	target := thresholdDB + (levelDB-thresholdDB)/ratio

	return levelDB - target
}

// Metrics holds compressor metering since the last reset.
type Metrics struct {
	InputPeak      float64 // Maximum |input|
	OutputPeak     float64 // Maximum |output|
	MaxReductionDB float64 // Largest smoothed gain reduction
}

func (m *Metrics) update(in, out, reductionDB float64) {
	if in < 0 {
		in = -in
	}
	if out < 0 {
		out = -out
	}
	if in > m.InputPeak {
		m.InputPeak = in
	}
	if out > m.OutputPeak {
		m.OutputPeak = out
	}
	if reductionDB > m.MaxReductionDB {
		m.MaxReductionDB = reductionDB
	}
}

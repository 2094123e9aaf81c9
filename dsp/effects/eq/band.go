package eq

import (
	"github.com/cwbudde/algo-vocal/dsp/core"
)

// Band is one peaking band of a resonant EQ.
type Band struct {
	FreqHz float64 `json:"freq_hz"`
	Q      float64 `json:"q"`
	GainDB float64 `json:"gain_db"`
	// Bypass removes the band from the signal path. Frequency and Q are not
	// checked for a bypassed band.
	Bypass bool `json:"bypass,omitempty"`
}

// Validate checks 0 < FreqHz < sampleRate/2, Q > 0 and a finite gain.
func (b Band) Validate(sampleRate float64) error {
	if b.Bypass {
		return nil
	}
	if err := core.ValidateFrequency("band frequency", b.FreqHz, sampleRate); err != nil {
		return err
	}
	if err := core.ValidatePositive("band Q", b.Q); err != nil {
		return err
	}
	return core.ValidateFinite("band gain", b.GainDB)
}

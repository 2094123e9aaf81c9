package design

import (
	"fmt"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
)

// Kind selects the biquad response shape built by [Design].
type Kind int

const (
	KindPeaking Kind = iota
	KindLowShelf
	KindHighShelf
	KindBandPass
	KindHighPass
	KindLowPass
)

var kindNames = [...]string{
	KindPeaking:   "peaking",
	KindLowShelf:  "low-shelf",
	KindHighShelf: "high-shelf",
	KindBandPass:  "band-pass",
	KindHighPass:  "high-pass",
	KindLowPass:   "low-pass",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Design builds checked coefficients for kind. gainDB is ignored by the
// pass and band-pass kinds.
//
// Unlike the unchecked designers it rejects freq outside (0, fs/2), q <= 0
// and non-finite gain with an error wrapping [core.ErrInvalidParameter].
func Design(kind Kind, sampleRate, freq, q, gainDB float64) (biquad.Coefficients, error) {
	if err := core.ValidateFrequency(kind.String()+" frequency", freq, sampleRate); err != nil {
		return biquad.Coefficients{}, err
	}
	if err := core.ValidatePositive(kind.String()+" Q", q); err != nil {
		return biquad.Coefficients{}, err
	}
	if err := core.ValidateFinite(kind.String()+" gain", gainDB); err != nil {
		return biquad.Coefficients{}, err
	}

	var c biquad.Coefficients
	switch kind {
	case KindPeaking:
		c = Peak(freq, gainDB, q, sampleRate)
	case KindLowShelf:
		c = LowShelf(freq, gainDB, q, sampleRate)
	case KindHighShelf:
		c = HighShelf(freq, gainDB, q, sampleRate)
	case KindBandPass:
		c = Bandpass(freq, q, sampleRate)
	case KindHighPass:
		c = Highpass(freq, q, sampleRate)
	case KindLowPass:
		c = Lowpass(freq, q, sampleRate)
	default:
		return biquad.Coefficients{}, core.InvalidParameterf("unknown filter kind %d", int(kind))
	}

	return c, nil
}

package design

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// cookbook holds the RBJ intermediates shared by every shape:
// cos(w0), alpha = sin(w0)/(2Q) and A = 10^(gain/40).
type cookbook struct {
	cw, alpha, a float64
}

// prototype returns ok=false for a frequency outside (0, fs/2) or an
// invalid sample rate. A non-positive or non-finite q falls back to
// 1/sqrt(2).
func prototype(freq, q, gainDB, sampleRate float64) (cookbook, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return cookbook{}, false
	}
	if !(freq > 0 && freq < sampleRate/2) {
		return cookbook{}, false
	}
	if !(q > 0) || math.IsInf(q, 0) {
		q = defaultQ
	}

	w0 := 2 * math.Pi * freq / sampleRate
	return cookbook{
		cw:    math.Cos(w0),
		alpha: math.Sin(w0) / (2 * q),
		a:     math.Pow(10, gainDB/40),
	}, true
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}
	inv := 1 / a0
	return biquad.Coefficients{B0: b0 * inv, B1: b1 * inv, B2: b2 * inv, A1: a1 * inv, A2: a2 * inv}
}

// Lowpass is the RBJ second-order lowpass. Invalid input yields zero
// coefficients; use [Design] for checked construction.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, 0, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	b1 := 1 - p.cw
	return normalize(b1/2, b1, b1/2, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Highpass is the RBJ second-order highpass.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, 0, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	b0 := (1 + p.cw) / 2
	return normalize(b0, -2*b0, b0, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Bandpass has constant 0 dB peak gain.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, 0, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return normalize(p.alpha, 0, -p.alpha, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Peak is a peaking bell with gainDB at freq.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prototype(freq, q, gainDB, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return normalize(
		1+p.alpha*p.a, -2*p.cw, 1-p.alpha*p.a,
		1+p.alpha/p.a, -2*p.cw, 1-p.alpha/p.a,
	)
}

// LowShelf boosts or cuts below freq by gainDB.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return shelf(freq, gainDB, q, sampleRate, -1)
}

// HighShelf boosts or cuts above freq by gainDB.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return shelf(freq, gainDB, q, sampleRate, 1)
}

// shelf implements both cookbook shelves; s is +1 for high and -1 for low.
func shelf(freq, gainDB, q, sampleRate, s float64) biquad.Coefficients {
	p, ok := prototype(freq, q, gainDB, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a := p.a
	beta := 2 * math.Sqrt(a) * p.alpha
	up := (a + 1) + s*(a-1)*p.cw
	dn := (a + 1) - s*(a-1)*p.cw

	return normalize(
		a*(up+beta), -2*s*a*((a-1)+s*(a+1)*p.cw), a*(up-beta),
		dn+beta, 2*s*((a-1)-s*(a+1)*p.cw), dn-beta,
	)
}

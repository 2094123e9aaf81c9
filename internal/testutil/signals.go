// Package testutil holds deterministic signals and assertions shared by the
// package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates amplitude*sin(2*pi*f*n/fs) for n in [0, length).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at pos. Out-of-range positions give silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Vocal generates a crude sung-vowel test signal: a 220 Hz fundamental with
// three decaying harmonics, plus bursts of first-differenced noise every
// quarter second that stand in for sibilants.
func Vocal(sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(1))

	burstPeriod := int(sampleRate / 4)
	burstLen := burstPeriod / 5
	prevNoise := 0.0

	for i := range out {
		t := float64(i) / sampleRate
		v := 0.0
		for h := 1; h <= 4; h++ {
			v += math.Sin(2*math.Pi*220*float64(h)*t) / float64(h*h)
		}
		v *= 0.5

		noise := rng.Float64()*2 - 1
		if burstPeriod > 0 && i%burstPeriod < burstLen {
			v += 0.4 * (noise - prevNoise)
		}
		prevNoise = noise

		out[i] = amplitude * v
	}

	return out
}

// Concat joins slices into a fresh slice.
func Concat(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ProcessChunked copies in and runs process over consecutive chunks of the
// copy. The chunk sizes cycle through sizes; a non-positive size is treated
// as 1.
func ProcessChunked(in []float64, sizes []int, process func(block []float64)) []float64 {
	out := append([]float64(nil), in...)
	if len(sizes) == 0 {
		process(out)
		return out
	}

	for start, k := 0, 0; start < len(out); k++ {
		size := max(sizes[k%len(sizes)], 1)
		end := min(start+size, len(out))
		process(out[start:end])
		start = end
	}

	return out
}

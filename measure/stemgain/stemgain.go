// Package stemgain matches the level of a processed stem to a reference
// master.
//
// Both signals are downmixed to mono and measured for integrated loudness
// and RMS. The suggested adjustment blends the loudness difference (70 %)
// with the RMS difference in dB (30 %) and is limited to [MinGainDB,
// MaxGainDB].
package stemgain

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/measure/loudness"
)

const (
	// MinGainDB and MaxGainDB bound a suggested adjustment.
	MinGainDB = -6.0
	MaxGainDB = 3.0

	// HeadroomGain is applied on top of every adjustment (about -3 dB).
	HeadroomGain = 0.707

	lufsWeight = 0.7
	rmsWeight  = 0.3
	rmsFloor   = 1e-6
)

// Measurement describes the level of one signal.
type Measurement struct {
	LUFS float64 `json:"lufs"`
	RMS  float64 `json:"rms"`
}

// Score is the blended reference level 0.7*LUFS + 0.3*RMS.
func (m Measurement) Score() float64 {
	return lufsWeight*m.LUFS + rmsWeight*m.RMS
}

// Measure downmixes channels to mono and reports its integrated loudness
// and linear RMS. Gated-out material reports loudness.SilenceLUFS.
func Measure(channels [][]float64, sampleRate float64) (Measurement, error) {
	if len(channels) == 0 {
		return Measurement{}, core.InvalidParameterf("no channels")
	}

	mono := loudness.Downmix(channels)
	lufs, err := loudness.Integrated([][]float64{mono}, sampleRate)
	if err != nil {
		return Measurement{}, err
	}
	if math.IsInf(lufs, -1) {
		lufs = loudness.SilenceLUFS
	}

	return Measurement{LUFS: lufs, RMS: loudness.RMS(mono)}, nil
}

// Adjustment returns the gain in dB that moves stem toward master.
func Adjustment(master, stem Measurement) float64 {
	lufsAdj := master.LUFS - stem.LUFS
	rmsAdj := 20 * math.Log10(math.Max(master.RMS, rmsFloor)/(stem.RMS+rmsFloor))

	return core.Clamp(lufsWeight*lufsAdj+rmsWeight*rmsAdj, MinGainDB, MaxGainDB)
}

// Apply scales buf in place by gainDB and HeadroomGain, then hard clips.
// It returns the number of clipped samples.
func Apply(buf []float64, gainDB float64) int {
	if len(buf) == 0 {
		return 0
	}
	vecmath.ScaleBlockInPlace(buf, core.DBToLinear(gainDB)*HeadroomGain)
	return core.HardClip(buf)
}

// Calibrate measures master and stem and returns the suggested adjustment.
func Calibrate(master, stem [][]float64, sampleRate float64) (float64, Measurement, Measurement, error) {
	mm, err := Measure(master, sampleRate)
	if err != nil {
		return 0, Measurement{}, Measurement{}, err
	}
	sm, err := Measure(stem, sampleRate)
	if err != nil {
		return 0, Measurement{}, Measurement{}, err
	}
	return Adjustment(mm, sm), mm, sm, nil
}

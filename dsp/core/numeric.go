package core

import "math"

const (
	// LevelEpsilon is the smallest magnitude LevelDB reports as signal.
	LevelEpsilon = 1e-6
	// LevelFloorDB is what LevelDB reports below LevelEpsilon.
	LevelFloorDB = -120.0
)

// Clamp limits v to [lo, hi]. Swapped bounds are accepted.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// NearlyEqual reports whether a and b agree to within eps, either
// absolutely or relative to the larger magnitude. eps <= 0 means 1e-12.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = 1e-12
	}
	diff := math.Abs(a - b)
	return diff <= eps || diff <= eps*math.Max(math.Abs(a), math.Abs(b))
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts an amplitude ratio in dB to linear.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude to dB: -Inf for 0, NaN for
// negative input.
func LinearToDB(linear float64) float64 {
	switch {
	case linear < 0:
		return math.NaN()
	case linear == 0:
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// LevelDB is the level of one sample in dB, floored at LevelFloorDB so
// detectors never see -Inf.
func LevelDB(sample float64) float64 {
	mag := math.Abs(sample)
	if mag < LevelEpsilon {
		return LevelFloorDB
	}
	return 20 * math.Log10(mag)
}

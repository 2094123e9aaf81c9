package core

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// EnsureLen returns buf resliced to n, allocating only when its capacity
// is too small. Contents are not preserved across a reallocation.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) { clear(buf) }

// ApplyGainDB scales buf in place by gainDB.
func ApplyGainDB(buf []float64, gainDB float64) {
	if gainDB == 0 || len(buf) == 0 {
		return
	}
	vecmath.ScaleBlockInPlace(buf, DBToLinear(gainDB))
}

// Mix writes (1-alpha)*dry + alpha*wet into dst.
//
// alpha == 0 copies dry and alpha == 1 copies wet, so both ends are exact.
// All three slices must have the same length; dst may alias dry or wet.
func Mix(dst, dry, wet []float64, alpha float64) {
	switch alpha {
	case 0:
		copy(dst, dry)
		return
	case 1:
		copy(dst, wet)
		return
	}

	if len(dry) == 0 {
		return
	}
	_ = dst[len(dry)-1]
	_ = wet[len(dry)-1]
	for i, d := range dry {
		dst[i] = (1-alpha)*d + alpha*wet[i]
	}
}

// HardClip limits every sample of buf to [-1, 1] and returns how many
// samples were changed.
func HardClip(buf []float64) int {
	clipped := 0
	for i, x := range buf {
		switch {
		case x > 1:
			buf[i] = 1
			clipped++
		case x < -1:
			buf[i] = -1
			clipped++
		}
	}
	return clipped
}

// Peak returns the largest absolute sample value in buf.
func Peak(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	return vecmath.MaxAbs(buf)
}

// RMS returns the root-mean-square of buf (0 for an empty slice).
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(buf, buf) / float64(len(buf)))
}

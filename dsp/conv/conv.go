package conv

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput      = errors.New("conv: empty input")
	ErrEmptyKernel     = errors.New("conv: empty kernel")
	ErrInvalidBlockLen = errors.New("conv: invalid block order")
)

// Direct performs direct time-domain linear convolution of a and b.
// The result has length len(a)+len(b)-1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	out := make([]float64, len(a)+len(b)-1)
	tmp := make([]float64, len(b))
	for i, x := range a {
		if x == 0 {
			continue
		}
		vecmath.ScaleBlock(tmp, b, x)
		vecmath.AddBlockInPlace(out[i:i+len(b)], tmp)
	}

	return out, nil
}

// Convolve computes the full linear convolution of a and b with a single
// zero-padded FFT.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	outLen := len(a) + len(b) - 1
	fftSize := nextPowerOf2(outLen)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	ta := make([]complex128, fftSize)
	tb := make([]complex128, fftSize)
	fa := make([]complex128, fftSize)
	fb := make([]complex128, fftSize)
	packReal(ta, a)
	packReal(tb, b)

	if err := plan.Forward(fa, ta); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := plan.Forward(fb, tb); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	for i := range fa {
		fa[i] *= fb[i]
	}
	if err := plan.Inverse(ta, fa); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	out := make([]float64, outLen)
	for i := range out {
		out[i] = real(ta[i])
	}

	return out, nil
}

// packReal writes src as real parts into dst and zeroes the rest.
func packReal(dst []complex128, src []float64) {
	for i, v := range src {
		dst[i] = complex(v, 0)
	}
	clear(dst[len(src):])
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// MinBlockOrder and MaxBlockOrder bound the partition size 2^order.
	MinBlockOrder = 4
	MaxBlockOrder = 14
)

// Partitioned is a zero-latency streaming convolver.
//
// The kernel is cut into partitions of B = 2^blockOrder taps. Partition 0
// is applied per sample as a dot product over the last B inputs. Partitions
// 1..K-1 are applied with uniformly partitioned overlap-save: every time B
// input samples are complete their 2B-point spectrum enters a frequency
// delay line, and the output of partitions >= 1 for the next B samples is
// computed at once. Those partitions only ever need inputs that are at least
// B samples old, so no latency is introduced.
type Partitioned struct {
	blockLen  int
	kernelLen int

	// time-domain head
	head []float64 // partition 0, reversed
	hist []float64 // mirrored ring of the last blockLen inputs
	pos  int       // write position in hist and index within the block

	// frequency-domain tail
	plan     *algofft.Plan[complex128]
	spectra  [][]complex128 // partitions 1..K-1, 2B-point
	fdl      [][]complex128 // input spectra, newest at fdlHead
	fdlHead  int
	prev     []float64 // previous input block
	cur      []float64 // current input block
	window   []complex128
	acc      []complex128
	timeBuf  []complex128
	tailOut  []float64 // output of partitions >= 1 for the current block
	hasTails bool
}

// NewPartitioned builds a convolver for kernel with partitions of
// 2^blockOrder samples.
func NewPartitioned(kernel []float64, blockOrder int) (*Partitioned, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockOrder < MinBlockOrder || blockOrder > MaxBlockOrder {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBlockLen, blockOrder, MinBlockOrder, MaxBlockOrder)
	}

	b := 1 << blockOrder
	p := &Partitioned{
		blockLen:  b,
		kernelLen: len(kernel),
		head:      make([]float64, b),
		hist:      make([]float64, 2*b),
		tailOut:   make([]float64, b),
	}

	for k := 0; k < b && k < len(kernel); k++ {
		p.head[b-1-k] = kernel[k]
	}

	numParts := (len(kernel) + b - 1) / b
	if numParts <= 1 {
		return p, nil
	}

	plan, err := algofft.NewPlan64(2 * b)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	p.plan = plan
	p.hasTails = true
	p.prev = make([]float64, b)
	p.cur = make([]float64, b)
	p.window = make([]complex128, 2*b)
	p.acc = make([]complex128, 2*b)
	p.timeBuf = make([]complex128, 2*b)
	p.spectra = make([][]complex128, numParts-1)
	p.fdl = make([][]complex128, numParts-1)

	for j := 1; j < numParts; j++ {
		part := kernel[j*b : min((j+1)*b, len(kernel))]
		packReal(p.window, part)
		bins := make([]complex128, 2*b)
		if err := plan.Forward(bins, p.window); err != nil {
			return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
		}
		p.spectra[j-1] = bins
		p.fdl[j-1] = make([]complex128, 2*b)
	}

	return p, nil
}

// BlockLen returns the partition size.
func (p *Partitioned) BlockLen() int { return p.blockLen }

// KernelLen returns the kernel length.
func (p *Partitioned) KernelLen() int { return p.kernelLen }

// Partitions returns the total number of kernel partitions.
func (p *Partitioned) Partitions() int { return len(p.spectra) + 1 }

// ProcessSample convolves one input sample.
func (p *Partitioned) ProcessSample(x float64) (float64, error) {
	b := p.blockLen

	p.hist[p.pos] = x
	p.hist[p.pos+b] = x
	y := vecmath.DotProduct(p.head, p.hist[p.pos+1:p.pos+1+b])

	if !p.hasTails {
		p.pos = (p.pos + 1) % b
		return y, nil
	}

	y += p.tailOut[p.pos]
	p.cur[p.pos] = x

	p.pos++
	if p.pos == b {
		p.pos = 0
		if err := p.finishBlock(); err != nil {
			return y, err
		}
	}

	return y, nil
}

// ProcessBlockTo convolves src into dst. Both must have the same length,
// which may be anything.
func (p *Partitioned) ProcessBlockTo(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("conv: dst length %d != src length %d", len(dst), len(src))
	}
	for i, x := range src {
		y, err := p.ProcessSample(x)
		if err != nil {
			return err
		}
		dst[i] = y
	}
	return nil
}

// finishBlock pushes the completed input block into the frequency delay
// line and computes the tail output for the next block.
func (p *Partitioned) finishBlock() error {
	b := p.blockLen

	for i := range b {
		p.window[i] = complex(p.prev[i], 0)
		p.window[b+i] = complex(p.cur[i], 0)
	}

	p.fdlHead = (p.fdlHead + len(p.fdl) - 1) % len(p.fdl)
	newest := p.fdl[p.fdlHead]
	if err := p.plan.Forward(newest, p.window); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// Partition j (1-based) pairs with the spectrum j-1 blocks older than
	// the newest.
	clear(p.acc)
	for j := range p.spectra {
		x := p.fdl[(p.fdlHead+j)%len(p.fdl)]
		h := p.spectra[j]
		for k := range p.acc {
			p.acc[k] += x[k] * h[k]
		}
	}

	if err := p.plan.Inverse(p.timeBuf, p.acc); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}
	for i := range b {
		p.tailOut[i] = real(p.timeBuf[b+i])
	}

	p.prev, p.cur = p.cur, p.prev
	return nil
}

// Reset clears all input history.
func (p *Partitioned) Reset() {
	clear(p.hist)
	clear(p.tailOut)
	p.pos = 0
	p.fdlHead = 0
	for _, s := range p.fdl {
		clear(s)
	}
	clear(p.prev)
	clear(p.cur)
}

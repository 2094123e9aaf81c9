package delay

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/interp"
)

// Option configures a Line.
type Option func(*Line)

// WithMode selects the fractional read interpolator. Default is Hermite.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		if mode.Valid() {
			d.mode = mode
		}
	}
}

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// New returns a delay line of fixed size.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, core.InvalidParameterf("delay size must be > 0: %d", size)
	}

	d := &Line{buffer: make([]float64, size)}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the fractional read interpolator.
func (d *Line) Mode() interp.Mode { return d.mode }

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Read(1) is the most recent
// sample and Read(Len()) the oldest.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}

// ReadFractional reads a fractional delay, clamped to [0, Len()-3].
func (d *Line) ReadFractional(delay float64) float64 {
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}
	maxDelay := float64(len(d.buffer) - 3)
	if delay > maxDelay {
		delay = max(maxDelay, 0)
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	return interp.At(d.mode, t, d.Read(max(0, p-1)), d.Read(p), d.Read(p+1), d.Read(p+2))
}

// Reset clears line state.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}

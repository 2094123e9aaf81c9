package biquad

// Chain runs sections in series. Butterworth designs above second order
// and the de-esser band filters are chains.
type Chain struct {
	sections []Section
}

// NewChain builds one section per coefficient set.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i, k := range coeffs {
		c.sections[i].Coefficients = k
	}
	return c
}

// ProcessSample filters one sample through every section.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// ProcessBlockTo filters src into dst without touching src.
func (c *Chain) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	c.sections[0].ProcessBlockTo(dst, src)
	dst = dst[:len(src)]
	for i := 1; i < len(c.sections); i++ {
		c.sections[i].ProcessBlock(dst)
	}
}

// Reset clears every section.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Order is twice the number of sections.
func (c *Chain) Order() int { return 2 * len(c.sections) }

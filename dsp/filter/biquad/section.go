package biquad

// Coefficients of one second-order section with a0 normalised to 1.
//
//	y[n] = B0 x[n] + B1 x[n-1] + B2 x[n-2] - A1 y[n-1] - A2 y[n-2]
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// State holds the two transposed delay taps of a section.
type State [2]float64

// Step runs the Direct Form II Transposed recurrence once and returns the
// output together with the next state.
func Step(c Coefficients, s State, x float64) (float64, State) {
	y := c.B0*x + s[0]
	s[0] = c.B1*x - c.A1*y + s[1]
	s[1] = c.B2*x - c.A2*y
	return y, s
}

// Section is a stateful biquad. Chunked processing reproduces single-call
// processing exactly since the delay taps carry over between calls.
type Section struct {
	Coefficients

	state State
}

// NewSection returns a section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	var y float64
	y, s.state = Step(s.Coefficients, s.state, x)
	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	s.ProcessBlockTo(buf, buf)
}

// ProcessBlockTo filters src into dst. dst must be at least as long as src
// and may alias it.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	dst = dst[:len(src)]

	c := s.Coefficients
	d0, d1 := s.state[0], s.state[1]
	for i, x := range src {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		dst[i] = y
	}
	s.state = State{d0, d1}
}

// SetCoefficients swaps the coefficients and keeps the delay taps, so
// per-block coefficient updates do not restart the filter.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// State returns the delay taps.
func (s *Section) State() State { return s.state }

// Reset zeroes the delay taps.
func (s *Section) Reset() { s.state = State{} }

package envelope

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
)

// Direction decides which movement of the target counts as attack.
type Direction int

const (
	// AttackOnRise uses the attack coefficient when the target is above
	// the previous value. Level detectors and gain-reduction trajectories
	// use this.
	AttackOnRise Direction = iota
	// AttackOnFall uses the attack coefficient when the target is below
	// the previous value. Linear gain trajectories use this, since a
	// falling gain means more reduction.
	AttackOnFall
)

// Coefficient returns exp(-1/(timeS*sampleRate)). Non-positive products
// yield 0, which makes the smoother follow its target immediately.
func Coefficient(timeS, sampleRate float64) float64 {
	n := timeS * sampleRate
	if n <= 0 || math.IsNaN(n) {
		return 0
	}

	return math.Exp(-1 / n)
}

// Option configures a Smoother.
type Option func(*Smoother)

// WithDirection selects the attack direction. Default is AttackOnRise.
func WithDirection(d Direction) Option {
	return func(s *Smoother) { s.direction = d }
}

// WithInitialValue sets the value the smoother starts from and returns to
// on Reset. Default is 0.
func WithInitialValue(v float64) Option {
	return func(s *Smoother) {
		s.initial = v
		s.value = v
	}
}

// Smoother is a one-pole attack/release follower. It is not safe for
// concurrent use.
type Smoother struct {
	attack    float64
	release   float64
	direction Direction
	initial   float64
	value     float64
}

// NewSmoother builds a smoother from attack and release times in seconds.
func NewSmoother(attackS, releaseS, sampleRate float64, opts ...Option) (*Smoother, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := core.ValidatePositive("attack time", attackS); err != nil {
		return nil, err
	}
	if err := core.ValidatePositive("release time", releaseS); err != nil {
		return nil, err
	}

	s := &Smoother{
		attack:  Coefficient(attackS, sampleRate),
		release: Coefficient(releaseS, sampleRate),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.direction != AttackOnRise && s.direction != AttackOnFall {
		return nil, core.InvalidParameterf("unknown smoother direction %d", int(s.direction))
	}

	return s, nil
}

// Coefficients returns the attack and release coefficients.
func (s *Smoother) Coefficients() (attack, release float64) {
	return s.attack, s.release
}

// Direction reports the configured attack direction.
func (s *Smoother) Direction() Direction { return s.direction }

// coefficientFor selects attack or release for a move from prev to target.
func (s *Smoother) coefficientFor(prev, target float64) float64 {
	rising := target > prev
	if (s.direction == AttackOnRise) == rising {
		return s.attack
	}

	return s.release
}

// Next is the pure form of Step: it returns the value following prev
// without touching the smoother state.
func (s *Smoother) Next(prev, target float64) float64 {
	a := s.coefficientFor(prev, target)
	return a*prev + (1-a)*target
}

// Step advances one sample toward target and returns the new value.
func (s *Smoother) Step(target float64) float64 {
	s.value = s.Next(s.value, target)
	return s.value
}

// Advance applies n steps against a held target in closed form. Because the
// target does not move, every step uses the same coefficient and
//
//	y_n = target + a^n*(prev - target).
func (s *Smoother) Advance(target float64, n int) float64 {
	if n <= 0 {
		return s.value
	}

	a := s.coefficientFor(s.value, target)
	s.value = target + math.Pow(a, float64(n))*(s.value-target)

	return s.value
}

// Hold is a peak-hold step: the value jumps to target when target exceeds
// the release-decayed previous value, and otherwise decays toward zero by
// the release coefficient. Direction does not apply.
func (s *Smoother) Hold(target float64) float64 {
	s.value = math.Max(target, s.release*s.value)
	return s.value
}

// Value returns the current smoothed value.
func (s *Smoother) Value() float64 { return s.value }

// SetValue overwrites the smoothed value.
func (s *Smoother) SetValue(v float64) { s.value = v }

// Reset returns the smoother to v.
func (s *Smoother) Reset(v float64) { s.value = v }

// ResetInitial returns the smoother to its configured initial value.
func (s *Smoother) ResetInitial() { s.value = s.initial }

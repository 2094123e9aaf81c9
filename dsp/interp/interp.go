package interp

import "fmt"

// Mode selects the fractional read used by delay lines.
type Mode int

const (
	// Hermite uses 4-point cubic Hermite interpolation.
	Hermite Mode = iota
	// Linear uses 2-point linear interpolation.
	Linear
)

func (m Mode) String() string {
	switch m {
	case Hermite:
		return "hermite"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == Hermite || m == Linear }

// At interpolates between x0 (t = 0) and x1 (t = 1) with mode. Linear
// ignores the outer neighbours.
func At(mode Mode, t, xm1, x0, x1, x2 float64) float64 {
	if mode == Linear {
		return Linear2(t, x0, x1)
	}
	return Hermite4(t, xm1, x0, x1, x2)
}

// Linear2 interpolates linearly from x0 to x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

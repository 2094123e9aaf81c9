// Package interp provides the fractional-delay interpolators used by the
// modulated delay lines: 2-point linear and 4-point cubic Hermite.
package interp

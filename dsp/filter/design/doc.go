// Package design provides biquad coefficient designers.
//
// The RBJ "Audio EQ Cookbook" designers (Peak, LowShelf, HighShelf,
// Bandpass, Highpass, Lowpass) are unchecked and return zero coefficients
// for out-of-range input. [Design] wraps them with parameter validation and
// is what the vocal-chain stages use at construction time. Butterworth
// cascades cover the higher-order band splitting of the de-esser and the
// shelf saturator.
package design

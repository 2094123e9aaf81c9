// Package reverb provides the convolution reverb used by the wet branch of
// the vocal chain.
//
// Included processors:
//   - ConvolutionReverb: zero-latency partitioned convolution with a
//     linear or equal-power dry/wet mix.
//   - SyntheticIR: a deterministic exponentially decaying noise impulse
//     response for when no measured response is available.
package reverb

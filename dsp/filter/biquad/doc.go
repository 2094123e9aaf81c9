// Package biquad provides the second-order IIR runtime used by every
// filtering stage of the vocal chain.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Its two delay taps are the
// only state, so chunked processing reproduces single-call processing
// exactly. [Step] is the same recurrence as a pure function of
// (coefficients, state, sample). Multiple sections are cascaded via [Chain].
//
// Coefficient design lives in dsp/filter/design.
package biquad

// Package vocalchain wires the vocal mastering stages into a fixed
// per-channel signal chain.
//
// Each channel owns a full set of stages, so filter taps, envelopes and
// delay lines are never shared between channels. A Pipeline holds one
// Channel per input channel and can process whole buffers (channels in
// parallel) or stream blocks into a single channel.
//
// Stage order:
//
//	input gain → de-ess → VCA → gain → resonant EQ A (mixed) →
//	resonant EQ B (mixed) → dynamic EQ → optical → shelf EQ + saturation →
//	gain → de-ess → high shelf → [chorus → delay → reverb] → hard clip
package vocalchain

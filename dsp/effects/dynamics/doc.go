// Package dynamics provides the per-sample compressors and the block-level
// de-esser of the vocal chain.
//
// Included processors:
//   - VCACompressor: hard-knee compressor with a dB-domain gain computer and
//     attack/release ballistics on the gain reduction.
//   - OpticalCompressor: smoothed linear peak envelope, linear gain
//     computer and a second, slower smoother on the gain itself.
//   - DeEsser: Butterworth band extraction with block RMS detection and
//     split-band reduction.
//
// All processors are mono and not safe for concurrent use. Use one instance
// per channel.
package dynamics

// Package conv provides linear convolution for impulse-response processing.
//
//   - Direct: O(N*M) time-domain reference.
//   - Convolve: one-shot FFT convolution of two whole signals.
//   - Partitioned: zero-latency streaming convolution for long kernels. The
//     first partition runs in the time domain and the remaining partitions
//     run as uniformly partitioned FFT convolution, so any chunking of the
//     input yields the same output.
//
// FFTs use github.com/MeKo-Christian/algo-fft.
package conv

// Package eq provides the equalizer stages of the vocal chain: the
// gain-smoothed resonant and dynamic EQs, the Butterworth shelf saturator,
// a fixed RBJ high shelf and a plain gain stage.
//
// Every stage is mono, keeps its filter state across ProcessInPlace calls
// and is not safe for concurrent use.
package eq

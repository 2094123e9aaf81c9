// Package envelope provides the one-pole attack/release smoother shared by
// the compressors and the gain-smoothed equalizers.
//
// A smoother moves toward a target with
//
//	y = a*prev + (1-a)*target,  a = exp(-1/(t*fs))
//
// picking the attack or release coefficient from the direction of travel.
package envelope

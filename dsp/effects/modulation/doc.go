// Package modulation provides the modulated-delay chorus used on the wet
// branch of the vocal chain.
package modulation

package ui

import "time"

// FileStartMsg announces that a file has entered the chain.
type FileStartMsg struct {
	Index int
	Path  string
}

// ProgressMsg reports the fraction of a file's frames processed so far.
type ProgressMsg struct {
	Index    int
	Fraction float64 // 0.0 to 1.0
}

// FileCompleteMsg reports the outcome of one file.
type FileCompleteMsg struct {
	Index      int
	OutputPath string
	InputLUFS  float64
	OutputLUFS float64
	Clipped    int
	Elapsed    time.Duration
	Err        error
}

// AllCompleteMsg is sent once every file has been handled.
type AllCompleteMsg struct{}

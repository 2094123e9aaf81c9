// Package audiofile reads WAV and FLAC files into planar float64 buffers and
// writes PCM WAV files.
package audiofile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are neither WAV nor FLAC,
// and for unsupported bit depths.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Buffer holds decoded audio, one slice per channel, normalised to [-1, 1].
type Buffer struct {
	SampleRate int
	// BitDepth is the source bit depth, or the depth last written.
	BitDepth int
	Channels [][]float64
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// IsSupported reports whether path has a readable extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave", ".flac":
		return true
	}
	return false
}

// Read decodes a WAV or FLAC file, chosen by extension.
func Read(path string) (*Buffer, error) {
	var (
		buf *Buffer
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		buf, err = readWAV(path)
	case ".flac":
		buf, err = readFLAC(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if buf.NumChannels() == 0 {
		return nil, fmt.Errorf("read %s: no audio channels", filepath.Base(path))
	}

	return buf, nil
}

// deinterleave splits interleaved integer PCM into planar float64 slices.
func deinterleave(data []int, numChans int, maxVal float64) [][]float64 {
	frames := len(data) / numChans
	out := make([][]float64, numChans)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range numChans {
			out[ch][i] = float64(data[i*numChans+ch]) / maxVal
		}
	}
	return out
}

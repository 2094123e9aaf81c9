package audiofile

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

func readWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	numChans := int(decoder.NumChans)
	if numChans <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", numChans)
	}

	maxVal := float64(audio.IntMaxSignedValue(bitDepth))
	if maxVal <= 0 {
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}

	return &Buffer{
		SampleRate: int(decoder.SampleRate),
		BitDepth:   bitDepth,
		Channels:   deinterleave(pcm.Data, numChans, maxVal),
	}, nil
}

// WriteWAV writes buf as integer PCM with bitDepth 16 or 24. Samples are
// clipped to [-1, 1] before quantisation. buf.BitDepth is updated.
func WriteWAV(path string, buf *Buffer, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: %d-bit output", ErrUnsupportedFormat, bitDepth)
	}
	if buf.NumChannels() == 0 {
		return fmt.Errorf("write %s: no audio channels", path)
	}
	if buf.SampleRate <= 0 {
		return fmt.Errorf("write %s: invalid sample rate %d", path, buf.SampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	numChans := buf.NumChannels()
	enc := wav.NewEncoder(f, buf.SampleRate, bitDepth, numChans, wavFormatPCM)

	intBuf := &audio.IntBuffer{
		Data: interleave(buf.Channels, bitDepth),
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  buf.SampleRate,
		},
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(intBuf); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	buf.BitDepth = bitDepth
	return nil
}

// interleave quantises planar float64 data to interleaved integers.
func interleave(channels [][]float64, bitDepth int) []int {
	maxVal := float64(audio.IntMaxSignedValue(bitDepth))
	frames := len(channels[0])
	for _, ch := range channels {
		frames = min(frames, len(ch))
	}

	data := make([]int, frames*len(channels))
	for i := range frames {
		for c, ch := range channels {
			v := math.Max(-1, math.Min(1, ch[i]))
			data[i*len(channels)+c] = int(math.Round(v * maxVal))
		}
	}
	return data
}

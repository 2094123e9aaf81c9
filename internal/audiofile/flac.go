package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

func readFLAC(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	numChans := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if numChans <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", numChans)
	}
	if bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit FLAC", ErrUnsupportedFormat, bitDepth)
	}

	channels := make([][]float64, numChans)
	for ch := range channels {
		channels[ch] = make([]float64, 0, info.NSamples)
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		samples := make([][]int32, len(frame.Subframes))
		for i, sub := range frame.Subframes {
			samples[i] = sub.Samples
		}
		if channels, err = appendFrame(channels, samples, bitDepth); err != nil {
			return nil, err
		}
	}

	return &Buffer{
		SampleRate: int(info.SampleRate),
		BitDepth:   bitDepth,
		Channels:   channels,
	}, nil
}

// appendFrame normalises one decoded frame and appends it per channel.
func appendFrame(channels [][]float64, subframes [][]int32, bitDepth int) ([][]float64, error) {
	if len(subframes) != len(channels) {
		return nil, fmt.Errorf("frame has %d channels, stream has %d", len(subframes), len(channels))
	}

	scale := 1 / float64(int64(1)<<(bitDepth-1))
	for ch, s := range subframes {
		for _, v := range s {
			channels[ch] = append(channels[ch], float64(v)*scale)
		}
	}
	return channels, nil
}

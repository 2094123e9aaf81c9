package vocalchain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/effects/reverb"
)

// DefaultTempo is the tempo in BPM used for the feedback delay when none
// is given.
const DefaultTempo = 120

// syntheticIRSeed keeps the default impulse response reproducible.
const syntheticIRSeed = 1

type options struct {
	core.ProcessorConfig

	channels int
	wet      bool
	ir       []float64
	tempo    float64
}

// Option configures a Pipeline.
type Option func(*options)

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(o *options) { core.WithSampleRate(sampleRate)(&o.ProcessorConfig) }
}

// WithBlockSize sets the block size used by Process. It must be a multiple
// of Config.DeEssBlock.
func WithBlockSize(n int) Option {
	return func(o *options) { core.WithBlockSize(n)(&o.ProcessorConfig) }
}

// WithChannels sets the number of channels.
func WithChannels(n int) Option {
	return func(o *options) { o.channels = n }
}

// WithWet enables the chorus, delay and reverb branch.
func WithWet(wet bool) Option {
	return func(o *options) { o.wet = wet }
}

// WithImpulseResponse sets the reverb impulse response. It is copied and
// normalised to unit energy. Without it the wet branch uses a synthetic
// response.
func WithImpulseResponse(ir []float64) Option {
	return func(o *options) { o.ir = append([]float64(nil), ir...) }
}

// WithTempo sets the tempo in BPM for the feedback delay.
func WithTempo(bpm float64) Option {
	return func(o *options) { o.tempo = bpm }
}

// Pipeline processes multi-channel audio through one Channel per channel.
type Pipeline struct {
	cfg      Config
	opts     options
	channels []*Channel
}

// New adapts cfg to the sample rate (see Config.AdaptTo), validates it and
// builds a pipeline. The block size must be a multiple of cfg.DeEssBlock so
// that the de-esser windows do not depend on it.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	o := options{
		ProcessorConfig: core.DefaultProcessorConfig(),
		channels:        1,
		tempo:           DefaultTempo,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := o.ProcessorConfig.Validate(); err != nil {
		return nil, fmt.Errorf("vocalchain: %w", err)
	}
	if o.channels <= 0 {
		return nil, fmt.Errorf("vocalchain: %w", core.InvalidParameterf("channels must be > 0: %d", o.channels))
	}
	cfg = cfg.AdaptTo(o.SampleRate)
	if err := cfg.Validate(o.SampleRate); err != nil {
		return nil, fmt.Errorf("vocalchain: %w", err)
	}
	if o.BlockSize%cfg.DeEssBlock != 0 {
		return nil, fmt.Errorf("vocalchain: %w", core.InvalidParameterf(
			"block size %d is not a multiple of the de-esser block %d", o.BlockSize, cfg.DeEssBlock))
	}

	if o.wet {
		if err := core.ValidatePositive("tempo", o.tempo); err != nil {
			return nil, fmt.Errorf("vocalchain: %w", err)
		}
		if len(o.ir) == 0 {
			ir, err := reverb.SyntheticIR(o.SampleRate, cfg.Wet.ReverbRT60S, syntheticIRSeed)
			if err != nil {
				return nil, fmt.Errorf("vocalchain: %w", err)
			}
			o.ir = ir
		} else {
			reverb.NormalizeIR(o.ir)
		}
	}

	p := &Pipeline{cfg: cfg, opts: o, channels: make([]*Channel, o.channels)}
	for i := range p.channels {
		ch, err := newChannel(cfg, o)
		if err != nil {
			return nil, fmt.Errorf("vocalchain: channel %d: %w", i, err)
		}
		p.channels[i] = ch
	}

	return p, nil
}

// Config returns the configuration in effect, after AdaptTo.
func (p *Pipeline) Config() Config { return p.cfg }

// SampleRate returns the processing sample rate.
func (p *Pipeline) SampleRate() float64 { return p.opts.SampleRate }

// BlockSize returns the block size used by Process.
func (p *Pipeline) BlockSize() int { return p.opts.BlockSize }

// NumChannels returns the number of channels.
func (p *Pipeline) NumChannels() int { return len(p.channels) }

// Wet reports whether the wet branch is enabled.
func (p *Pipeline) Wet() bool { return p.opts.wet }

// Process runs every channel of buffers in place. Channels run
// concurrently, each in blocks of BlockSize samples. ctx is checked between
// blocks.
func (p *Pipeline) Process(ctx context.Context, buffers [][]float64) error {
	if len(buffers) != len(p.channels) {
		return fmt.Errorf("vocalchain: %w", core.InvalidParameterf("got %d channels, pipeline has %d", len(buffers), len(p.channels)))
	}

	errs := make([]error, len(buffers))

	var wg sync.WaitGroup
	for i, buf := range buffers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = p.processChannel(ctx, i, buf)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (p *Pipeline) processChannel(ctx context.Context, ch int, buf []float64) error {
	n := p.opts.BlockSize
	for start := 0; start < len(buf); start += n {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.channels[ch].ProcessInPlace(buf[start:min(start+n, len(buf))]); err != nil {
			return fmt.Errorf("vocalchain: channel %d: %w", ch, err)
		}
	}
	return nil
}

// ProcessBlock streams one block of channel ch in place.
func (p *Pipeline) ProcessBlock(ch int, block []float64) error {
	if ch < 0 || ch >= len(p.channels) {
		return fmt.Errorf("vocalchain: %w", core.InvalidParameterf("channel %d out of range [0, %d)", ch, len(p.channels)))
	}
	if err := p.channels[ch].ProcessInPlace(block); err != nil {
		return fmt.Errorf("vocalchain: channel %d: %w", ch, err)
	}
	return nil
}

// Reset clears the state of every channel.
func (p *Pipeline) Reset() {
	for _, ch := range p.channels {
		ch.Reset()
	}
}

// Metrics returns metering for each channel.
func (p *Pipeline) Metrics() []ChannelMetrics {
	out := make([]ChannelMetrics, len(p.channels))
	for i, ch := range p.channels {
		out[i] = ch.Metrics()
	}
	return out
}

// TotalClipped sums the final clip counts over all channels.
func TotalClipped(m []ChannelMetrics) int {
	total := 0
	for _, cm := range m {
		total += cm.Clipped
	}
	return total
}

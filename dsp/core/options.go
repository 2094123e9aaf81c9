package core

// ProcessorConfig holds the settings shared by block processors.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig is 44.1 kHz with 4096-sample blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 44100, BlockSize: 4096}
}

// WithSampleRate sets the sample rate. Values are checked by Validate,
// not here.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) { cfg.SampleRate = sampleRate }
}

// WithBlockSize sets the block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) { cfg.BlockSize = blockSize }
}

// ApplyProcessorOptions applies opts over the defaults. Nil options are
// skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate rejects a bad sample rate or a non-positive block size.
func (cfg ProcessorConfig) Validate() error {
	if err := ValidateSampleRate(cfg.SampleRate); err != nil {
		return err
	}
	if cfg.BlockSize <= 0 {
		return InvalidParameterf("block size must be > 0: %d", cfg.BlockSize)
	}
	return nil
}

package dynamics

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
	"github.com/cwbudde/algo-vocal/dsp/filter/design"
)

const (
	defaultDeEsserOrder = 4
	maxDeEsserOrder     = 8

	// rmsFloor keeps the block level finite for silent blocks.
	rmsFloor = 1e-10
)

// DeEsserParams configures a DeEsser.
type DeEsserParams struct {
	LowHz       float64 `json:"low_hz"`
	HighHz      float64 `json:"high_hz"`
	ThresholdDB float64 `json:"threshold_db"`
	ReductionDB float64 `json:"reduction_db"`
	RangeDB     float64 `json:"range_db"`
	// Order is the Butterworth order per band edge. Zero selects 4.
	Order int `json:"order"`
}

// Validate checks the band edges against the sample rate and the detector
// parameters.
func (p DeEsserParams) Validate(sampleRate float64) error {
	if err := core.ValidateFrequency("de-esser low edge", p.LowHz, sampleRate); err != nil {
		return err
	}
	if err := core.ValidateFrequency("de-esser high edge", p.HighHz, sampleRate); err != nil {
		return err
	}
	if p.LowHz >= p.HighHz {
		return core.InvalidParameterf("de-esser band must satisfy low < high: %g >= %g", p.LowHz, p.HighHz)
	}
	if err := core.ValidateFinite("de-esser threshold", p.ThresholdDB); err != nil {
		return err
	}
	if p.ReductionDB < 0 || !core.IsFinite(p.ReductionDB) {
		return core.InvalidParameterf("de-esser reduction must be >= 0: %f", p.ReductionDB)
	}
	if err := core.ValidatePositive("de-esser range", p.RangeDB); err != nil {
		return err
	}
	if p.Order < 0 || p.Order > maxDeEsserOrder {
		return core.InvalidParameterf("de-esser order must be in [1, %d]: %d", maxDeEsserOrder, p.Order)
	}
	return nil
}

// DeEsserMetrics holds de-esser metering since the last reset.
type DeEsserMetrics struct {
	Blocks       int     // Blocks processed
	ActiveBlocks int     // Blocks with a non-zero reduction ratio
	MaxRatio     float64 // Largest reduction ratio applied
	LastRMSDB    float64 // Band level of the most recent block
	Clipped      int     // Output samples limited to [-1, 1]
}

// DeEsser reduces sibilance one block at a time.
//
// Each call to ProcessBlock extracts the [LowHz, HighHz] band, measures its
// RMS level and maps the excess over threshold to a reduction ratio that
// rises linearly from 0 to ReductionDB/20 across RangeDB. Only the band is
// attenuated:
//
//	out = (x - band) + (1 - ratio)*band
//
// The band filter keeps its state from block to block. The detection
// granularity is therefore whatever block size the caller uses.
type DeEsser struct {
	params     DeEsserParams
	sampleRate float64

	band    *biquad.Chain
	scratch []float64

	metrics DeEsserMetrics
}

// NewDeEsser validates p and builds the band-extraction cascade.
func NewDeEsser(sampleRate float64, p DeEsserParams) (*DeEsser, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(sampleRate); err != nil {
		return nil, err
	}
	if p.Order == 0 {
		p.Order = defaultDeEsserOrder
	}

	coeffs, err := design.ButterworthBandpass(p.LowHz, p.HighHz, p.Order, sampleRate)
	if err != nil {
		return nil, err
	}

	return &DeEsser{
		params:     p,
		sampleRate: sampleRate,
		band:       biquad.NewChain(coeffs),
	}, nil
}

// Parameters returns the effective parameters.
func (d *DeEsser) Parameters() DeEsserParams { return d.params }

// ReductionRatio maps a band level to the fraction of the band to remove.
func (d *DeEsser) ReductionRatio(rmsDB float64) float64 {
	if rmsDB <= d.params.ThresholdDB {
		return 0
	}

	over := math.Min((rmsDB-d.params.ThresholdDB)/d.params.RangeDB, 1)

	return over * d.params.ReductionDB / 20
}

// ProcessBlock de-esses block in place, treating it as one detection window.
func (d *DeEsser) ProcessBlock(block []float64) {
	if len(block) == 0 {
		return
	}

	d.scratch = core.EnsureLen(d.scratch, len(block))
	d.band.ProcessBlockTo(d.scratch, block)

	rmsDB := 20 * math.Log10(core.RMS(d.scratch)+rmsFloor)
	ratio := d.ReductionRatio(rmsDB)

	d.metrics.Blocks++
	d.metrics.LastRMSDB = rmsDB

	if ratio > 0 {
		// x - ratio*band == (x - band) + (1-ratio)*band
		vecmath.ScaleBlockInPlace(d.scratch, -ratio)
		vecmath.AddBlockInPlace(block, d.scratch)

		d.metrics.ActiveBlocks++
		d.metrics.MaxRatio = math.Max(d.metrics.MaxRatio, ratio)
	}

	d.metrics.Clipped += core.HardClip(block)
}

// ProcessInPlace runs ProcessBlock over consecutive windows of blockSize
// samples. The last window may be shorter.
func (d *DeEsser) ProcessInPlace(buf []float64, blockSize int) {
	if blockSize <= 0 {
		blockSize = len(buf)
	}
	for start := 0; start < len(buf); start += blockSize {
		d.ProcessBlock(buf[start:min(start+blockSize, len(buf))])
	}
}

// Metrics returns metering since the last reset.
func (d *DeEsser) Metrics() DeEsserMetrics { return d.metrics }

// Reset clears the band filter state and metering.
func (d *DeEsser) Reset() {
	d.band.Reset()
	d.metrics = DeEsserMetrics{}
}

package loudness

import (
	"math"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
)

const (
	momentaryWindow = 0.4 // seconds
	shortTermWindow = 3.0

	// Gating blocks of one momentary window advance by a quarter window.
	blockStep = momentaryWindow / 4

	absoluteGate = -70.0 // LUFS
	relativeGate = -10.0 // LU below the absolutely gated mean

	// SilenceLUFS is reported when there is no signal energy.
	SilenceLUFS = -120.0
)

// slidingPower is the running sum of the last len(hist) squared samples.
type slidingPower struct {
	hist []float64
	pos  int
	sum  float64
}

func (w *slidingPower) push(sq float64) {
	old := w.hist[w.pos]
	w.hist[w.pos] = sq
	w.pos = (w.pos + 1) % len(w.hist)
	w.sum = max(w.sum+sq-old, 0)
}

func (w *slidingPower) meanSquare() float64 {
	return w.sum / float64(len(w.hist))
}

func (w *slidingPower) reset() {
	clear(w.hist)
	w.pos = 0
	w.sum = 0
}

type channelState struct {
	weighting *biquad.Chain
	momentary slidingPower
	shortTerm slidingPower
	peak      float64
}

// Meter measures ITU-R BS.1770 / EBU R128 loudness of a stream.
//
// Every channel carries unit weight, which matches BS.1770 for mono and
// stereo material. Integrated loudness only considers full 400 ms gating
// blocks collected while integration is running.
type Meter struct {
	sampleRate  float64
	numChannels int

	chans     []channelState
	frame     []float64
	blockStep int

	integrating bool
	frames      int
	sinceBlock  int
	blocks      []float64 // mean square summed over channels
}

// Option configures a Meter. Non-positive values keep the default.
type Option func(*Meter)

// WithSampleRate sets the sample rate in Hz (default 44100).
func WithSampleRate(sampleRate float64) Option {
	return func(m *Meter) {
		if sampleRate > 0 {
			m.sampleRate = sampleRate
		}
	}
}

// WithChannels sets the channel count (default 2).
func WithChannels(channels int) Option {
	return func(m *Meter) {
		if channels > 0 {
			m.numChannels = channels
		}
	}
}

// NewMeter returns a meter with integration stopped.
func NewMeter(opts ...Option) *Meter {
	m := &Meter{
		sampleRate:  core.DefaultProcessorConfig().SampleRate,
		numChannels: 2,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	shelf, hpf := kWeighting(m.sampleRate)
	momLen := max(int(math.Round(momentaryWindow*m.sampleRate)), 1)
	shortLen := max(int(math.Round(shortTermWindow*m.sampleRate)), 1)

	m.chans = make([]channelState, m.numChannels)
	for i := range m.chans {
		m.chans[i] = channelState{
			weighting: biquad.NewChain([]biquad.Coefficients{shelf, hpf}),
			momentary: slidingPower{hist: make([]float64, momLen)},
			shortTerm: slidingPower{hist: make([]float64, shortLen)},
		}
	}
	m.frame = make([]float64, m.numChannels)
	m.blockStep = max(int(math.Round(blockStep*m.sampleRate)), 1)

	return m
}

// Channels returns the channel count.
func (m *Meter) Channels() int { return m.numChannels }

// SampleRate returns the sample rate.
func (m *Meter) SampleRate() float64 { return m.sampleRate }

// Reset clears filters, windows, peaks and gating blocks. Integration
// keeps its running state.
func (m *Meter) Reset() {
	for i := range m.chans {
		c := &m.chans[i]
		c.weighting.Reset()
		c.momentary.reset()
		c.shortTerm.reset()
		c.peak = 0
	}
	m.frames = 0
	m.sinceBlock = 0
	m.blocks = nil
}

// StartIntegration starts collecting gating blocks.
func (m *Meter) StartIntegration() { m.integrating = true }

// StopIntegration stops collecting gating blocks.
func (m *Meter) StopIntegration() { m.integrating = false }

// ProcessSample consumes one frame. Frames shorter than the channel count
// are ignored.
func (m *Meter) ProcessSample(frame []float64) {
	if len(frame) < m.numChannels {
		return
	}

	for i := range m.chans {
		c := &m.chans[i]
		c.peak = max(c.peak, math.Abs(frame[i]))
		y := c.weighting.ProcessSample(frame[i])
		c.momentary.push(y * y)
		c.shortTerm.push(y * y)
	}

	if !m.integrating {
		return
	}

	m.frames++
	m.sinceBlock++
	if m.sinceBlock < m.blockStep {
		return
	}
	m.sinceBlock = 0

	// Blocks are only taken once a full momentary window has been seen.
	if m.frames >= len(m.chans[0].momentary.hist) {
		m.blocks = append(m.blocks, m.momentaryMeanSquare())
	}
}

// ProcessBlock consumes interleaved frames. A trailing partial frame is
// dropped.
func (m *Meter) ProcessBlock(block []float64) {
	n := m.numChannels
	for i := 0; i+n <= len(block); i += n {
		m.ProcessSample(block[i : i+n])
	}
}

// ProcessPlanar consumes one slice per channel up to the shortest one.
func (m *Meter) ProcessPlanar(channels [][]float64) {
	if len(channels) < m.numChannels {
		return
	}

	n := math.MaxInt
	for _, ch := range channels[:m.numChannels] {
		n = min(n, len(ch))
	}

	for i := range n {
		for c := range m.frame {
			m.frame[c] = channels[c][i]
		}
		m.ProcessSample(m.frame)
	}
}

func (m *Meter) momentaryMeanSquare() float64 {
	var sum float64
	for i := range m.chans {
		sum += m.chans[i].momentary.meanSquare()
	}
	return sum
}

// Momentary returns the loudness of the last 400 ms in LUFS.
func (m *Meter) Momentary() float64 {
	return toLUFS(m.momentaryMeanSquare())
}

// ShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) ShortTerm() float64 {
	var sum float64
	for i := range m.chans {
		sum += m.chans[i].shortTerm.meanSquare()
	}
	return toLUFS(sum)
}

// Integrated returns the gated loudness of the blocks collected since
// StartIntegration, or -Inf when every block is gated out.
func (m *Meter) Integrated() float64 {
	mean, ok := gatedMean(m.blocks, absoluteGate)
	if !ok {
		return math.Inf(-1)
	}

	mean, ok = gatedMean(m.blocks, math.Max(absoluteGate, toLUFS(mean)+relativeGate))
	if !ok {
		return math.Inf(-1)
	}
	return toLUFS(mean)
}

// gatedMean averages the blocks louder than gate.
func gatedMean(blocks []float64, gate float64) (float64, bool) {
	var sum float64
	n := 0
	for _, b := range blocks {
		if toLUFS(b) > gate {
			sum += b
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Peaks returns the largest absolute sample per channel since Reset.
func (m *Meter) Peaks() []float64 {
	p := make([]float64, len(m.chans))
	for i := range m.chans {
		p[i] = m.chans[i].peak
	}
	return p
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return SilenceLUFS
	}
	return -0.691 + 10*math.Log10(meanSquare)
}

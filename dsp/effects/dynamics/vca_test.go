package dynamics

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/envelope"
	"github.com/cwbudde/algo-vocal/internal/testutil"
)

func TestVCACompressor_SteadyStateReduction(t *testing.T) {
	p := Parameters{ThresholdDB: -12, Ratio: 4, AttackS: 0.02, ReleaseS: 0.06, MakeupDB: 0}
	c, err := NewVCACompressor(44100, p)
	if err != nil {
		t.Fatal(err)
	}

	x := core.DBToLinear(-6)
	var y float64
	for range 44100 {
		y = c.ProcessSample(x)
	}

	if got := c.GainReductionDB(); math.Abs(got-4.5) > 1e-6 {
		t.Fatalf("steady reduction = %v dB, want 4.5", got)
	}
	if got := core.LinearToDB(y); math.Abs(got-(-10.5)) > 1e-5 {
		t.Fatalf("steady output = %v dB, want -10.5", got)
	}
}

func TestVCACompressor_MakeupGain(t *testing.T) {
	c, err := NewVCACompressor(44100, vocalVCA())
	if err != nil {
		t.Fatal(err)
	}

	// Well below threshold only makeup applies.
	x := 0.01
	if got, want := c.ProcessSample(x), x*core.DBToLinear(5); math.Abs(got-want) > 1e-15 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestVCACompressor_ReleaseBallistics(t *testing.T) {
	p := vocalVCA()
	c, err := NewVCACompressor(44100, p)
	if err != nil {
		t.Fatal(err)
	}

	for range 4410 {
		c.ProcessSample(0.9)
	}
	before := c.GainReductionDB()
	if before <= 0 {
		t.Fatalf("no reduction after loud input: %v", before)
	}

	c.ProcessSample(0)
	after := c.GainReductionDB()
	want := envelope.Coefficient(p.ReleaseS, 44100) * before
	if math.Abs(after-want) > 1e-12 {
		t.Fatalf("release step = %v, want %v", after, want)
	}
}

func TestVCACompressor_AttackBallistics(t *testing.T) {
	p := vocalVCA()
	c, _ := NewVCACompressor(44100, p)

	c.ProcessSample(1)
	static := StaticReductionDB(0, p.ThresholdDB, p.Ratio)
	want := (1 - envelope.Coefficient(p.AttackS, 44100)) * static
	if got := c.GainReductionDB(); math.Abs(got-want) > 1e-12 {
		t.Fatalf("attack step = %v, want %v", got, want)
	}
}

func TestVCACompressor_StreamingEquivalence(t *testing.T) {
	in := testutil.Vocal(44100, 0.8, 8192)

	whole, _ := NewVCACompressor(44100, vocalVCA())
	want := append([]float64(nil), in...)
	whole.ProcessInPlace(want)

	chunked, _ := NewVCACompressor(44100, vocalVCA())
	got := testutil.ProcessChunked(in, []int{1, 17, 512, 100}, chunked.ProcessInPlace)

	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestVCACompressor_SilenceAndReset(t *testing.T) {
	c, _ := NewVCACompressor(44100, vocalVCA())
	c.ProcessInPlace(testutil.DC(0.9, 1000))
	c.Reset()

	if c.GainReductionDB() != 0 {
		t.Fatalf("reduction after reset = %v", c.GainReductionDB())
	}
	if c.Metrics() != (Metrics{}) {
		t.Fatalf("metrics after reset = %+v", c.Metrics())
	}

	buf := make([]float64, 512)
	c.ProcessInPlace(buf)
	testutil.RequireSilent(t, buf)
}

func TestVCACompressor_Metrics(t *testing.T) {
	c, _ := NewVCACompressor(44100, vocalVCA())
	c.ProcessInPlace(testutil.DC(0.9, 4410))

	m := c.Metrics()
	if m.InputPeak != 0.9 {
		t.Fatalf("InputPeak = %v, want 0.9", m.InputPeak)
	}
	if m.OutputPeak <= 0 || m.MaxReductionDB <= 0 {
		t.Fatalf("metrics not updated: %+v", m)
	}
}

func TestNewVCACompressor_InvalidSampleRate(t *testing.T) {
	if _, err := NewVCACompressor(0, vocalVCA()); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err = %v", err)
	}
}

func BenchmarkVCACompressorProcessInPlace(b *testing.B) {
	c, _ := NewVCACompressor(48000, vocalVCA())
	buf := testutil.Vocal(48000, 0.8, 512)

	b.ResetTimer()
	for range b.N {
		c.ProcessInPlace(buf)
	}
}

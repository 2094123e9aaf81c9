package modulation

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/internal/testutil"
)

func vocalChorus() ChorusParams {
	return ChorusParams{RateHz: 5, DepthS: 0.002, CentreDelayS: 0.01, Feedback: 0.2, Mix: 0.15}
}

func TestChorusProcessInPlaceMatchesSample(t *testing.T) {
	c1, err := NewChorus(44100, vocalChorus())
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}
	c2, _ := NewChorus(44100, vocalChorus())

	input := testutil.Vocal(44100, 0.5, 4096)

	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = c1.ProcessSample(x)
	}

	got := testutil.ProcessChunked(input, []int{1, 64, 300}, c2.ProcessInPlace)
	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestChorusResetRestoresState(t *testing.T) {
	c, _ := NewChorus(44100, vocalChorus())

	in := testutil.Impulse(2048, 0)
	out1 := append([]float64(nil), in...)
	c.ProcessInPlace(out1)

	c.Reset()
	out2 := append([]float64(nil), in...)
	c.ProcessInPlace(out2)

	testutil.RequireSliceNearlyEqual(t, out2, out1, 0)
}

func TestChorusZeroMixIsDry(t *testing.T) {
	p := vocalChorus()
	p.Mix = 0
	c, _ := NewChorus(44100, p)

	in := testutil.Vocal(44100, 0.5, 2048)
	out := append([]float64(nil), in...)
	c.ProcessInPlace(out)

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestChorusStaticDelay(t *testing.T) {
	// Without depth the wet path is a pure delay of the centre time.
	p := ChorusParams{RateHz: 1, DepthS: 0, CentreDelayS: 0.001, Mix: 1}
	c, _ := NewChorus(10000, p)

	out := testutil.Impulse(32, 0)
	c.ProcessInPlace(out)

	want := testutil.Impulse(32, 10)
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-12)
}

func TestChorusFeedbackDecays(t *testing.T) {
	p := vocalChorus()
	p.Mix = 1
	c, _ := NewChorus(44100, p)

	buf := testutil.Impulse(44100, 0)
	c.ProcessInPlace(buf)

	testutil.RequireFinite(t, buf)
	if tail := core.Peak(buf[len(buf)-4410:]); tail > 1e-6 {
		t.Fatalf("feedback did not decay: tail peak %v", tail)
	}
}

func TestChorusVoicesAverage(t *testing.T) {
	p := vocalChorus()
	p.Voices = 3
	c, err := NewChorus(44100, p)
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.DC(0.5, 44100)
	c.ProcessInPlace(buf)

	// Once the line is full of DC every voice reads 0.5, so the wet
	// signal is 0.5*(1 + fb + fb^2 + ...).
	want := 0.5*(1-p.Mix) + p.Mix*0.5/(1-p.Feedback)
	if math.Abs(buf[len(buf)-1]-want) > 1e-9 {
		t.Fatalf("DC output %v, want %v", buf[len(buf)-1], want)
	}
}

func TestNewChorus_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChorusParams)
	}{
		{"zero rate", func(p *ChorusParams) { p.RateHz = 0 }},
		{"depth beyond centre", func(p *ChorusParams) { p.DepthS = 0.02 }},
		{"unity feedback", func(p *ChorusParams) { p.Feedback = 1 }},
		{"mix above one", func(p *ChorusParams) { p.Mix = 1.2 }},
		{"zero centre", func(p *ChorusParams) { p.CentreDelayS = 0 }},
		{"negative voices", func(p *ChorusParams) { p.Voices = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := vocalChorus()
			tt.mutate(&p)
			if _, err := NewChorus(44100, p); !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func BenchmarkChorus(b *testing.B) {
	c, _ := NewChorus(48000, vocalChorus())
	buf := testutil.Vocal(48000, 0.5, 1024)

	b.ResetTimer()
	for range b.N {
		c.ProcessInPlace(buf)
	}
}

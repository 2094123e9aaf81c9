package eq

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/filter/biquad"
	"github.com/cwbudde/algo-vocal/dsp/filter/design"
	"github.com/cwbudde/algo-vocal/internal/testutil"
)

func vocalDynamic() DynamicConfig {
	return DynamicConfig{
		Resonant: ResonantConfig{
			BandA:    Band{FreqHz: 550, Q: 2.459, GainDB: -0.5},
			BandB:    Band{FreqHz: 1500, Q: 1, GainDB: -1.4},
			AttackS:  0.01,
			ReleaseS: 0.1,
			Depth:    1,
		},
		HighpassHz: 100,
		HighpassQ:  1 / math.Sqrt2,
	}
}

func TestDynamicEQ_RemovesDC(t *testing.T) {
	d, err := NewDynamicEQ(44100, vocalDynamic())
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.DC(0.5, 44100)
	d.ProcessInPlace(buf)

	if tail := core.Peak(buf[len(buf)-1000:]); tail > 1e-6 {
		t.Fatalf("DC residue %v", tail)
	}
}

func TestDynamicEQ_DistinctPeaks(t *testing.T) {
	d, _ := NewDynamicEQ(44100, vocalDynamic())
	d.ProcessInPlace(make([]float64, 5*44100))

	g := d.CurrentGainsDB()
	if math.Abs(g[0]+0.5) > 1e-6 || math.Abs(g[1]+1.4) > 1e-6 {
		t.Fatalf("settled gains = %v, want [-0.5 -1.4]", g)
	}
}

func TestDynamicEQ_StreamingEquivalence(t *testing.T) {
	in := testutil.Vocal(44100, 0.5, 8192)

	whole, _ := NewDynamicEQ(44100, vocalDynamic())
	want := append([]float64(nil), in...)
	whole.ProcessInPlace(want)

	chunked, _ := NewDynamicEQ(44100, vocalDynamic())
	got := testutil.ProcessChunked(in, []int{7, 128, 333}, chunked.ProcessInPlace)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestNewDynamicEQ_RejectsInvalidHighpass(t *testing.T) {
	cfg := vocalDynamic()
	cfg.HighpassHz = 0
	if _, err := NewDynamicEQ(44100, cfg); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err = %v", err)
	}
}

func TestGain(t *testing.T) {
	buf := []float64{1, -0.5}
	Gain{DB: -6}.ProcessInPlace(buf)

	g := core.DBToLinear(-6)
	testutil.RequireSliceNearlyEqual(t, buf, []float64{g, -0.5 * g}, 1e-15)

	same := []float64{0.25}
	Gain{}.ProcessInPlace(same)
	if same[0] != 0.25 {
		t.Fatalf("0 dB gain changed the signal: %v", same[0])
	}
}

func TestHighShelf(t *testing.T) {
	h, err := NewHighShelf(44100, 3480, 3, 0.7071)
	if err != nil {
		t.Fatal(err)
	}

	ref := biquad.NewSection(design.HighShelf(3480, 3, 0.7071, 44100))
	in := testutil.Vocal(44100, 0.5, 2048)

	want := append([]float64(nil), in...)
	ref.ProcessBlock(want)

	got := append([]float64(nil), in...)
	h.ProcessInPlace(got)

	testutil.RequireSliceNearlyEqual(t, got, want, 0)

	if _, err := NewHighShelf(44100, 30000, 3, 0.7071); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err = %v", err)
	}
}

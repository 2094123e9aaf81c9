package delay

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/dsp/interp"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestNewValidation(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, core.ErrInvalidParameter) {
			t.Fatalf("size=%d: err = %v", size, err)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 16 {
		t.Fatalf("Len: got %d want 16", d.Len())
	}
	if d.Mode() != interp.Hermite {
		t.Fatalf("default mode: got %v want Hermite", d.Mode())
	}

	lin, _ := New(16, WithMode(interp.Linear))
	if lin.Mode() != interp.Linear {
		t.Fatalf("mode: got %v want Linear", lin.Mode())
	}
	bad, _ := New(16, WithMode(interp.Mode(42)))
	if bad.Mode() != interp.Hermite {
		t.Fatalf("invalid mode accepted: %v", bad.Mode())
	}
}

func TestReadWrite(t *testing.T) {
	d, _ := New(8)
	for i := range 8 {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
	// delay=Len => oldest sample
	if got := d.Read(8); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, _ := New(4)
	for i := range 10 {
		d.Write(float64(i))
	}
	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
	if got := d.Read(4); got != 6 {
		t.Fatalf("got %v want 6", got)
	}
}

func TestReset(t *testing.T) {
	d, _ := New(4)
	d.Write(1)
	d.Write(2)
	d.Reset()

	for i := range 4 {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after reset Read(%d): got %v want 0", i, got)
		}
	}
}

func TestReadFractional(t *testing.T) {
	for _, mode := range []interp.Mode{interp.Hermite, interp.Linear} {
		d, _ := New(32, WithMode(mode))
		for i := range d.Len() {
			d.Write(float64(i))
		}

		// Both interpolators are exact on a ramp.
		got := d.ReadFractional(5.5)
		want := float64(d.Len()) - 5.5
		if !approxEqual(got, want, 1e-10) {
			t.Fatalf("%v: got %v want %v", mode, got, want)
		}
	}
}

func TestReadFractionalClamped(t *testing.T) {
	d, _ := New(8)
	for i := range 8 {
		d.Write(float64(i + 1))
	}

	for _, delay := range []float64{-1, math.NaN(), 100} {
		got := d.ReadFractional(delay)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("delay %v produced %v", delay, got)
		}
	}
}

func BenchmarkReadFractionalHermite(b *testing.B) {
	d, _ := New(1024)
	for i := range 1024 {
		d.Write(math.Sin(float64(i) * 0.1))
	}

	b.ResetTimer()
	for i := range b.N {
		_ = d.ReadFractional(100.3 + float64(i%50))
	}
}

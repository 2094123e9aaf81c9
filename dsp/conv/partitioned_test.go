package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-vocal/internal/testutil"
)

func TestNewPartitionedErrors(t *testing.T) {
	if _, err := NewPartitioned(nil, 6); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("want ErrEmptyKernel, got %v", err)
	}
	for _, order := range []int{MinBlockOrder - 1, MaxBlockOrder + 1} {
		if _, err := NewPartitioned([]float64{1}, order); !errors.Is(err, ErrInvalidBlockLen) {
			t.Fatalf("order %d: want ErrInvalidBlockLen, got %v", order, err)
		}
	}
}

func TestPartitionedMatchesDirect(t *testing.T) {
	tests := []struct {
		name    string
		kernLen int
		order   int
	}{
		{"head only", 10, 4},
		{"exact one partition", 16, 4},
		{"two partitions", 20, 4},
		{"many partitions", 1000, 5},
		{"large block", 3000, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel := testutil.DeterministicNoise(3, 0.3, tt.kernLen)
			input := testutil.DeterministicNoise(4, 0.9, 2500)

			p, err := NewPartitioned(kernel, tt.order)
			if err != nil {
				t.Fatal(err)
			}

			got := make([]float64, len(input))
			if err := p.ProcessBlockTo(got, input); err != nil {
				t.Fatal(err)
			}

			full, err := Direct(input, kernel)
			if err != nil {
				t.Fatal(err)
			}

			testutil.RequireSliceNearlyEqual(t, got, full[:len(input)], 1e-9)
		})
	}
}

func TestPartitionedChunkInvariance(t *testing.T) {
	kernel := testutil.DeterministicNoise(5, 0.2, 777)
	input := testutil.DeterministicNoise(6, 0.7, 4000)

	whole, err := NewPartitioned(kernel, 6)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]float64, len(input))
	if err := whole.ProcessBlockTo(want, input); err != nil {
		t.Fatal(err)
	}

	chunked, err := NewPartitioned(kernel, 6)
	if err != nil {
		t.Fatal(err)
	}
	got := testutil.ProcessChunked(input, []int{1, 63, 64, 65, 500, 7}, func(block []float64) {
		if err := chunked.ProcessBlockTo(block, block); err != nil {
			t.Fatal(err)
		}
	})

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestPartitionedImpulseReproducesKernel(t *testing.T) {
	kernel := testutil.DeterministicNoise(7, 1, 300)

	p, err := NewPartitioned(kernel, 5)
	if err != nil {
		t.Fatal(err)
	}
	if p.Partitions() != 10 {
		t.Fatalf("partitions = %d, want 10", p.Partitions())
	}

	out := make([]float64, 400)
	if err := p.ProcessBlockTo(out, testutil.Impulse(400, 0)); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, out[:300], kernel, 1e-9)
	testutil.RequireBounded(t, out[300:], 1e-9)
}

func TestPartitionedReset(t *testing.T) {
	kernel := testutil.DeterministicNoise(8, 0.5, 200)
	input := testutil.DeterministicNoise(9, 0.5, 600)

	p, err := NewPartitioned(kernel, 4)
	if err != nil {
		t.Fatal(err)
	}

	first := make([]float64, len(input))
	if err := p.ProcessBlockTo(first, input); err != nil {
		t.Fatal(err)
	}
	p.Reset()
	second := make([]float64, len(input))
	if err := p.ProcessBlockTo(second, input); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func BenchmarkPartitioned(b *testing.B) {
	kernel := testutil.DeterministicNoise(10, 0.1, 44100)
	input := testutil.DeterministicNoise(11, 0.5, 4096)
	out := make([]float64, len(input))

	p, err := NewPartitioned(kernel, 9)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for range b.N {
		_ = p.ProcessBlockTo(out, input)
	}
}

package biquad

import (
	"testing"
)

func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewChain(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	if c.Order() != 4 {
		t.Fatalf("Order: got %d, want 4", c.Order())
	}
	if NewChain(nil).Order() != 0 {
		t.Fatal("empty chain should have order 0")
	}
}

func TestChain_MatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()
	s1 := NewSection(coeffs[0])
	s2 := NewSection(coeffs[1])

	chain := NewChain(coeffs)
	for i, x := range testSignal(64) {
		ref := s2.ProcessSample(s1.ProcessSample(x))
		if got := chain.ProcessSample(x); !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_ProcessBlockTo_LeavesSource(t *testing.T) {
	input := testSignal(33)
	orig := append([]float64(nil), input...)

	a := NewChain(twoSectionCoeffs())
	dst := make([]float64, len(input))
	a.ProcessBlockTo(dst, input)

	b := NewChain(twoSectionCoeffs())
	for i, x := range orig {
		if input[i] != x {
			t.Fatalf("source modified at %d", i)
		}
		if want := b.ProcessSample(x); !almostEqual(dst[i], want, eps) {
			t.Fatalf("sample %d: got %v, want %v", i, dst[i], want)
		}
	}
}

func TestChain_ResetRestartsFromSilence(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	first := append([]float64(nil), testSignal(40)...)
	c.ProcessBlock(first)

	c.Reset()
	second := append([]float64(nil), testSignal(40)...)
	c.ProcessBlock(second)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestChain_EmptyInput(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	c.ProcessBlockTo(nil, nil)
	c.ProcessBlock(nil)
	if got := c.ProcessSample(0); got != 0 {
		t.Fatalf("state disturbed by empty input: %v", got)
	}
}

func BenchmarkChain_ProcessBlock(b *testing.B) {
	c := NewChain(twoSectionCoeffs())
	buf := testSignal(1024)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		c.ProcessBlock(buf)
	}
}

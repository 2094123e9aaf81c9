package envelope

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vocal/dsp/core"
	"github.com/cwbudde/algo-vocal/internal/testutil"
)

func TestCoefficient(t *testing.T) {
	tests := []struct {
		name  string
		timeS float64
		fs    float64
		want  float64
	}{
		{"one second", 1, 44100, math.Exp(-1.0 / 44100)},
		{"20 ms", 0.02, 44100, math.Exp(-1.0 / 882)},
		{"zero time", 0, 44100, 0},
		{"negative time", -1, 44100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coefficient(tt.timeS, tt.fs)
			if math.Abs(got-tt.want) > 1e-15 {
				t.Fatalf("Coefficient(%v, %v) = %v, want %v", tt.timeS, tt.fs, got, tt.want)
			}
		})
	}
}

func TestNewSmoother_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		attack  float64
		release float64
		fs      float64
		opts    []Option
	}{
		{"zero attack", 0, 0.1, 44100, nil},
		{"negative release", 0.1, -1, 44100, nil},
		{"nan attack", math.NaN(), 0.1, 44100, nil},
		{"zero sample rate", 0.1, 0.1, 0, nil},
		{"bad direction", 0.1, 0.1, 44100, []Option{WithDirection(Direction(7))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSmoother(tt.attack, tt.release, tt.fs, tt.opts...)
			if !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestSmoother_DirectionSelectsCoefficient(t *testing.T) {
	const fs = 1000.0

	rise, err := NewSmoother(0.001, 1, fs)
	if err != nil {
		t.Fatal(err)
	}
	attack, release := rise.Coefficients()

	// Rising target with AttackOnRise takes the attack coefficient.
	if got, want := rise.Next(0, 1), 1-attack; math.Abs(got-want) > 1e-15 {
		t.Fatalf("rise/rise = %v, want %v", got, want)
	}
	if got, want := rise.Next(1, 0), release; math.Abs(got-want) > 1e-15 {
		t.Fatalf("rise/fall = %v, want %v", got, want)
	}

	fall, err := NewSmoother(0.001, 1, fs, WithDirection(AttackOnFall))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := fall.Next(1, 0), attack; math.Abs(got-want) > 1e-15 {
		t.Fatalf("fall/fall = %v, want %v", got, want)
	}
	if got, want := fall.Next(0, 1), 1-release; math.Abs(got-want) > 1e-15 {
		t.Fatalf("fall/rise = %v, want %v", got, want)
	}
}

func TestSmoother_EqualTargetHolds(t *testing.T) {
	s, err := NewSmoother(0.01, 0.1, 44100, WithInitialValue(0.5))
	if err != nil {
		t.Fatal(err)
	}
	for range 100 {
		if got := s.Step(0.5); got != 0.5 {
			t.Fatalf("Step at target = %v, want 0.5", got)
		}
	}
}

func TestSmoother_HoldTakesPeakThenDecays(t *testing.T) {
	s, err := NewSmoother(0.005, 0.2, 44100)
	if err != nil {
		t.Fatal(err)
	}
	_, release := s.Coefficients()

	if got := s.Hold(0.8); got != 0.8 {
		t.Fatalf("Hold(0.8) from 0 = %v, want 0.8", got)
	}
	if got, want := s.Hold(0.1), 0.8*release; got != want {
		t.Fatalf("Hold(0.1) = %v, want decayed %v", got, want)
	}
	if got := s.Hold(1); got != 1 {
		t.Fatalf("Hold(1) = %v, want 1", got)
	}
	for range 10 * 44100 {
		s.Hold(0)
	}
	if s.Value() > 1e-9 {
		t.Fatalf("Value after long silence = %v, want ~0", s.Value())
	}
}

func TestSmoother_AdvanceMatchesSteps(t *testing.T) {
	for _, dir := range []Direction{AttackOnRise, AttackOnFall} {
		stepped, _ := NewSmoother(0.01, 0.5, 44100, WithDirection(dir), WithInitialValue(-3))
		closed, _ := NewSmoother(0.01, 0.5, 44100, WithDirection(dir), WithInitialValue(-3))

		for _, target := range []float64{8.7, 2, -12, 0} {
			for range 64 {
				stepped.Step(target)
			}
			closed.Advance(target, 64)

			if math.Abs(stepped.Value()-closed.Value()) > 1e-10 {
				t.Fatalf("direction %d target %v: stepped %v, closed %v",
					dir, target, stepped.Value(), closed.Value())
			}
		}
	}
}

func TestSmoother_AdvanceZeroIsNoOp(t *testing.T) {
	s, _ := NewSmoother(0.01, 0.5, 44100, WithInitialValue(2))
	if got := s.Advance(10, 0); got != 2 {
		t.Fatalf("Advance(_, 0) = %v, want 2", got)
	}
}

func TestSmoother_ConvergesToTarget(t *testing.T) {
	s, _ := NewSmoother(0.001, 0.001, 44100)
	for range 44100 {
		s.Step(1)
	}
	if math.Abs(s.Value()-1) > 1e-9 {
		t.Fatalf("Value = %v, want 1", s.Value())
	}
}

func TestSmoother_StreamingEquivalence(t *testing.T) {
	targets := testutil.DeterministicNoise(7, 1, 4096)

	whole, _ := NewSmoother(0.005, 0.05, 44100)
	want := make([]float64, len(targets))
	for i, x := range targets {
		want[i] = whole.Step(math.Abs(x))
	}

	chunked, _ := NewSmoother(0.005, 0.05, 44100)
	got := make([]float64, 0, len(targets))
	for start := 0; start < len(targets); start += 333 {
		end := min(start+333, len(targets))
		for _, x := range targets[start:end] {
			got = append(got, chunked.Step(math.Abs(x)))
		}
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestSmoother_Reset(t *testing.T) {
	s, _ := NewSmoother(0.01, 0.1, 44100, WithInitialValue(1))
	s.Step(0)
	s.ResetInitial()
	if s.Value() != 1 {
		t.Fatalf("ResetInitial: %v, want 1", s.Value())
	}
	s.Reset(-4)
	if s.Value() != -4 {
		t.Fatalf("Reset: %v, want -4", s.Value())
	}
	s.SetValue(3)
	if s.Value() != 3 {
		t.Fatalf("SetValue: %v, want 3", s.Value())
	}
}

func BenchmarkSmootherStep(b *testing.B) {
	s, _ := NewSmoother(0.005, 0.05, 48000)
	x := testutil.DeterministicSine(440, 48000, 1, 1024)

	b.ResetTimer()
	for range b.N {
		for _, v := range x {
			s.Step(math.Abs(v))
		}
	}
}

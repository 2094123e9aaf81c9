package reverb_test

import (
	"fmt"

	"github.com/cwbudde/algo-vocal/dsp/effects/reverb"
)

func ExampleConvolutionReverb() {
	ir := []float64{0, 0, 0.5}

	r, err := reverb.NewConvolutionReverb(ir, 4)
	if err != nil {
		panic(err)
	}
	if err := r.SetMix(0.5, reverb.MixLinear); err != nil {
		panic(err)
	}

	block := []float64{1, 0, 0, 0}
	if err := r.ProcessInPlace(block); err != nil {
		panic(err)
	}

	fmt.Println(block)
	// Output:
	// [0.5 0 0.25 0]
}

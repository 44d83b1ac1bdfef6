package synth

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrLengthMismatch is returned when two spectra are not aligned.
var ErrLengthMismatch = errors.New("synth: spectra lengths differ")

// negligible ordinates are treated as zero
const negligible = 1e-30

// Fit summarizes the relative error |actual-target|/target over a period
// grid. Periods whose target is negligible contribute zero error.
type Fit struct {
	Max float64 // largest relative error
	RMS float64 // root-mean-square relative error
	CV  float64 // coefficient of variation of the relative error
}

func (f Fit) String() string {
	return fmt.Sprintf("max=%.4f rms=%.4f cv=%.4f", f.Max, f.RMS, f.CV)
}

// FitError compares an actual spectrum against a target.
func FitError(actual, target []float64) (Fit, error) {
	if len(actual) != len(target) {
		return Fit{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(actual), len(target))
	}
	if len(target) == 0 {
		return Fit{}, nil
	}

	re := make([]float64, len(target))
	for i, t := range target {
		if t > negligible {
			re[i] = math.Abs(actual[i]-t) / t
		}
	}

	sq := make([]float64, len(re))
	floats.MulTo(sq, re, re)

	fit := Fit{
		Max: floats.Max(re),
		RMS: math.Sqrt(stat.Mean(sq, nil)),
	}
	if mean, std := stat.PopMeanStdDev(re, nil); mean > 0 {
		fit.CV = std / mean
	}
	return fit, nil
}

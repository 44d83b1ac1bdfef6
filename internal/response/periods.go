package response

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultPeriods builds an increasing grid of n periods from p1 to p2.
//
// MixedSpacing samples short periods logarithmically from p1 to 1 s and
// long periods linearly from 1 s to p2, sharing the 1 s point once. If the
// whole range lies on one side of 1 s it degrades to pure log (p2 ≤ 1) or
// pure linear (p1 ≥ 1) spacing.
func DefaultPeriods(p1, p2 float64, n int, spacing Spacing) ([]float64, error) {
	if p1 <= 0 || p2 <= p1 || n < 2 {
		return nil, fmt.Errorf("%w: p1=%g p2=%g n=%d", ErrInvalidGrid, p1, p2, n)
	}

	switch spacing {
	case LogSpacing:
		return logspace(p1, p2, n), nil
	case LinearSpacing:
		return linspace(p1, p2, n), nil
	case MixedSpacing:
		switch {
		case p1 >= 1:
			return linspace(p1, p2, n), nil
		case p2 <= 1:
			return logspace(p1, p2, n), nil
		}
		nShort := n / 2
		nLong := n - nShort + 1
		out := logspace(p1, 1, nShort)
		return append(out, linspace(1, p2, nLong)[1:]...), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownSpacing, spacing)
}

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	return floats.Span(out, a, b)
}

func logspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	floats.LogSpan(out, a, b)
	// pin the end points exactly; exp(log(x)) may round
	out[0], out[n-1] = a, b
	return out
}

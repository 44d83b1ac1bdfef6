package gb50011

import (
	"errors"
	"fmt"
	"math"
)

// GB 50011-2010 Section 5.1.5 seismic influence coefficient curve

const (
	// RisePeriod ends the linear rise segment (s).
	RisePeriod = 0.1

	// CutoffPeriod is the longest period the code curve is defined for (s).
	CutoffPeriod = 6.0

	// StartFactor is alpha(0)/alpha_max for 5% damping.
	StartFactor = 0.45

	// DefaultDamping is the damping ratio the tables are drawn for.
	DefaultDamping = 0.05
)

// ErrInvalidParams is returned for non-positive Tg or alpha_max.
var ErrInvalidParams = errors.New("gb50011: Tg and alpha_max must be positive")

// Validate checks that both parameters are positive.
func (p Params) Validate() error {
	if p.Tg <= 0 || p.AlphaMax <= 0 {
		return fmt.Errorf("%w: Tg=%g, alpha_max=%g", ErrInvalidParams, p.Tg, p.AlphaMax)
	}
	return nil
}

// DampingFactors returns the decay exponent gamma, the linear-decay slope
// adjustment eta1 and the damping adjustment eta2 for damping ratio zeta.
// Section 5.1.5, equations 5.1.5-1 to 5.1.5-3
func DampingFactors(zeta float64) (gamma, eta1, eta2 float64) {
	gamma = 0.9 + (0.05-zeta)/(0.3+6*zeta)
	eta1 = math.Max(0, 0.02+(0.05-zeta)/(4+32*zeta))
	eta2 = math.Max(0.55, 1+(0.05-zeta)/(0.08+1.6*zeta))
	return gamma, eta1, eta2
}

// Alpha evaluates the influence coefficient at a single period.
//
// Regular structures use four segments: linear rise below 0.1 s, plateau
// up to Tg, power-law decay up to 5Tg and linear decay up to 6 s.
// Isolated structures keep the power-law decay all the way to 6 s.
// Periods beyond 6 s yield zero. The result is never negative.
func Alpha(period float64, p Params, zeta float64, isolation bool) float64 {
	gamma, eta1, eta2 := DampingFactors(zeta)
	peak := eta2 * p.AlphaMax

	var alpha float64
	switch {
	case period < RisePeriod:
		alpha = StartFactor*p.AlphaMax + (period/RisePeriod)*(peak-StartFactor*p.AlphaMax)
	case period <= p.Tg:
		alpha = peak
	case isolation && period <= CutoffPeriod:
		alpha = peak * math.Pow(p.Tg/period, gamma)
	case !isolation && period <= 5*p.Tg:
		alpha = peak * math.Pow(p.Tg/period, gamma)
	case !isolation && period <= CutoffPeriod:
		alpha = p.AlphaMax * (eta2*math.Pow(0.2, gamma) - eta1*(period-5*p.Tg))
	}

	return math.Max(alpha, 0)
}

// Curve evaluates the influence coefficient for every period.
func Curve(periods []float64, p Params, zeta float64, isolation bool) []float64 {
	out := make([]float64, len(periods))
	for i, t := range periods {
		out[i] = Alpha(t, p, zeta, isolation)
	}
	return out
}

// FromParams looks up the code parameters and evaluates the curve.
func FromParams(periods []float64, intensity float64, group int, siteClass string, level Level, zeta float64, isolation bool) ([]float64, error) {
	p, err := Lookup(intensity, group, siteClass, level)
	if err != nil {
		return nil, err
	}
	return Curve(periods, p, zeta, isolation), nil
}

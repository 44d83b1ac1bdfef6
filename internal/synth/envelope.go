package synth

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEnvelope is returned for envelope fractions outside (0, 1).
var ErrInvalidEnvelope = errors.New("synth: invalid envelope")

// Envelope is a three-stage intensity envelope: a squared ramp over the
// rise fraction of the duration, a unit plateau over the strong fraction,
// then exponential decay exp(-DecayRate·t/t_decay) over the rest.
type Envelope struct {
	Rise      float64
	Strong    float64
	DecayRate float64
}

// DefaultEnvelope rises over 10 %, holds for 50 % and decays by e^-3.
func DefaultEnvelope() Envelope {
	return Envelope{Rise: 0.1, Strong: 0.5, DecayRate: 3}
}

func (e Envelope) Validate() error {
	if e.Rise <= 0 || e.Strong < 0 || e.Rise+e.Strong >= 1 {
		return fmt.Errorf("%w: rise=%g strong=%g", ErrInvalidEnvelope, e.Rise, e.Strong)
	}
	if e.DecayRate < 0 {
		return fmt.Errorf("%w: decay rate %g", ErrInvalidEnvelope, e.DecayRate)
	}
	return nil
}

// Shape samples the envelope at n points spaced dt apart.
func (e Envelope) Shape(n int, dt float64) []float64 {
	total := float64(n-1) * dt
	tRise := total * e.Rise
	tStrong := total * e.Strong
	tDecay := total - tRise - tStrong

	env := make([]float64, n)
	for i := range env {
		t := float64(i) * dt
		switch {
		case t <= tRise:
			env[i] = (t / tRise) * (t / tRise)
		case t <= tRise+tStrong:
			env[i] = 1
		default:
			env[i] = math.Exp(-e.DecayRate * (t - tRise - tStrong) / tDecay)
		}
	}
	return env
}

package synth

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("synth: invalid configuration")

// Config controls one synthesis run.
type Config struct {
	N       int     // output samples
	Dt      float64 // sample interval (s)
	Damping float64 // damping ratio of the matched spectrum
	PGA     float64 // peak ground acceleration of the output
	Tol     float64 // target max relative error
	MaxIter int
	Seed    int64

	// Per-iteration correction ratios are clipped to [ClipMin, ClipMax].
	ClipMin float64
	ClipMax float64

	Envelope Envelope
}

// DefaultConfig returns the standard settings: 4096 samples at 0.02 s,
// 5 % damping, unit PGA, 5 % tolerance, 50 iterations, ratios clipped to
// [0.5, 2].
func DefaultConfig() Config {
	return Config{
		N:        4096,
		Dt:       0.02,
		Damping:  0.05,
		PGA:      1,
		Tol:      0.05,
		MaxIter:  50,
		Seed:     1,
		ClipMin:  0.5,
		ClipMax:  2,
		Envelope: DefaultEnvelope(),
	}
}

func (c Config) Validate() error {
	switch {
	case c.N < 16:
		return fmt.Errorf("%w: N=%d (need at least 16)", ErrInvalidConfig, c.N)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt=%g", ErrInvalidConfig, c.Dt)
	case c.Damping < 0 || c.Damping >= 1:
		return fmt.Errorf("%w: damping=%g", ErrInvalidConfig, c.Damping)
	case c.PGA <= 0:
		return fmt.Errorf("%w: pga=%g", ErrInvalidConfig, c.PGA)
	case c.Tol < 0:
		return fmt.Errorf("%w: tol=%g", ErrInvalidConfig, c.Tol)
	case c.MaxIter < 1:
		return fmt.Errorf("%w: max_iter=%d", ErrInvalidConfig, c.MaxIter)
	case c.ClipMin <= 0 || c.ClipMax < c.ClipMin:
		return fmt.Errorf("%w: clip=[%g, %g]", ErrInvalidConfig, c.ClipMin, c.ClipMax)
	}
	return c.Envelope.Validate()
}

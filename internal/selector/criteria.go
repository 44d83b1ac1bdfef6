package selector

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/goseis/internal/gb50011"
	"github.com/alexiusacademia/goseis/internal/modal"
)

var ErrInvalidCriteria = errors.New("selector: invalid criteria")

// Default gate settings.
const (
	DefaultDurationFactor    = 5.0
	DefaultDurationThreshold = 0.1
	DefaultSpectralTol       = 0.20
	DefaultSpectralPGA       = 1.0
	DefaultShearPGA          = 2.0
	DefaultShearMin          = 0.65
	DefaultShearMax          = 1.35
)

// Criteria configures the three selection gates.
type Criteria struct {
	Design    gb50011.Params
	Periods   []float64 // principal structural periods (s)
	Damping   float64
	Isolation bool

	// Effective duration (first to last |a| ≥ DurationThreshold·PGA) must
	// reach DurationFactor times the longest principal period.
	DurationFactor    float64
	DurationThreshold float64

	// Records are scaled to SpectralPGA before their Sa is compared with
	// the code spectrum at each principal period.
	SpectralTol float64
	SpectralPGA float64

	// Shear enables the base-shear gate when non-nil.
	Shear *ShearCriteria
}

// ShearCriteria compares time-history base shear with the SRSS value.
type ShearCriteria struct {
	Mass      []float64 // story masses, ground story first
	Stiffness []float64 // story stiffnesses
	PGA       float64   // record PGA for the time-history run
	Min, Max  float64   // open interval the ratio must fall in
}

// DefaultCriteria returns the standard gates for a design point and set of
// principal periods, without the shear gate.
func DefaultCriteria(design gb50011.Params, periods []float64) Criteria {
	return Criteria{
		Design:            design,
		Periods:           append([]float64(nil), periods...),
		Damping:           gb50011.DefaultDamping,
		DurationFactor:    DefaultDurationFactor,
		DurationThreshold: DefaultDurationThreshold,
		SpectralTol:       DefaultSpectralTol,
		SpectralPGA:       DefaultSpectralPGA,
	}
}

// NewShearCriteria returns a shear gate with the default PGA and range.
func NewShearCriteria(mass, stiffness []float64) *ShearCriteria {
	return &ShearCriteria{
		Mass:      append([]float64(nil), mass...),
		Stiffness: append([]float64(nil), stiffness...),
		PGA:       DefaultShearPGA,
		Min:       DefaultShearMin,
		Max:       DefaultShearMax,
	}
}

// LongestPeriod returns max(Periods).
func (c Criteria) LongestPeriod() float64 {
	longest := 0.0
	for _, T := range c.Periods {
		longest = math.Max(longest, T)
	}
	return longest
}

func (c Criteria) Validate() error {
	if err := c.Design.Validate(); err != nil {
		return err
	}
	if len(c.Periods) == 0 {
		return fmt.Errorf("%w: no principal periods", ErrInvalidCriteria)
	}
	for _, T := range c.Periods {
		if !(T > 0) {
			return fmt.Errorf("%w: period %g", ErrInvalidCriteria, T)
		}
	}
	switch {
	case c.Damping < 0 || c.Damping >= 1:
		return fmt.Errorf("%w: damping %g", ErrInvalidCriteria, c.Damping)
	case c.DurationFactor < 0:
		return fmt.Errorf("%w: duration factor %g", ErrInvalidCriteria, c.DurationFactor)
	case c.DurationThreshold <= 0 || c.DurationThreshold > 1:
		return fmt.Errorf("%w: duration threshold %g", ErrInvalidCriteria, c.DurationThreshold)
	case c.SpectralTol < 0:
		return fmt.Errorf("%w: spectral tolerance %g", ErrInvalidCriteria, c.SpectralTol)
	case c.SpectralPGA <= 0:
		return fmt.Errorf("%w: spectral PGA %g", ErrInvalidCriteria, c.SpectralPGA)
	}

	if s := c.Shear; s != nil {
		if _, err := modal.New(s.Mass, s.Stiffness); err != nil {
			return err
		}
		if s.PGA <= 0 || s.Min >= s.Max {
			return fmt.Errorf("%w: shear pga=%g range=(%g, %g)", ErrInvalidCriteria, s.PGA, s.Min, s.Max)
		}
	}
	return nil
}

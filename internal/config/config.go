// Package config loads goseis project files. A project file is YAML; any
// key left out keeps its default.
//
//	design:
//	  intensity: 8
//	  group: 2
//	  site: II
//	  level: frequent
//	periods: {min: 0.04, max: 6, points: 200, spacing: mixed}
//	selection:
//	  periods: [1.2, 0.4, 0.25]
//	  spectral_tol: 0.2
//	building:
//	  mass: [2.0e5, 2.0e5, 1.8e5]
//	  stiffness: [1.5e8, 1.5e8, 1.2e8]
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/alexiusacademia/goseis/internal/gb50011"
	"github.com/alexiusacademia/goseis/internal/modal"
	"github.com/alexiusacademia/goseis/internal/response"
	"github.com/alexiusacademia/goseis/internal/selector"
	"github.com/alexiusacademia/goseis/internal/synth"
)

var ErrInvalid = errors.New("config: invalid value")

// Config is the project file.
type Config struct {
	Design    Design    `yaml:"design"`
	Periods   Periods   `yaml:"periods"`
	Response  Response  `yaml:"response"`
	Synthesis Synthesis `yaml:"synthesis"`
	Selection Selection `yaml:"selection"`
	Building  *Building `yaml:"building,omitempty"`
}

// Design selects the GB 50011 design spectrum.
type Design struct {
	Intensity float64 `yaml:"intensity"`
	Group     int     `yaml:"group"`
	Site      string  `yaml:"site"`
	Level     string  `yaml:"level"`
	Damping   float64 `yaml:"damping"`
	Isolation bool    `yaml:"isolation"`
}

// Periods describes the analysis period grid.
type Periods struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Points  int     `yaml:"points"`
	Spacing string  `yaml:"spacing"`
}

type Response struct {
	Method string `yaml:"method"`
}

type Synthesis struct {
	Points    int     `yaml:"points"`
	Dt        float64 `yaml:"dt"`
	PGA       float64 `yaml:"pga"` // 0 derives 0.45·αmax
	Tol       float64 `yaml:"tol"`
	MaxIter   int     `yaml:"max_iter"`
	Seed      int64   `yaml:"seed"`
	ClipMin   float64 `yaml:"clip_min"`
	ClipMax   float64 `yaml:"clip_max"`
	Rise      float64 `yaml:"rise"`
	Strong    float64 `yaml:"strong"`
	DecayRate float64 `yaml:"decay_rate"`
}

type Selection struct {
	Periods           []float64 `yaml:"periods"`
	DurationFactor    float64   `yaml:"duration_factor"`
	DurationThreshold float64   `yaml:"duration_threshold"`
	SpectralTol       float64   `yaml:"spectral_tol"`
	SpectralPGA       float64   `yaml:"spectral_pga"`
	Shear             bool      `yaml:"shear"`
	ShearPGA          float64   `yaml:"shear_pga"`
	ShearMin          float64   `yaml:"shear_min"`
	ShearMax          float64   `yaml:"shear_max"`
}

// Building is a lumped-mass shear building, ground story first.
type Building struct {
	Mass      []float64 `yaml:"mass"`
	Stiffness []float64 `yaml:"stiffness"`
}

// Default returns the built-in settings: intensity 8, group 2, site II,
// frequent level, mixed grid 0.04-6 s.
func Default() *Config {
	sc := synth.DefaultConfig()
	return &Config{
		Design: Design{
			Intensity: 8,
			Group:     2,
			Site:      "II",
			Level:     string(gb50011.Frequent),
			Damping:   gb50011.DefaultDamping,
		},
		Periods: Periods{Min: 0.04, Max: 6, Points: 200, Spacing: "mixed"},
		Response: Response{
			Method: response.Newmark.String(),
		},
		Synthesis: Synthesis{
			Points:    sc.N,
			Dt:        sc.Dt,
			PGA:       0, // from the design spectrum
			Tol:       sc.Tol,
			MaxIter:   sc.MaxIter,
			Seed:      sc.Seed,
			ClipMin:   sc.ClipMin,
			ClipMax:   sc.ClipMax,
			Rise:      sc.Envelope.Rise,
			Strong:    sc.Envelope.Strong,
			DecayRate: sc.Envelope.DecayRate,
		},
		Selection: Selection{
			DurationFactor:    selector.DefaultDurationFactor,
			DurationThreshold: selector.DefaultDurationThreshold,
			SpectralTol:       selector.DefaultSpectralTol,
			SpectralPGA:       selector.DefaultSpectralPGA,
			ShearPGA:          selector.DefaultShearPGA,
			ShearMin:          selector.DefaultShearMin,
			ShearMax:          selector.DefaultShearMax,
		},
	}
}

// Load reads a project file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate resolves every enumerated value and range once, so later
// conversions cannot fail on malformed input.
func (c *Config) Validate() error {
	if _, err := c.DesignParams(); err != nil {
		return err
	}
	if _, err := c.PeriodGrid(); err != nil {
		return err
	}
	if _, err := response.ParseMethod(c.Response.Method); err != nil {
		return err
	}
	if err := c.SynthConfig().Validate(); err != nil {
		return err
	}
	if c.Building != nil {
		if _, err := modal.New(c.Building.Mass, c.Building.Stiffness); err != nil {
			return err
		}
	}
	if c.Selection.Shear && c.Building == nil {
		return fmt.Errorf("%w: selection.shear needs a building", ErrInvalid)
	}
	return nil
}

// DesignParams looks up Tg and alpha_max.
func (c *Config) DesignParams() (gb50011.Params, error) {
	d := c.Design
	if d.Damping < 0 || d.Damping >= 1 {
		return gb50011.Params{}, fmt.Errorf("%w: design.damping %g", ErrInvalid, d.Damping)
	}
	return gb50011.Lookup(d.Intensity, d.Group, d.Site, gb50011.Level(d.Level))
}

// PeriodGrid builds the analysis periods.
func (c *Config) PeriodGrid() ([]float64, error) {
	sp, err := response.ParseSpacing(c.Periods.Spacing)
	if err != nil {
		return nil, err
	}
	return response.DefaultPeriods(c.Periods.Min, c.Periods.Max, c.Periods.Points, sp)
}

// Method returns the response method.
func (c *Config) Method() response.Method {
	m, _ := response.ParseMethod(c.Response.Method)
	return m
}

// SynthConfig converts the synthesis section. A zero PGA is taken from the
// design spectrum at T = 0, which keeps the record consistent with a target
// expressed in g.
func (c *Config) SynthConfig() synth.Config {
	s := c.Synthesis
	pga := s.PGA
	if pga == 0 {
		if p, err := c.DesignParams(); err == nil {
			pga = gb50011.StartFactor * p.AlphaMax
		}
	}
	return synth.Config{
		N:        s.Points,
		Dt:       s.Dt,
		Damping:  c.Design.Damping,
		PGA:      pga,
		Tol:      s.Tol,
		MaxIter:  s.MaxIter,
		Seed:     s.Seed,
		ClipMin:  s.ClipMin,
		ClipMax:  s.ClipMax,
		Envelope: synth.Envelope{Rise: s.Rise, Strong: s.Strong, DecayRate: s.DecayRate},
	}
}

// maxPrincipalModes bounds the building modes used as principal periods.
const maxPrincipalModes = 3

// Criteria converts the selection section. Without explicit principal
// periods the first building modes are used.
func (c *Config) Criteria() (selector.Criteria, error) {
	params, err := c.DesignParams()
	if err != nil {
		return selector.Criteria{}, err
	}

	periods := c.Selection.Periods
	if len(periods) == 0 {
		if c.Building == nil {
			return selector.Criteria{}, fmt.Errorf("%w: selection.periods or building required", ErrInvalid)
		}
		m, err := modal.New(c.Building.Mass, c.Building.Stiffness)
		if err != nil {
			return selector.Criteria{}, err
		}
		md, err := m.Modes()
		if err != nil {
			return selector.Criteria{}, err
		}
		periods = md.Periods[:min(maxPrincipalModes, md.Len())]
	}

	s := c.Selection
	crit := selector.DefaultCriteria(params, periods)
	crit.Damping = c.Design.Damping
	crit.Isolation = c.Design.Isolation
	crit.DurationFactor = s.DurationFactor
	crit.DurationThreshold = s.DurationThreshold
	crit.SpectralTol = s.SpectralTol
	crit.SpectralPGA = s.SpectralPGA
	if s.Shear {
		if c.Building == nil {
			return selector.Criteria{}, fmt.Errorf("%w: selection.shear needs a building", ErrInvalid)
		}
		crit.Shear = &selector.ShearCriteria{
			Mass:      c.Building.Mass,
			Stiffness: c.Building.Stiffness,
			PGA:       s.ShearPGA,
			Min:       s.ShearMin,
			Max:       s.ShearMax,
		}
	}
	return crit, crit.Validate()
}

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/goseis/internal/gb50011"
	"github.com/alexiusacademia/goseis/internal/response"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	p, err := cfg.DesignParams()
	if err != nil {
		t.Fatal(err)
	}
	if p.Tg != 0.40 || p.AlphaMax != 0.16 {
		t.Errorf("design params = %+v", p)
	}
	grid, err := cfg.PeriodGrid()
	if err != nil || len(grid) != 200 {
		t.Errorf("grid len=%d err=%v", len(grid), err)
	}
	if cfg.Method() != response.Newmark {
		t.Errorf("method = %v", cfg.Method())
	}
	if sc := cfg.SynthConfig(); math.Abs(sc.PGA-0.072) > 1e-12 {
		t.Errorf("derived PGA = %v, want 0.45*0.16", sc.PGA)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	src := `
design:
  intensity: 7.5
  site: III
  level: rare
periods: {min: 0.05, max: 4, points: 80, spacing: log}
response:
  method: mixed
synthesis:
  pga: 0.3
  seed: 7
selection:
  periods: [1.2, 0.4]
  spectral_tol: 0.35
`
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Design.Group != 2 || cfg.Design.Damping != gb50011.DefaultDamping {
		t.Errorf("unset design keys lost defaults: %+v", cfg.Design)
	}
	p, _ := cfg.DesignParams()
	if p.Tg != 0.55 || p.AlphaMax != 0.72 {
		t.Errorf("design params = %+v", p)
	}
	if cfg.Method() != response.Mixed {
		t.Errorf("method = %v", cfg.Method())
	}

	sc := cfg.SynthConfig()
	if sc.PGA != 0.3 || sc.Seed != 7 || sc.N != 4096 || sc.ClipMax != 2 {
		t.Errorf("synth config = %+v", sc)
	}

	crit, err := cfg.Criteria()
	if err != nil {
		t.Fatal(err)
	}
	if len(crit.Periods) != 2 || crit.SpectralTol != 0.35 || crit.DurationFactor != 5 || crit.Shear != nil {
		t.Errorf("criteria = %+v", crit)
	}
}

func TestCriteriaFromBuildingModes(t *testing.T) {
	src := `
building:
  mass: [2.0e5, 2.0e5, 2.0e5, 2.0e5]
  stiffness: [1.5e8, 1.5e8, 1.5e8, 1.5e8]
selection:
  shear: true
  shear_min: 0.8
`
	cfg, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	crit, err := cfg.Criteria()
	if err != nil {
		t.Fatal(err)
	}
	if len(crit.Periods) != 3 {
		t.Fatalf("principal periods = %v", crit.Periods)
	}
	if !(crit.Periods[0] > crit.Periods[1] && crit.Periods[1] > crit.Periods[2]) {
		t.Errorf("modes not ordered: %v", crit.Periods)
	}
	if crit.Shear == nil || crit.Shear.Min != 0.8 || crit.Shear.Max != 1.35 || crit.Shear.PGA != 2 {
		t.Errorf("shear = %+v", crit.Shear)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"bad site", "design: {site: V}", nil},
		{"bad method", "response: {method: rk4}", response.ErrUnknownMethod},
		{"bad spacing", "periods: {spacing: cubic}", response.ErrUnknownSpacing},
		{"bad grid", "periods: {min: 2, max: 1}", response.ErrInvalidGrid},
		{"shear without building", "selection: {shear: true}", ErrInvalid},
		{"unknown key", "desing: {group: 1}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Parse() accepted invalid input")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}

	var lookup *gb50011.LookupError
	if _, err := Parse([]byte("design: {group: 4}")); !errors.As(err, &lookup) || lookup.Axis != "group" {
		t.Errorf("group error = %v", err)
	}
}

func TestCriteriaNeedsPeriods(t *testing.T) {
	if _, err := Default().Criteria(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Criteria() without periods = %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Selection.Periods = []float64{0.9}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v\n%s", err, data)
	}
	if back.Synthesis != cfg.Synthesis || back.Periods != cfg.Periods {
		t.Errorf("round trip changed sections")
	}
}

// Package selector screens candidate ground-motion records for time-history
// analysis. Every record passes through up to three gates, stopping at the
// first failure:
//
//  1. effective duration long enough for the structure's longest period
//  2. spectral deviation from the GB 50011 curve at the principal periods
//  3. optionally, time-history base shear within a band of the SRSS value
//
// Metrics computed before a failure are kept in the Result.
package selector

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alexiusacademia/goseis/internal/gb50011"
	"github.com/alexiusacademia/goseis/internal/log"
	"github.com/alexiusacademia/goseis/internal/modal"
	"github.com/alexiusacademia/goseis/internal/record"
	"github.com/alexiusacademia/goseis/internal/response"
)

// Deviation is the spectral comparison at one principal period.
type Deviation struct {
	Period    float64
	Sa        float64 // record, scaled to SpectralPGA
	Target    float64 // code spectrum
	Deviation float64 // |Sa-Target|/Target, 0 when Target is 0
}

// Result is the verdict for one record.
type Result struct {
	Record            *record.Record
	Err               error // set when the record itself is unusable
	EffectiveDuration float64
	Deviations        []Deviation
	ShearChecked      bool
	ShearRatio        float64
	THAShear          float64

	PassedDuration bool
	PassedSpectral bool
	PassedShear    bool // true when the gate is disabled
	Passed         bool
}

// Name returns the record name.
func (r *Result) Name() string {
	if r.Record == nil {
		return ""
	}
	return r.Record.Name
}

// MaxDeviation returns the largest spectral deviation, or 0 if the gate
// was not reached.
func (r *Result) MaxDeviation() float64 {
	m := 0.0
	for _, d := range r.Deviations {
		m = math.Max(m, d.Deviation)
	}
	return m
}

// ProgressFunc is called before each record is evaluated.
type ProgressFunc func(index, total int, name string)

// Selector evaluates records against fixed criteria. It is read-only after
// New, so Evaluate may be called from several goroutines at once.
type Selector struct {
	criteria Criteria
	target   []float64 // code spectrum at the principal periods
	model    *modal.Model
	srss     float64
}

// New precomputes the code spectrum at the principal periods and, when the
// shear gate is enabled, the SRSS base shear of the building.
func New(c Criteria) (*Selector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := &Selector{
		criteria: c,
		target:   gb50011.Curve(c.Periods, c.Design, c.Damping, c.Isolation),
	}

	if c.Shear != nil {
		m, err := modal.New(c.Shear.Mass, c.Shear.Stiffness)
		if err != nil {
			return nil, err
		}
		md, err := m.Modes()
		if err != nil {
			return nil, err
		}
		s.model = m
		s.srss, _ = m.SRSSBaseShear(md, modal.CodeSpectrum(c.Design, c.Damping, c.Isolation))
		log.Debugw("srss base shear", "value", s.srss, "periods", md.Periods)
	}
	return s, nil
}

// Criteria returns the selector's criteria.
func (s *Selector) Criteria() Criteria { return s.criteria }

// Target returns the code spectrum at the principal periods.
func (s *Selector) Target() []float64 {
	return append([]float64(nil), s.target...)
}

// SRSSBaseShear returns the reference base shear, 0 without a shear gate.
func (s *Selector) SRSSBaseShear() float64 { return s.srss }

// Evaluate runs the gates on a single record.
func (s *Selector) Evaluate(rec *record.Record) Result {
	res := Result{Record: rec, PassedShear: true}
	if err := rec.Validate(2); err != nil {
		res.Err = err
		res.PassedShear = false
		return res
	}

	res.PassedDuration, res.EffectiveDuration = s.checkDuration(rec)
	if !res.PassedDuration {
		return res
	}

	var err error
	res.PassedSpectral, res.Deviations, err = s.checkSpectrum(rec)
	if err != nil {
		res.Err = err
		return res
	}
	if !res.PassedSpectral {
		return res
	}

	if s.model != nil {
		res.ShearChecked = true
		res.PassedShear, res.ShearRatio, res.THAShear, err = s.checkShear(rec)
		if err != nil {
			res.Err = err
			return res
		}
		if !res.PassedShear {
			return res
		}
	}

	res.Passed = true
	return res
}

// EffectiveDuration returns the span between the first and last sample
// with |a| ≥ threshold·PGA. A zero record has no effective duration.
func EffectiveDuration(rec *record.Record, threshold float64) float64 {
	pga := rec.PGA()
	if pga == 0 {
		return 0
	}
	limit := threshold * pga
	first, last := -1, -1
	for i, a := range rec.Acc {
		if math.Abs(a) >= limit {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return 0
	}
	return float64(last-first) * rec.Dt
}

func (s *Selector) checkDuration(rec *record.Record) (bool, float64) {
	if rec.PGA() == 0 {
		return false, 0
	}
	d := EffectiveDuration(rec, s.criteria.DurationThreshold)
	return d >= s.criteria.DurationFactor*s.criteria.LongestPeriod(), d
}

func (s *Selector) checkSpectrum(rec *record.Record) (bool, []Deviation, error) {
	c := s.criteria
	scaled := rec.Normalized(c.SpectralPGA)
	sp, err := response.Compute(scaled.Acc, scaled.Dt, c.Periods, c.Damping, response.Newmark)
	if err != nil {
		return false, nil, err
	}

	pass := true
	devs := make([]Deviation, len(c.Periods))
	for i, T := range c.Periods {
		d := Deviation{Period: T, Sa: sp.Sa[i], Target: s.target[i]}
		if d.Target > 0 {
			d.Deviation = math.Abs(d.Sa-d.Target) / d.Target
		}
		if d.Deviation > c.SpectralTol {
			pass = false
		}
		devs[i] = d
	}
	return pass, devs, nil
}

func (s *Selector) checkShear(rec *record.Record) (pass bool, ratio, tha float64, err error) {
	sc := s.criteria.Shear
	scaled := rec.Normalized(sc.PGA)
	tha, err = s.model.TimeHistoryBaseShear(scaled.Acc, scaled.Dt, s.criteria.Damping)
	if err != nil {
		return false, 0, 0, err
	}
	if s.srss > 0 {
		ratio = tha / s.srss
	}
	return sc.Min < ratio && ratio < sc.Max, ratio, tha, nil
}

// Report collects the results of one Select run in input order.
type Report struct {
	RunID     string
	Started   time.Time
	Elapsed   time.Duration
	Results   []Result
	Cancelled bool // the run stopped before all records were evaluated
}

// Select evaluates records in order. Cancelling ctx stops the run between
// records; the partial report is returned with Cancelled set.
func (s *Selector) Select(ctx context.Context, records []*record.Record, progress ProgressFunc) *Report {
	rep := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Results: make([]Result, 0, len(records)),
	}
	defer func() { rep.Elapsed = time.Since(rep.Started) }()

	for i, rec := range records {
		if ctx.Err() != nil {
			rep.Cancelled = true
			log.Infow("selection cancelled", "run", rep.RunID, "evaluated", i, "total", len(records))
			return rep
		}
		if progress != nil {
			progress(i+1, len(records), rec.Name)
		}

		res := s.Evaluate(rec)
		rep.Results = append(rep.Results, res)
		log.Debugw("record evaluated",
			"run", rep.RunID,
			"record", rec.Name,
			"duration", res.EffectiveDuration,
			"max_deviation", res.MaxDeviation(),
			"shear_ratio", res.ShearRatio,
			"passed", res.Passed,
			"err", res.Err,
		)
	}
	return rep
}

// Passed returns the results that cleared every gate.
func (r *Report) Passed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Summary counts how many records cleared each gate.
type Summary struct {
	Total          int
	PassedDuration int
	PassedSpectral int
	PassedShear    int // among records that reached the shear gate
	PassedAll      int
	Failed         int // records that could not be evaluated
	PassedNames    []string
}

func (r *Report) Summary() Summary {
	sum := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Err != nil {
			sum.Failed++
		}
		if res.PassedDuration {
			sum.PassedDuration++
		}
		if res.PassedSpectral {
			sum.PassedSpectral++
		}
		if res.ShearChecked && res.PassedShear {
			sum.PassedShear++
		}
		if res.Passed {
			sum.PassedAll++
			sum.PassedNames = append(sum.PassedNames, res.Name())
		}
	}
	return sum
}

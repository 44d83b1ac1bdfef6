// Package synth generates artificial accelerograms whose response spectrum
// matches a target spectrum by iterative frequency-domain scaling.
//
// Each iteration computes the Newmark spectrum of the current waveform,
// scales the Fourier amplitudes by the clipped ratio target/actual
// interpolated over frequency, and re-applies the envelope and PGA. The
// waveform with the lowest max error seen so far is kept; convergence is
// not guaranteed and callers should inspect Result.Fit and Result.Status.
package synth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/alexiusacademia/goseis/internal/log"
	"github.com/alexiusacademia/goseis/internal/record"
	"github.com/alexiusacademia/goseis/internal/response"
)

// ErrInvalidTarget is returned for empty or misaligned target spectra.
var ErrInvalidTarget = errors.New("synth: invalid target spectrum")

// Status reports how a run ended.
type Status int

const (
	Converged Status = iota
	NotConverged
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case NotConverged:
		return "not converged"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ProgressFunc is called after every evaluated iteration.
type ProgressFunc func(iteration, maxIter int, fit Fit)

// Result is the outcome of Generate.
type Result struct {
	ID         string
	Record     *record.Record     // best waveform seen
	Spectrum   *response.Spectrum // spectrum of Record at the target periods
	Fit        Fit                // fit of Record against the target
	Status     Status
	Iterations int   // evaluated iterations
	History    []Fit // fit of every evaluated iterate, the initial waveform first
}

// best is the lowest-max-error waveform accumulated over the iterations.
type best struct {
	acc []float64
	sp  *response.Spectrum
	fit Fit
	ok  bool
}

func (b *best) offer(acc []float64, sp *response.Spectrum, fit Fit) {
	if b.ok && fit.Max >= b.fit.Max {
		return
	}
	b.acc = append(b.acc[:0], acc...)
	b.sp = sp
	b.fit = fit
	b.ok = true
}

// Generate synthesizes a waveform matching target (Sa at periods).
// Cancellation through ctx is checked before every iteration and yields
// Status Cancelled with the best waveform found so far; it is not an error.
func Generate(ctx context.Context, target, periods []float64, cfg Config, progress ProgressFunc) (*Result, error) {
	if len(target) == 0 || len(target) != len(periods) {
		return nil, fmt.Errorf("%w: %d ordinates for %d periods", ErrInvalidTarget, len(target), len(periods))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, T := range periods {
		if !(T > 0) {
			return nil, fmt.Errorf("%w: period %g", ErrInvalidTarget, T)
		}
	}

	env := cfg.Envelope.Shape(cfg.N, cfg.Dt)
	rng := rand.New(rand.NewSource(cfg.Seed))

	acc := make([]float64, cfg.N)
	for i := range acc {
		acc[i] = rng.NormFloat64() * env[i]
	}
	scaleToPGA(acc, cfg.PGA)

	adj := newAdjuster(periods, cfg)
	ws := response.NewWorkspace()

	res := &Result{ID: uuid.NewString(), Status: NotConverged}
	var b best

	for iter := 0; iter < cfg.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			res.Status = Cancelled
			log.Debugw("synthesis cancelled", "id", res.ID, "iteration", iter, "err", err)
			break
		}

		sp, err := response.ComputeWith(ws, acc, cfg.Dt, periods, cfg.Damping, response.Newmark)
		if err != nil {
			return nil, err
		}
		fit, err := FitError(sp.Sa, target)
		if err != nil {
			return nil, err
		}

		res.Iterations = iter + 1
		res.History = append(res.History, fit)
		b.offer(acc, sp, fit)

		log.Debugw("synthesis iteration", "id", res.ID, "iteration", iter+1, "max", fit.Max, "rms", fit.RMS)
		if progress != nil {
			progress(iter+1, cfg.MaxIter, fit)
		}

		if fit.Max <= cfg.Tol {
			res.Status = Converged
			break
		}

		acc = adj.apply(acc, sp.Sa, target)
		floats.Mul(acc, env)
		scaleToPGA(acc, cfg.PGA)
	}

	if !b.ok {
		// cancelled before the first evaluation
		sp, err := response.ComputeWith(ws, acc, cfg.Dt, periods, cfg.Damping, response.Newmark)
		if err != nil {
			return nil, err
		}
		fit, err := FitError(sp.Sa, target)
		if err != nil {
			return nil, err
		}
		b.offer(acc, sp, fit)
	}

	rec := record.New("artificial", cfg.Dt, b.acc)
	rec.Metadata = map[string]string{
		"id":     res.ID,
		"status": res.Status.String(),
		"seed":   fmt.Sprint(cfg.Seed),
	}
	res.Record = rec
	res.Spectrum = b.sp
	res.Fit = b.fit
	return res, nil
}

func scaleToPGA(acc []float64, pga float64) {
	if peak := record.PeakAbs(acc); peak > 0 {
		floats.Scale(pga/peak, acc)
	}
}

// adjuster rescales Fourier amplitudes by spectral ratios.
type adjuster struct {
	n       int
	nfft    int
	dt      float64
	clipMin float64
	clipMax float64

	// freqs holds the distinct 1/T in ascending order; groups[k] lists the
	// period indices sharing freqs[k].
	freqs  []float64
	groups [][]int
	ratio  []float64 // scratch, aligned with freqs
	line   interp.PiecewiseLinear
}

func newAdjuster(periods []float64, cfg Config) *adjuster {
	order := make([]int, len(periods))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return 1/periods[order[i]] < 1/periods[order[j]]
	})

	a := &adjuster{
		n:       cfg.N,
		nfft:    record.NextPow2(cfg.N),
		dt:      cfg.Dt,
		clipMin: cfg.ClipMin,
		clipMax: cfg.ClipMax,
	}
	for _, i := range order {
		f := 1 / periods[i]
		if k := len(a.freqs) - 1; k >= 0 && a.freqs[k] == f {
			a.groups[k] = append(a.groups[k], i)
			continue
		}
		a.freqs = append(a.freqs, f)
		a.groups = append(a.groups, []int{i})
	}
	a.ratio = make([]float64, len(a.freqs))
	return a
}

// predictor fits the clipped ratios over frequency. Duplicate periods are
// averaged; a single distinct period scales every bin alike.
func (a *adjuster) predictor(current, target []float64) interp.Predictor {
	for k, idx := range a.groups {
		sum := 0.0
		for _, i := range idx {
			r := 1.0
			if current[i] > negligible && target[i] > negligible {
				r = target[i] / current[i]
			}
			sum += math.Min(math.Max(r, a.clipMin), a.clipMax)
		}
		a.ratio[k] = sum / float64(len(idx))
	}
	if len(a.freqs) < 2 {
		return interp.Constant(a.ratio[0])
	}
	a.line.Fit(a.freqs, a.ratio)
	return a.line
}

// apply returns the rescaled waveform, truncated to the original length.
func (a *adjuster) apply(acc, current, target []float64) []float64 {
	pred := a.predictor(current, target)

	padded := make([]float64, a.nfft)
	copy(padded, acc)
	spec := fft.FFTReal(padded)

	df := 1 / (float64(a.nfft) * a.dt)
	for k := 1; k < a.nfft/2; k++ {
		spec[k] *= complex(pred.Predict(float64(k)*df), 0)
		spec[a.nfft-k] = complex(real(spec[k]), -imag(spec[k]))
	}

	out := fft.IFFT(spec)
	res := make([]float64, a.n)
	for i := range res {
		res[i] = real(out[i])
	}
	return res
}

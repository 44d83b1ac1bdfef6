package response

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	newmarkGamma = 0.5
	newmarkBeta  = 0.25

	// denominators smaller than this are clamped in the transfer functions
	minDenominator = 1e-30
)

// Oscillator is a linear SDOF system of unit mass.
type Oscillator struct {
	Period  float64 // natural period (s)
	Damping float64 // critical damping ratio
}

// Omega returns the natural circular frequency 2π/T.
func (o Oscillator) Omega() float64 {
	return 2 * math.Pi / o.Period
}

// Validate checks the oscillator parameters.
func (o Oscillator) Validate() error {
	if !(o.Period > 0) || math.IsInf(o.Period, 0) {
		return fmt.Errorf("%w: T=%g", ErrInvalidPeriod, o.Period)
	}
	if o.Damping < 0 || o.Damping >= 1 || math.IsNaN(o.Damping) {
		return fmt.Errorf("%w: zeta=%g", ErrInvalidDamping, o.Damping)
	}
	return nil
}

// History is the relative response of an oscillator, one sample per record
// sample.
type History struct {
	Disp []float64
	Vel  []float64
	Acc  []float64
}

func checkRecord(ag []float64, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt=%g", ErrInvalidStep, dt)
	}
	if len(ag) < 2 {
		return fmt.Errorf("%w: got %d", ErrShortRecord, len(ag))
	}
	return nil
}

// Respond integrates one oscillator under ground acceleration ag with the
// given method. The returned history is freshly allocated.
func Respond(ag []float64, dt float64, osc Oscillator, method Method) (History, error) {
	if err := checkRecord(ag, dt); err != nil {
		return History{}, err
	}
	if err := osc.Validate(); err != nil {
		return History{}, err
	}

	ws := getWorkspace()
	defer putWorkspace(ws)

	h := ws.respond(ag, dt, osc, method.resolve(osc.Period))
	return History{
		Disp: append([]float64(nil), h.Disp...),
		Vel:  append([]float64(nil), h.Vel...),
		Acc:  append([]float64(nil), h.Acc...),
	}, nil
}

// respond returns a history aliasing the workspace buffers. Inputs must be
// validated and method must be concrete.
func (w *Workspace) respond(ag []float64, dt float64, osc Oscillator, method Method) History {
	w.grow(len(ag))
	if method == FrequencyDomain {
		w.frequencyDomain(ag, dt, osc)
	} else {
		w.newmark(ag, dt, osc)
	}
	return History{Disp: w.disp, Vel: w.vel, Acc: w.acc}
}

// newmark runs the average-acceleration recurrence on unit mass.
func (w *Workspace) newmark(ag []float64, dt float64, osc Oscillator) {
	omega := osc.Omega()
	k := omega * omega
	c := 2 * osc.Damping * omega

	const g, b = newmarkGamma, newmarkBeta
	a1 := 1 / (b * dt * dt)
	a2 := 1 / (b * dt)
	a3 := (1 - 2*b) / (2 * b)
	a4 := g / (b * dt)
	a5 := 1 - g/b
	a6 := (1 - g/(2*b)) * dt

	keff := k + a1 + c*a4

	d, v, a := w.disp, w.vel, w.acc
	d[0], v[0] = 0, 0
	a[0] = -ag[0]

	for i := 1; i < len(ag); i++ {
		// the velocity update is v' = a4·Δd + a5·v + a6·a, so the damping
		// load carries its negation
		peff := -ag[i] +
			a1*d[i-1] + a2*v[i-1] + a3*a[i-1] +
			c*(a4*d[i-1]-a5*v[i-1]-a6*a[i-1])

		d[i] = peff / keff
		dd := d[i] - d[i-1]
		a[i] = a1*dd - a2*v[i-1] - a3*a[i-1]
		v[i] = a4*dd + a5*v[i-1] + a6*a[i-1]
	}
}

// freqPlan caches the padded transform of one record. It is built lazily
// and dropped by Workspace.Reset, which callers run between records.
type freqPlan struct {
	n     int
	spec  []complex128
	omega []float64 // signed bin circular frequencies
}

func newFreqPlan(ag []float64, dt float64) *freqPlan {
	n := len(ag)
	nfft := nextPow2(n)

	padded := make([]float64, nfft)
	copy(padded, ag)

	omega := make([]float64, nfft)
	df := 1 / (float64(nfft) * dt)
	for k := range omega {
		bin := k
		if k >= (nfft+1)/2 {
			bin = k - nfft
		}
		omega[k] = 2 * math.Pi * float64(bin) * df
	}

	return &freqPlan{
		n:     n,
		spec:  fft.FFTReal(padded),
		omega: omega,
	}
}

// frequencyDomain applies the closed-form SDOF transfer functions to the
// record transform.
func (w *Workspace) frequencyDomain(ag []float64, dt float64, osc Oscillator) {
	if w.plan == nil {
		w.plan = newFreqPlan(ag, dt)
	}
	p := w.plan

	wn := osc.Omega()
	k := wn * wn

	xd, xv, xa := w.spectra(len(p.spec))
	for i, X := range p.spec {
		om := p.omega[i]
		denom := complex(k-om*om, 2*osc.Damping*wn*om)
		if cmplx.Abs(denom) < minDenominator {
			denom = minDenominator
		}
		hd := -1 / denom
		xd[i] = X * hd
		xv[i] = X * complex(0, om) * hd
		xa[i] = X * complex(-om*om, 0) * hd
	}

	rd := fft.IFFT(xd)
	rv := fft.IFFT(xv)
	ra := fft.IFFT(xa)
	for i := 0; i < p.n; i++ {
		w.disp[i] = real(rd[i])
		w.vel[i] = real(rv[i])
		w.acc[i] = real(ra[i])
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

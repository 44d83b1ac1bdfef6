// Package record defines the ground-motion record and the derived
// quantities engineers read off it: PGA, durations, Arias intensity,
// integrated velocity/displacement, Fourier amplitude and phase, and the
// Welch power spectral density.
//
// Records are treated as values. Every operation returns a new record or
// slice and leaves the receiver untouched.
package record

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Gravity is the standard acceleration used for Arias intensity (m/s²).
const Gravity = 9.81

var (
	ErrInvalidStep = errors.New("record: sample interval must be positive")
	ErrTooShort    = errors.New("record: not enough samples")
	ErrEmptyRange  = errors.New("record: empty trim range")
)

// Record is an acceleration time series sampled at a fixed interval.
type Record struct {
	Name     string
	Dt       float64           // sample interval (s)
	Acc      []float64         // acceleration samples
	Metadata map[string]string // free-form header information
}

// New copies acc into a named record.
func New(name string, dt float64, acc []float64) *Record {
	return &Record{
		Name: name,
		Dt:   dt,
		Acc:  append([]float64(nil), acc...),
	}
}

// ValidationError describes a record that cannot be analyzed.
type ValidationError struct {
	Name string
	Err  error
	msg  string
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.Name, e.msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks dt > 0 and at least minSamples samples.
func (r *Record) Validate(minSamples int) error {
	if r.Dt <= 0 || math.IsNaN(r.Dt) {
		return &ValidationError{Name: r.Name, Err: ErrInvalidStep, msg: fmt.Sprintf("%v (dt=%g)", ErrInvalidStep, r.Dt)}
	}
	if len(r.Acc) < minSamples {
		return &ValidationError{Name: r.Name, Err: ErrTooShort, msg: fmt.Sprintf("%v (%d < %d)", ErrTooShort, len(r.Acc), minSamples)}
	}
	return nil
}

// Len returns the number of samples.
func (r *Record) Len() int { return len(r.Acc) }

// PGA returns the peak absolute acceleration.
func (r *Record) PGA() float64 {
	return PeakAbs(r.Acc)
}

// Duration returns the total duration (n-1)·dt.
func (r *Record) Duration() float64 {
	if len(r.Acc) == 0 {
		return 0
	}
	return float64(len(r.Acc)-1) * r.Dt
}

// Time returns the sample times.
func (r *Record) Time() []float64 {
	t := make([]float64, len(r.Acc))
	if len(t) > 1 {
		floats.Span(t, 0, r.Duration())
	}
	return t
}

// Scaled returns a copy multiplied by factor.
func (r *Record) Scaled(factor float64) *Record {
	out := r.clone()
	floats.Scale(factor, out.Acc)
	return out
}

// Normalized returns a copy scaled to the given PGA. A zero record is
// returned unscaled.
func (r *Record) Normalized(pga float64) *Record {
	peak := r.PGA()
	if peak == 0 {
		return r.clone()
	}
	return r.Scaled(pga / peak)
}

// Trim returns samples i1..i2 inclusive.
func (r *Record) Trim(i1, i2 int) (*Record, error) {
	if i1 < 0 || i2 >= len(r.Acc) || i1 > i2 {
		return nil, fmt.Errorf("%w: [%d, %d] of %d samples", ErrEmptyRange, i1, i2, len(r.Acc))
	}
	out := r.clone()
	out.Acc = append([]float64(nil), r.Acc[i1:i2+1]...)
	return out, nil
}

// AriasIntensity returns the cumulative Arias intensity history
// π/(2g)·∫a²dt, assuming acceleration in m/s².
func (r *Record) AriasIntensity() []float64 {
	ia := make([]float64, len(r.Acc))
	sq := make([]float64, len(r.Acc))
	floats.MulTo(sq, r.Acc, r.Acc)
	floats.CumSum(ia, sq)
	floats.Scale(r.Dt*math.Pi/(2*Gravity), ia)
	return ia
}

// AriasWindow returns the first sample indices where normalized Arias
// intensity reaches lo and hi. ok is false for a zero record.
func (r *Record) AriasWindow(lo, hi float64) (i1, i2 int, ok bool) {
	ia := r.AriasIntensity()
	if len(ia) == 0 || ia[len(ia)-1] == 0 {
		return 0, len(ia) - 1, false
	}
	total := ia[len(ia)-1]
	i1, i2 = len(ia)-1, len(ia)-1
	for i, v := range ia {
		if v/total >= lo {
			i1 = i
			break
		}
	}
	for i := i1; i < len(ia); i++ {
		if ia[i]/total >= hi {
			i2 = i
			break
		}
	}
	return i1, i2, true
}

// SignificantDuration returns the 5%–95% Arias significant duration (s).
func (r *Record) SignificantDuration() float64 {
	i1, i2, ok := r.AriasWindow(0.05, 0.95)
	if !ok {
		return 0
	}
	return float64(i2-i1) * r.Dt
}

// AutoTrim cuts the record to the Arias window [lo, hi].
func (r *Record) AutoTrim(lo, hi float64) (*Record, error) {
	i1, i2, ok := r.AriasWindow(lo, hi)
	if !ok {
		return r.clone(), nil
	}
	return r.Trim(i1, i2)
}

// Integrate returns velocity and displacement by cumulative trapezoidal
// integration with initial values v0 and d0.
func (r *Record) Integrate(v0, d0 float64) (vel, disp []float64) {
	vel = cumTrapz(r.Acc, r.Dt, v0)
	disp = cumTrapz(vel, r.Dt, d0)
	return vel, disp
}

func cumTrapz(y []float64, dx, initial float64) []float64 {
	out := make([]float64, len(y))
	if len(y) == 0 {
		return out
	}
	out[0] = initial
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + 0.5*dx*(y[i]+y[i-1])
	}
	return out
}

// FourierAmplitude returns the single-sided amplitude spectrum 2|X|/nfft
// of the record zero-padded to the next power of two.
func (r *Record) FourierAmplitude() (freqs, amp []float64) {
	nfft := NextPow2(len(r.Acc))
	padded := make([]float64, nfft)
	copy(padded, r.Acc)

	spec := fft.FFTReal(padded)
	half := nfft/2 + 1
	freqs = make([]float64, half)
	amp = make([]float64, half)
	if half > 1 {
		floats.Span(freqs, 0, 0.5/r.Dt)
	}
	for i := range amp {
		amp[i] = 2 * cmplx.Abs(spec[i]) / float64(nfft)
	}
	return freqs, amp
}

func (r *Record) clone() *Record {
	out := &Record{
		Name: r.Name,
		Dt:   r.Dt,
		Acc:  append([]float64(nil), r.Acc...),
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// PeakAbs returns max |x|, or 0 for an empty slice.
func PeakAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(x)), math.Abs(floats.Min(x)))
}

// NextPow2 returns the smallest power of two ≥ n (1 for n ≤ 1).
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

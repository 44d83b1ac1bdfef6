package record

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PSD estimates the one-sided power spectral density by Welch's method.
// Segments are half the padded record length, Hann-windowed, and overlap
// by the given fraction in [0, 1). The record mean is removed first.
func (r *Record) PSD(overlap float64) (freqs, psd []float64, err error) {
	if err := r.Validate(4); err != nil {
		return nil, nil, err
	}
	if overlap < 0 || overlap >= 1 || math.IsNaN(overlap) {
		return nil, nil, fmt.Errorf("record: overlap %g outside [0, 1)", overlap)
	}

	nperseg := NextPow2(len(r.Acc)) / 2
	x := append([]float64(nil), r.Acc...)
	floats.AddConst(-stat.Mean(x, nil), x)

	psd, freqs = spectral.Pwelch(x, 1/r.Dt, &spectral.PwelchOptions{
		NFFT:     nperseg,
		Noverlap: int(float64(nperseg) * overlap),
		Window:   window.Hann,
	})
	return freqs, psd, nil
}

// Phase returns the phase angle (rad) of the record transform, zero-padded
// to the next power of two, on the same frequencies as FourierAmplitude.
func (r *Record) Phase() (freqs, phase []float64) {
	nfft := NextPow2(len(r.Acc))
	padded := make([]float64, nfft)
	copy(padded, r.Acc)

	spec := fft.FFTReal(padded)
	half := nfft/2 + 1
	freqs = make([]float64, half)
	phase = make([]float64, half)
	if half > 1 {
		floats.Span(freqs, 0, 0.5/r.Dt)
	}
	for i := range phase {
		phase[i] = cmplx.Phase(spec[i])
	}
	return freqs, phase
}

// Resample returns the record at a new sample interval, keeping its
// duration. The spectrum is truncated or zero-padded in the frequency
// domain, so the record is treated as periodic.
func (r *Record) Resample(dt float64) (*Record, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: dt=%g", ErrInvalidStep, dt)
	}
	if err := r.Validate(2); err != nil {
		return nil, err
	}

	n := len(r.Acc)
	m := int(math.Round(float64(n) * r.Dt / dt))
	if m < 2 {
		return nil, fmt.Errorf("%w: %d samples at dt=%g", ErrTooShort, m, dt)
	}

	X := fft.FFTReal(r.Acc)
	Y := make([]complex128, m)
	k := min(n, m)
	nyq := k/2 + 1
	copy(Y[:nyq], X[:nyq])
	if neg := k - nyq; neg > 0 {
		copy(Y[m-neg:], X[n-neg:])
	}
	// an even-length band carries the Nyquist bin in both halves
	if k%2 == 0 {
		switch {
		case m < n:
			Y[k/2] += X[n-k/2]
		case m > n:
			Y[k/2] *= 0.5
			Y[m-k/2] = Y[k/2]
		}
	}

	y := fft.IFFT(Y)
	out := r.clone()
	out.Dt = dt
	out.Acc = make([]float64, m)
	scale := float64(m) / float64(n)
	for i := range out.Acc {
		out.Acc[i] = real(y[i]) * scale
	}
	return out, nil
}

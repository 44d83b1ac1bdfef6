package response

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Spectrum holds the peak responses of a record over a period grid.
type Spectrum struct {
	Periods []float64
	Sa      []float64 // peak absolute acceleration
	Sv      []float64 // peak relative velocity
	Sd      []float64 // peak relative displacement
	Se      []float64 // peak ½ω²d², energy per unit mass
	Damping float64
	Method  Method
}

// Len returns the number of periods.
func (s *Spectrum) Len() int { return len(s.Periods) }

// PeakSa returns the largest Sa and the period where it occurs.
func (s *Spectrum) PeakSa() (sa, period float64) {
	if len(s.Sa) == 0 {
		return 0, 0
	}
	i := floats.MaxIdx(s.Sa)
	return s.Sa[i], s.Periods[i]
}

func (s *Spectrum) String() string {
	return fmt.Sprintf("Spectrum(n=%d, zeta=%.3f, method=%s)", s.Len(), s.Damping, s.Method)
}

// Compute returns the response spectrum of ag at every period.
func Compute(ag []float64, dt float64, periods []float64, zeta float64, method Method) (*Spectrum, error) {
	ws := getWorkspace()
	defer putWorkspace(ws)
	return ComputeWith(ws, ag, dt, periods, zeta, method)
}

// ComputeWith is Compute using caller-owned scratch space.
func ComputeWith(ws *Workspace, ag []float64, dt float64, periods []float64, zeta float64, method Method) (*Spectrum, error) {
	if err := checkRecord(ag, dt); err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no periods", ErrInvalidGrid)
	}
	for _, T := range periods {
		if err := (Oscillator{Period: T, Damping: zeta}).Validate(); err != nil {
			return nil, err
		}
	}
	if method < Newmark || method > Mixed {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}

	ws.Reset()
	defer ws.Reset()

	n := len(periods)
	sp := &Spectrum{
		Periods: append([]float64(nil), periods...),
		Sa:      make([]float64, n),
		Sv:      make([]float64, n),
		Sd:      make([]float64, n),
		Se:      make([]float64, n),
		Damping: zeta,
		Method:  method,
	}

	for i, T := range periods {
		osc := Oscillator{Period: T, Damping: zeta}
		h := ws.respond(ag, dt, osc, method.resolve(T))

		var sa, sv, sd float64
		for j, ra := range h.Acc {
			sa = math.Max(sa, math.Abs(ra+ag[j]))
			sv = math.Max(sv, math.Abs(h.Vel[j]))
			sd = math.Max(sd, math.Abs(h.Disp[j]))
		}
		omega := osc.Omega()

		sp.Sa[i] = sa
		sp.Sv[i] = sv
		sp.Sd[i] = sd
		sp.Se[i] = 0.5 * omega * omega * sd * sd
	}
	return sp, nil
}

// PeakAbsAcceleration returns Sa at a single period.
func PeakAbsAcceleration(ag []float64, dt float64, osc Oscillator, method Method) (float64, error) {
	sp, err := Compute(ag, dt, []float64{osc.Period}, osc.Damping, method)
	if err != nil {
		return 0, err
	}
	return sp.Sa[0], nil
}

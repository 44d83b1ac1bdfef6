package response

import "fmt"

// Energy is the energy balance of a linear oscillator per unit mass. For an
// elastic system Kinetic + Strain + Damping equals Input at every sample.
type Energy struct {
	Kinetic []float64 // ½v²
	Strain  []float64 // ½ω²d²
	Damping []float64 // cumulative ∫c·v dd
	Input   []float64 // cumulative -∫ag dd
}

// Energy decomposes the history h of osc under ground acceleration ag. The
// work integrals use the trapezoidal rule, which balances exactly for
// average-acceleration Newmark histories.
func (h History) Energy(ag []float64, osc Oscillator) (*Energy, error) {
	if err := osc.Validate(); err != nil {
		return nil, err
	}
	n := len(h.Disp)
	if len(h.Vel) != n || len(ag) != n {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, n, len(ag))
	}

	omega := osc.Omega()
	k := omega * omega
	c := 2 * osc.Damping * omega

	e := &Energy{
		Kinetic: make([]float64, n),
		Strain:  make([]float64, n),
		Damping: make([]float64, n),
		Input:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d, v := h.Disp[i], h.Vel[i]
		e.Kinetic[i] = 0.5 * v * v
		e.Strain[i] = 0.5 * k * d * d
		if i == 0 {
			continue
		}
		dd := d - h.Disp[i-1]
		e.Damping[i] = e.Damping[i-1] + c*0.5*(v+h.Vel[i-1])*dd
		e.Input[i] = e.Input[i-1] - 0.5*(ag[i]+ag[i-1])*dd
	}
	return e, nil
}

// Total returns Kinetic + Strain + Damping at sample i.
func (e *Energy) Total(i int) float64 {
	return e.Kinetic[i] + e.Strain[i] + e.Damping[i]
}

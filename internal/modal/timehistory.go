package modal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ShearHistory is the outcome of a time-history analysis.
type ShearHistory struct {
	Peak     float64   // max |k0·d0|
	PeakTime float64   // time of Peak (s)
	Roof     []float64 // roof displacement relative to the ground
}

// TimeHistoryBaseShear returns the peak ground-story shear of the building
// under ground acceleration ag, with Rayleigh damping zeta.
func (m *Model) TimeHistoryBaseShear(ag []float64, dt, zeta float64) (float64, error) {
	h, err := m.TimeHistory(ag, dt, zeta)
	if err != nil {
		return 0, err
	}
	return h.Peak, nil
}

// TimeHistory integrates M·ü + C·u̇ + K·u = -M·1·ag with the incremental
// average-acceleration scheme.
func (m *Model) TimeHistory(ag []float64, dt, zeta float64) (*ShearHistory, error) {
	if !(dt > 0) || len(ag) < 2 {
		return nil, fmt.Errorf("%w: dt=%g n=%d", ErrBadRecord, dt, len(ag))
	}
	md, err := m.Modes()
	if err != nil {
		return nil, err
	}

	n := m.Stories()
	K := m.StiffnessMatrix()
	a0, a1 := md.Rayleigh(zeta)

	C := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := a1 * K.At(i, j)
			if i == j {
				c += a0 * m.Mass[i]
			}
			C.SetSym(i, j, c)
		}
	}

	keff := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := K.At(i, j) + 2*C.At(i, j)/dt
			if i == j {
				v += 4 * m.Mass[i] / (dt * dt)
			}
			keff.SetSym(i, j, v)
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(keff); !ok {
		return nil, ErrNotPosDef
	}

	dis := mat.NewVecDense(n, nil)
	vel := mat.NewVecDense(n, nil)
	acc := mat.NewVecDense(n, nil)
	dp := mat.NewVecDense(n, nil)
	cv := mat.NewVecDense(n, nil)
	ddis := mat.NewVecDense(n, nil)

	out := &ShearHistory{Roof: make([]float64, len(ag))}
	k0 := m.Stiffness[0]

	for step := 0; step < len(ag)-1; step++ {
		da := ag[step+1] - ag[step]

		cv.MulVec(C, vel)
		for i := 0; i < n; i++ {
			mi := m.Mass[i]
			dp.SetVec(i, -mi*da+(4/dt)*mi*vel.AtVec(i)+2*mi*acc.AtVec(i)+2*cv.AtVec(i))
		}
		if err := chol.SolveVecTo(ddis, dp); err != nil {
			return nil, fmt.Errorf("modal: step %d: %w", step+1, err)
		}

		for i := 0; i < n; i++ {
			d := ddis.AtVec(i)
			v := vel.AtVec(i)
			a := acc.AtVec(i)
			dis.SetVec(i, dis.AtVec(i)+d)
			vel.SetVec(i, v+2/dt*d-2*v)
			acc.SetVec(i, a+4/(dt*dt)*d-(4/dt)*v-2*a)
		}

		out.Roof[step+1] = dis.AtVec(n - 1)
		if shear := math.Abs(k0 * dis.AtVec(0)); shear > out.Peak {
			out.Peak = shear
			out.PeakTime = float64(step+1) * dt
		}
	}
	return out, nil
}

// Package modal analyzes lumped-mass shear buildings: natural periods, mode
// shapes, participation factors, response-spectrum (SRSS) base shear and
// time-history base shear under ground acceleration.
//
// Story 0 is the ground story; story n-1 is the roof.
package modal

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/goseis/internal/gb50011"
)

// Gravity converts story mass to weight in participation factors and
// spectrum forces.
const Gravity = 9.81

var (
	ErrEmpty       = errors.New("modal: no stories")
	ErrMismatch    = errors.New("modal: mass and stiffness lengths differ")
	ErrNonPositive = errors.New("modal: mass and stiffness must be positive")
	ErrEigen       = errors.New("modal: eigen decomposition failed")
	ErrNotPosDef   = errors.New("modal: effective stiffness is not positive definite")
	ErrBadRecord   = errors.New("modal: record needs dt > 0 and at least 2 samples")
)

// Model is a shear building with one mass and one story stiffness per floor.
type Model struct {
	Mass      []float64
	Stiffness []float64
}

// New validates and copies the story properties.
func New(mass, stiffness []float64) (*Model, error) {
	m := &Model{
		Mass:      append([]float64(nil), mass...),
		Stiffness: append([]float64(nil), stiffness...),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that both arrays are non-empty, equally long and
// positive.
func (m *Model) Validate() error {
	if len(m.Mass) == 0 {
		return ErrEmpty
	}
	if len(m.Mass) != len(m.Stiffness) {
		return fmt.Errorf("%w: %d masses, %d stiffnesses", ErrMismatch, len(m.Mass), len(m.Stiffness))
	}
	for i := range m.Mass {
		if !(m.Mass[i] > 0) || !(m.Stiffness[i] > 0) {
			return fmt.Errorf("%w: story %d (m=%g, k=%g)", ErrNonPositive, i+1, m.Mass[i], m.Stiffness[i])
		}
	}
	return nil
}

// Stories returns the number of floors.
func (m *Model) Stories() int { return len(m.Mass) }

// StiffnessMatrix assembles the tridiagonal story stiffness matrix.
func (m *Model) StiffnessMatrix() *mat.SymDense {
	n := m.Stories()
	k := m.Stiffness
	K := mat.NewSymDense(n, nil)
	for i := 0; i < n-1; i++ {
		K.SetSym(i, i, k[i]+k[i+1])
		K.SetSym(i, i+1, -k[i+1])
	}
	K.SetSym(n-1, n-1, k[n-1])
	return K
}

// MassMatrix returns the diagonal mass matrix.
func (m *Model) MassMatrix() *mat.DiagDense {
	return mat.NewDiagDense(m.Stories(), append([]float64(nil), m.Mass...))
}

// Modes holds the undamped free-vibration properties, fundamental mode
// first.
type Modes struct {
	Omega         []float64  // circular frequencies, ascending
	Periods       []float64  // natural periods, descending
	Shapes        *mat.Dense // column j is mode j, roof component 1
	Participation []float64
}

// Len returns the number of modes.
func (md *Modes) Len() int { return len(md.Omega) }

// Shape returns a copy of mode j.
func (md *Modes) Shape(j int) []float64 {
	return mat.Col(nil, j, md.Shapes)
}

// Modes solves K·φ = ω²·M·φ through the symmetric form M^-½·K·M^-½.
func (m *Model) Modes() (*Modes, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	n := m.Stories()
	K := m.StiffnessMatrix()

	inv := make([]float64, n)
	for i, mi := range m.Mass {
		inv[i] = 1 / math.Sqrt(mi)
	}
	A := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			A.SetSym(i, j, K.At(i, j)*inv[i]*inv[j])
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(A, true); !ok {
		return nil, ErrEigen
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] < vals[order[b]] })

	md := &Modes{
		Omega:         make([]float64, n),
		Periods:       make([]float64, n),
		Shapes:        mat.NewDense(n, n, nil),
		Participation: make([]float64, n),
	}
	for j, src := range order {
		lambda := math.Abs(vals[src])
		md.Omega[j] = math.Sqrt(lambda)
		md.Periods[j] = 2 * math.Pi / md.Omega[j]

		phi := make([]float64, n)
		for i := range phi {
			phi[i] = vecs.At(i, src) * inv[i]
		}
		if top := phi[n-1]; top != 0 {
			for i := range phi {
				phi[i] /= top
			}
		}
		md.Shapes.SetCol(j, phi)

		var num, den float64
		for i, p := range phi {
			w := m.Mass[i] * Gravity
			num += p * w
			den += p * p * w
		}
		md.Participation[j] = num / den
	}
	return md, nil
}

// SpectrumFunc maps a period to a seismic influence coefficient.
type SpectrumFunc func(period float64) float64

// CodeSpectrum adapts a GB 50011 design spectrum to a SpectrumFunc.
func CodeSpectrum(p gb50011.Params, zeta float64, isolation bool) SpectrumFunc {
	return func(period float64) float64 {
		return gb50011.Alpha(period, p, zeta, isolation)
	}
}

// SRSSBaseShear combines per-mode base shears V_j = Σ α(T_j)·γ_j·φ_ij·m_i·g
// by square root of the sum of squares. It returns the total and the
// per-mode contributions.
func (m *Model) SRSSBaseShear(md *Modes, alpha SpectrumFunc) (float64, []float64) {
	perMode := make([]float64, md.Len())
	var sum float64
	for j := range perMode {
		a := alpha(md.Periods[j])
		g := md.Participation[j]
		var v float64
		for i, mi := range m.Mass {
			v += a * g * md.Shapes.At(i, j) * mi * Gravity
		}
		perMode[j] = v
		sum += v * v
	}
	return math.Sqrt(sum), perMode
}

// Rayleigh returns the coefficients of C = a0·M + a1·K giving damping zeta
// at the two lowest modes. With a single mode the damping is
// mass-proportional.
func (md *Modes) Rayleigh(zeta float64) (a0, a1 float64) {
	w1 := md.Omega[0]
	if md.Len() < 2 {
		return 2 * zeta * w1, 0
	}
	w2 := md.Omega[1]
	return 2 * zeta * w1 * w2 / (w1 + w2), 2 * zeta / (w1 + w2)
}

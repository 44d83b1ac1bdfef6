package response

import "sync"

// Workspace holds the scratch histories reused across oscillators. A
// Workspace is not safe for concurrent use.
type Workspace struct {
	disp []float64
	vel  []float64
	acc  []float64

	// cached transform of the last record seen by the frequency method
	plan *freqPlan

	// response transforms, one per oscillator, sized to the padded record
	xd []complex128
	xv []complex128
	xa []complex128
}

// NewWorkspace returns an empty workspace; buffers grow on first use.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

func (w *Workspace) grow(n int) {
	if cap(w.disp) < n {
		w.disp = make([]float64, n)
		w.vel = make([]float64, n)
		w.acc = make([]float64, n)
	}
	w.disp = w.disp[:n]
	w.vel = w.vel[:n]
	w.acc = w.acc[:n]
}

// spectra returns the complex scratch slices resized to n.
func (w *Workspace) spectra(n int) (xd, xv, xa []complex128) {
	if cap(w.xd) < n {
		w.xd = make([]complex128, n)
		w.xv = make([]complex128, n)
		w.xa = make([]complex128, n)
	}
	w.xd = w.xd[:n]
	w.xv = w.xv[:n]
	w.xa = w.xa[:n]
	return w.xd, w.xv, w.xa
}

// Reset drops the cached record transform.
func (w *Workspace) Reset() {
	w.plan = nil
}

var workspacePool = sync.Pool{
	New: func() any { return NewWorkspace() },
}

func getWorkspace() *Workspace {
	return workspacePool.Get().(*Workspace)
}

func putWorkspace(w *Workspace) {
	w.Reset()
	workspacePool.Put(w)
}

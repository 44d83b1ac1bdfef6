package response

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/goseis/internal/testutil"
)

func TestStepDynamicAmplification(t *testing.T) {
	const period = 1.0
	ag := testutil.Ones(5000)

	h, err := Respond(ag, 0.001, Oscillator{Period: period}, Newmark)
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	omega := 2 * math.Pi / period
	peak := 0.0
	for _, d := range h.Disp {
		peak = math.Max(peak, math.Abs(d))
	}
	testutil.RequireRelNear(t, "DAF", peak*omega*omega, 2, 0.02)
}

func TestSineResonancePeak(t *testing.T) {
	const dt = 0.005
	ag := testutil.Sine(5, dt, 1, 2000)
	periods := linspace(0.1, 1.0, 50)

	for _, m := range []Method{Newmark, FrequencyDomain, Mixed} {
		t.Run(m.String(), func(t *testing.T) {
			sp, err := Compute(ag, dt, periods, 0.05, m)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			_, tPeak := sp.PeakSa()
			if math.Abs(tPeak-0.2) > 0.1 {
				t.Errorf("peak period = %.3f, want near 0.2", tPeak)
			}
		})
	}
}

func TestNewmarkAgreesWithFrequencyDomain(t *testing.T) {
	const dt = 0.01
	ag := testutil.Gaussian(7, 1, 1000)
	periods := []float64{0.5, 1.0, 2.0}

	nmk, err := Compute(ag, dt, periods, 0.05, Newmark)
	if err != nil {
		t.Fatalf("Compute(newmark) error = %v", err)
	}
	frq, err := Compute(ag, dt, periods, 0.05, FrequencyDomain)
	if err != nil {
		t.Fatalf("Compute(freq) error = %v", err)
	}

	for i, T := range periods {
		a, b := nmk.Sa[i], frq.Sa[i]
		if a < 1e-6 || b < 1e-6 {
			continue
		}
		if r := a / b; r < 0.5 || r > 2 {
			t.Errorf("T=%.1f: newmark %.4f vs freq %.4f (ratio %.2f)", T, a, b, r)
		}
	}
}

func TestMixedDispatch(t *testing.T) {
	const dt = 0.01
	ag := testutil.Gaussian(3, 1, 800)
	periods := []float64{0.2, 0.4, 0.8, 1.6}

	mixed, err := Compute(ag, dt, periods, 0.05, Mixed)
	if err != nil {
		t.Fatal(err)
	}
	nmk, _ := Compute(ag, dt, periods, 0.05, Newmark)
	frq, _ := Compute(ag, dt, periods, 0.05, FrequencyDomain)

	for i, T := range periods {
		want := nmk.Sa[i]
		if T < MixedSwitchPeriod {
			want = frq.Sa[i]
		}
		if mixed.Sa[i] != want {
			t.Errorf("T=%.1f: mixed Sa = %v, want %v", T, mixed.Sa[i], want)
		}
	}
}

func TestSpectrumEnergyMatchesDisplacement(t *testing.T) {
	ag := testutil.Gaussian(11, 0.3, 600)
	sp, err := Compute(ag, 0.02, []float64{0.3, 1.2}, 0.05, Newmark)
	if err != nil {
		t.Fatal(err)
	}
	for i, T := range sp.Periods {
		w := 2 * math.Pi / T
		testutil.RequireNear(t, "Se", sp.Se[i], 0.5*w*w*sp.Sd[i]*sp.Sd[i], 1e-12)
		if sp.Sa[i] <= 0 || sp.Sv[i] <= 0 || sp.Sd[i] <= 0 {
			t.Errorf("T=%.1f: non-positive ordinates %+v", T, sp)
		}
	}
}

func TestComputeWithReusedWorkspace(t *testing.T) {
	ws := NewWorkspace()
	periods := []float64{0.1, 0.3, 1.0}

	for seed := int64(1); seed <= 3; seed++ {
		ag := testutil.Gaussian(seed, 1, 512+int(seed)*100)
		got, err := ComputeWith(ws, ag, 0.01, periods, 0.05, Mixed)
		if err != nil {
			t.Fatal(err)
		}
		want, _ := Compute(ag, 0.01, periods, 0.05, Mixed)
		testutil.RequireSliceNearlyEqual(t, got.Sa, want.Sa, 0)
	}
}

func TestFrequencyDomainReusesScratch(t *testing.T) {
	ws := NewWorkspace()
	ag := testutil.Gaussian(2, 1, 700)
	periods := []float64{0.1, 0.2, 0.4}

	first, err := ComputeWith(ws, ag, 0.01, periods, 0.05, FrequencyDomain)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.xd) != 1024 {
		t.Fatalf("scratch length = %d, want 1024", len(ws.xd))
	}
	xd := &ws.xd[0]

	second, err := ComputeWith(ws, ag, 0.01, periods, 0.05, FrequencyDomain)
	if err != nil {
		t.Fatal(err)
	}
	if &ws.xd[0] != xd {
		t.Error("scratch reallocated for a record of the same length")
	}
	testutil.RequireSliceNearlyEqual(t, second.Sa, first.Sa, 0)
}

func TestEnergyBalance(t *testing.T) {
	const dt = 0.01
	// a 0.5 s pulse followed by free vibration
	ag := make([]float64, 1000)
	copy(ag, testutil.Gaussian(4, 1, 50))
	osc := Oscillator{Period: 0.6, Damping: 0.05}

	h, err := Respond(ag, dt, osc, Newmark)
	if err != nil {
		t.Fatal(err)
	}
	e, err := h.Energy(ag, osc)
	if err != nil {
		t.Fatal(err)
	}

	scale := e.Input[len(ag)-1]
	if !(scale > 0) {
		t.Fatalf("input energy = %v", scale)
	}
	for i := range ag {
		testutil.RequireNear(t, "balance", e.Total(i), e.Input[i], 1e-9*scale)
		if i > 0 && e.Damping[i] < e.Damping[i-1]-1e-12*scale {
			t.Fatalf("damping energy decreased at sample %d", i)
		}
	}
	w := osc.Omega()
	testutil.RequireNear(t, "kinetic", e.Kinetic[200], 0.5*h.Vel[200]*h.Vel[200], 0)
	testutil.RequireNear(t, "strain", e.Strain[200], 0.5*w*w*h.Disp[200]*h.Disp[200], 0)

	// after the pulse no work is done and damping drains the motion
	testutil.RequireNear(t, "input after pulse", e.Input[999], e.Input[60], 1e-12*scale)
	if last := e.Kinetic[999] + e.Strain[999]; last > 0.05*scale {
		t.Errorf("stored energy %.3g of %.3g not dissipated", last, scale)
	}
}

func TestEnergyErrors(t *testing.T) {
	h := History{Disp: make([]float64, 5), Vel: make([]float64, 5), Acc: make([]float64, 5)}
	if _, err := h.Energy(make([]float64, 4), Oscillator{Period: 1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("err = %v, want ErrLengthMismatch", err)
	}
	if _, err := h.Energy(make([]float64, 5), Oscillator{}); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("err = %v, want ErrInvalidPeriod", err)
	}
}

func TestRespondReturnsOwnedHistory(t *testing.T) {
	ag := testutil.Gaussian(5, 1, 300)
	h1, err := Respond(ag, 0.01, Oscillator{Period: 0.5, Damping: 0.05}, Newmark)
	if err != nil {
		t.Fatal(err)
	}
	saved := append([]float64(nil), h1.Disp...)
	if _, err := Respond(testutil.Ones(300), 0.01, Oscillator{Period: 2}, Newmark); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, h1.Disp, saved, 0)
}

func TestInvalidInputs(t *testing.T) {
	ag := testutil.Ones(10)
	tests := []struct {
		name    string
		ag      []float64
		dt      float64
		periods []float64
		zeta    float64
		method  Method
		want    error
	}{
		{"zero dt", ag, 0, []float64{1}, 0.05, Newmark, ErrInvalidStep},
		{"negative dt", ag, -0.01, []float64{1}, 0.05, Newmark, ErrInvalidStep},
		{"single sample", []float64{1}, 0.01, []float64{1}, 0.05, Newmark, ErrShortRecord},
		{"zero period", ag, 0.01, []float64{0.5, 0}, 0.05, Newmark, ErrInvalidPeriod},
		{"no periods", ag, 0.01, nil, 0.05, Newmark, ErrInvalidGrid},
		{"negative damping", ag, 0.01, []float64{1}, -0.1, Newmark, ErrInvalidDamping},
		{"critical damping", ag, 0.01, []float64{1}, 1, Newmark, ErrInvalidDamping},
		{"bad method", ag, 0.01, []float64{1}, 0.05, Method(9), ErrUnknownMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.ag, tt.dt, tt.periods, tt.zeta, tt.method)
			if !errors.Is(err, tt.want) {
				t.Errorf("Compute() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultPeriods(t *testing.T) {
	tests := []struct {
		name    string
		p1, p2  float64
		n       int
		spacing Spacing
	}{
		{"mixed", 0.04, 10, 200, MixedSpacing},
		{"mixed small", 0.05, 4, 3, MixedSpacing},
		{"mixed long only", 1.5, 6, 40, MixedSpacing},
		{"mixed short only", 0.02, 0.8, 40, MixedSpacing},
		{"log", 0.1, 4, 50, LogSpacing},
		{"linear", 0.1, 6, 60, LinearSpacing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultPeriods(tt.p1, tt.p2, tt.n, tt.spacing)
			if err != nil {
				t.Fatalf("DefaultPeriods() error = %v", err)
			}
			if len(got) != tt.n {
				t.Fatalf("len = %d, want %d", len(got), tt.n)
			}
			if got[0] != tt.p1 || got[len(got)-1] != tt.p2 {
				t.Errorf("bounds = [%v, %v], want [%v, %v]", got[0], got[len(got)-1], tt.p1, tt.p2)
			}
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Fatalf("not strictly increasing at %d: %v <= %v", i, got[i], got[i-1])
				}
			}
		})
	}
}

func TestMixedPeriodsContainOneSecond(t *testing.T) {
	got, err := DefaultPeriods(0.04, 10, 200, MixedSpacing)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, p := range got {
		if p == 1 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("1.0 s appears %d times, want once", count)
	}
}

func TestDefaultPeriodsInvalid(t *testing.T) {
	for _, tc := range []struct {
		p1, p2 float64
		n      int
	}{
		{0, 1, 10},
		{2, 1, 10},
		{0.1, 1, 1},
	} {
		if _, err := DefaultPeriods(tc.p1, tc.p2, tc.n, LogSpacing); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("DefaultPeriods(%v, %v, %d) error = %v", tc.p1, tc.p2, tc.n, err)
		}
	}
	if _, err := DefaultPeriods(0.1, 1, 10, Spacing(7)); !errors.Is(err, ErrUnknownSpacing) {
		t.Errorf("unknown spacing error = %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{
		"newmark": Newmark, "Freq": FrequencyDomain, "frequency": FrequencyDomain, " mixed ": Mixed,
	} {
		got, err := ParseMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseMethod(%q) = %v, %v; want %v", in, got, err, want)
		}
		if got.String() == "" {
			t.Errorf("empty String() for %d", got)
		}
	}
	if _, err := ParseMethod("rk4"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("ParseMethod(rk4) error = %v", err)
	}
	if s, err := ParseSpacing("LOG"); err != nil || s != LogSpacing {
		t.Errorf("ParseSpacing(LOG) = %v, %v", s, err)
	}
}

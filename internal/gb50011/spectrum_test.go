package gb50011

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/goseis/internal/testutil"
)

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return out
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		group     int
		site      string
		level     Level
		want      Params
	}{
		{"8 degree group 2 site II frequent", 8, 2, "II", Frequent, Params{Tg: 0.40, AlphaMax: 0.16}},
		{"7.5 degree group 1 site III basic", 7.5, 1, "III", Basic, Params{Tg: 0.45, AlphaMax: 0.34}},
		{"9 degree group 3 site IV rare", 9, 3, "IV", Rare, Params{Tg: 0.90, AlphaMax: 1.40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.intensity, tt.group, tt.site, tt.level)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Lookup() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLookupAllCombinations(t *testing.T) {
	for _, group := range []int{1, 2, 3} {
		for _, site := range SiteClasses() {
			for _, level := range []Level{Frequent, Basic, Rare} {
				for _, intensity := range []float64{6, 7, 7.5, 8, 8.5, 9} {
					p, err := Lookup(intensity, group, site, level)
					if err != nil {
						t.Fatalf("Lookup(%v, %d, %s, %s): %v", intensity, group, site, level, err)
					}
					if err := p.Validate(); err != nil {
						t.Fatal(err)
					}
				}
			}
		}
	}
}

func TestLookupInvalid(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		group     int
		site      string
		level     Level
		axis      string
	}{
		{"intensity", 5, 1, "II", Frequent, "intensity"},
		{"group", 8, 4, "II", Frequent, "group"},
		{"site", 8, 1, "V", Frequent, "site class"},
		{"level", 8, 1, "II", "moderate", "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.intensity, tt.group, tt.site, tt.level)
			var lerr *LookupError
			if !errors.As(err, &lerr) {
				t.Fatalf("err = %v, want *LookupError", err)
			}
			if lerr.Axis != tt.axis {
				t.Errorf("axis = %q, want %q", lerr.Axis, tt.axis)
			}
			if len(lerr.Valid) == 0 {
				t.Error("valid keys not reported")
			}
		})
	}
}

func TestCurveFourSegments(t *testing.T) {
	p := Params{Tg: 0.40, AlphaMax: 0.16}
	periods := linspace(0, 6, 601)
	alpha := Curve(periods, p, 0.05, false)

	testutil.RequireRelNear(t, "alpha(0)", alpha[0], 0.45*p.AlphaMax, 0.01)

	_, _, eta2 := DampingFactors(0.05)
	for i, T := range periods {
		if T >= 0.1 && T <= p.Tg {
			if math.Abs(alpha[i]-eta2*p.AlphaMax) > 1e-12 {
				t.Fatalf("plateau at T=%v: %v, want %v", T, alpha[i], eta2*p.AlphaMax)
			}
		}
		if alpha[i] < 0 {
			t.Fatalf("negative ordinate at T=%v", T)
		}
	}

	for i := 1; i < len(periods); i++ {
		if periods[i-1] >= p.Tg && alpha[i] > alpha[i-1]+1e-12 {
			t.Fatalf("curve rises after Tg at T=%v: %v > %v", periods[i], alpha[i], alpha[i-1])
		}
	}
}

func TestCurveIsolation(t *testing.T) {
	p := Params{Tg: 0.40, AlphaMax: 0.16}
	periods := linspace(0.01, 6, 600)
	regular := Curve(periods, p, 0.05, false)
	isolated := Curve(periods, p, 0.05, true)

	diverged := false
	for i, T := range periods {
		switch {
		case T <= 5*p.Tg:
			if math.Abs(regular[i]-isolated[i]) > 1e-12 {
				t.Fatalf("T=%v: regular %v != isolated %v", T, regular[i], isolated[i])
			}
		case T > 5*p.Tg+0.01:
			if math.Abs(regular[i]-isolated[i]) > 1e-9 {
				diverged = true
			}
		}
		if regular[i] < 0 || isolated[i] < 0 {
			t.Fatalf("negative ordinate at T=%v", T)
		}
	}
	if !diverged {
		t.Error("isolation curve does not diverge above 5Tg")
	}
}

func TestCurveDampingLowersMean(t *testing.T) {
	p := Params{Tg: 0.35, AlphaMax: 0.08}
	periods := linspace(0.01, 6, 300)

	mean := func(zeta float64) float64 {
		var sum float64
		for _, v := range Curve(periods, p, zeta, false) {
			sum += v
		}
		return sum / float64(len(periods))
	}

	prev := math.Inf(1)
	for _, zeta := range []float64{0.02, 0.05, 0.10, 0.20} {
		m := mean(zeta)
		if m >= prev {
			t.Fatalf("mean ordinate %v at zeta=%v not below %v", m, zeta, prev)
		}
		prev = m
	}
}

func TestDampingFactorsAtFivePercent(t *testing.T) {
	gamma, eta1, eta2 := DampingFactors(0.05)
	testutil.RequireNear(t, "gamma", gamma, 0.9, 1e-12)
	testutil.RequireNear(t, "eta1", eta1, 0.02, 1e-12)
	testutil.RequireNear(t, "eta2", eta2, 1.0, 1e-12)
}

func TestFromParams(t *testing.T) {
	periods := linspace(0.01, 6, 100)
	alpha, err := FromParams(periods, 8, 2, "II", Frequent, 0.05, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(alpha) != 100 {
		t.Fatalf("len = %d, want 100", len(alpha))
	}
	peak := 0.0
	for _, v := range alpha {
		peak = math.Max(peak, v)
	}
	testutil.RequireNear(t, "peak", peak, 0.16, 1e-12)

	if _, err := FromParams(periods, 8, 2, "VI", Frequent, 0.05, false); err == nil {
		t.Fatal("expected lookup error")
	}
}

func TestParamsValidate(t *testing.T) {
	if err := (Params{Tg: 0, AlphaMax: 0.16}).Validate(); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("err = %v, want ErrInvalidParams", err)
	}
}

package diagram

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDrawSummaryBoxAligned(t *testing.T) {
	out := DrawSummaryBox("Spectrum", []string{"ζ = 0.05", "αmax = 0.16", "a much longer line here"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	width := utf8.RuneCountInString(lines[0])
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != width {
			t.Errorf("line %d has width %d, want %d: %q", i, n, width, l)
		}
	}
	if !strings.Contains(out, "αmax = 0.16") {
		t.Errorf("missing content:\n%s", out)
	}
}

func TestSpectrumChart(t *testing.T) {
	periods := []float64{0.1, 0.5, 1, 2, 4}
	out, err := SpectrumChart(periods, []Series{
		{Label: "record", Values: []float64{0.3, 0.8, 0.5, 0.2, 0.1}},
		{Label: "target", Values: []float64{0.4, 0.7, 0.45, 0.25, 0.12}},
	}, ChartOptions{Width: 40, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"record", "target", "T = 0.10 .. 4.00 s"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
}

func TestSpectrumChartErrors(t *testing.T) {
	tests := []struct {
		name    string
		periods []float64
		series  []Series
	}{
		{"no periods", nil, []Series{{Label: "a"}}},
		{"no series", []float64{1, 2}, nil},
		{"length", []float64{1, 2}, []Series{{Label: "a", Values: []float64{1}}}},
		{"descending", []float64{2, 1}, []Series{{Label: "a", Values: []float64{1, 1}}}},
		{"repeated", []float64{1, 1, 2}, []Series{{Label: "a", Values: []float64{1, 1, 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SpectrumChart(tt.periods, tt.series, ChartOptions{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{0, 1, 3}, []float64{0, 10, 30}, 0, 3, 4)
	want := []float64{0, 10, 20, 30}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-12 || d < -1e-12 {
			t.Fatalf("resample = %v, want %v", got, want)
		}
	}

	// outside the data the end values are held
	got = resample([]float64{1, 2}, []float64{5, 7}, 0, 3, 4)
	want = []float64{5, 5, 7, 7}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-12 || d < -1e-12 {
			t.Fatalf("resample = %v, want %v", got, want)
		}
	}
}

func TestDecimateKeepsPeak(t *testing.T) {
	v := make([]float64, 1000)
	v[503] = -7
	v[10] = 2
	got := decimate(v, 50)
	if len(got) != 50 {
		t.Fatalf("len = %d", len(got))
	}
	minV := 0.0
	for _, x := range got {
		if x < minV {
			minV = x
		}
	}
	if minV != -7 {
		t.Errorf("peak lost: min = %v", minV)
	}
	if short := decimate([]float64{1, 2}, 50); len(short) != 2 {
		t.Errorf("short input resized to %d", len(short))
	}
}

func TestWaveformChart(t *testing.T) {
	if _, err := WaveformChart(nil, 0.01, ChartOptions{}); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
	out, err := WaveformChart([]float64{0, 1, -1, 0.5, 0}, 0.01, ChartOptions{Height: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "5 samples") {
		t.Errorf("caption missing:\n%s", out)
	}
}

func TestExportSpectrum(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"spectrum.png", "nested/spectrum.svg"} {
		path := filepath.Join(dir, name)
		err := ExportSpectrum(SpectrumPlot{
			Title:   "test",
			Periods: []float64{0.1, 0.5, 1, 2},
			Series: []Series{
				{Label: "mean", Values: []float64{0.2, 0.5, 0.3, 0.1}},
				{Label: "target", Values: []float64{0.25, 0.45, 0.3, 0.12}},
			},
			LogX:      true,
			Band:      0.2,
			BandIndex: 1,
		}, path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Fatalf("%s not written: %v", name, err)
		}
	}
}

func TestExportSpectrumErrors(t *testing.T) {
	dir := t.TempDir()
	if err := ExportSpectrum(SpectrumPlot{}, filepath.Join(dir, "a.png")); !errors.Is(err, ErrNoData) {
		t.Errorf("empty: err = %v", err)
	}
	err := ExportSpectrum(SpectrumPlot{
		Periods: []float64{0, 1},
		Series:  []Series{{Label: "a", Values: []float64{1, 2}}},
		LogX:    true,
	}, filepath.Join(dir, "b.png"))
	if err == nil {
		t.Error("log axis with zero period accepted")
	}
}

func TestExportWaveform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.png")
	if err := ExportWaveform("wave", []float64{0, 0.1, -0.3, 0.2, 0}, 0.02, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	if err := ExportWaveform("wave", []float64{1}, 0, path); err == nil {
		t.Error("zero dt accepted")
	}
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexiusacademia/goseis/internal/record"
	"github.com/alexiusacademia/goseis/internal/seisio"
	"github.com/alexiusacademia/goseis/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("goseis %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func requireContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out := mustRun(t, "version")
	requireContains(t, out, "goseis v", "GB 50011")
}

func TestCodespecCommand(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "alpha.csv")
	out := mustRun(t, "codespec", "--intensity", "8", "--group", "2", "--site", "II", "--csv", csvPath)
	requireContains(t, out, "0.40 s", "0.160", "plateau end")

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "period,alpha\n") {
		t.Errorf("csv header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestCodespecRejectsUnknownSite(t *testing.T) {
	if _, err := run(t, "codespec", "--site", "V"); err == nil {
		t.Error("unknown site class accepted")
	}
	// restore for later tests sharing the flag set
	codespecCmd.Flags().Set("site", "II")
}

func writeAT2(t *testing.T, dir, name string, acc []float64, dt float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := seisio.WriteAT2File(path, record.New(name, dt, acc)); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSpectrumCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeAT2(t, dir, "sine.AT2", testutil.Sine(2, 0.01, 0.1, 1000), 0.01)
	csvPath := filepath.Join(dir, "sa.csv")
	// restore for later tests sharing the flag set
	t.Cleanup(func() { spectrumCmd.Flags().Set("csv", "") })

	out := mustRun(t, "spectrum", "--file", path, "--method", "newmark",
		"--pmin", "0.1", "--pmax", "2", "--points", "30", "--spacing", "log", "--csv", csvPath)
	requireContains(t, out, "Peak Sa", "newmark", "Samples:")

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 31 {
		t.Errorf("csv has %d lines, want 31", lines)
	}
}

func TestSpectrumSignalOutputs(t *testing.T) {
	dir := t.TempDir()
	path := writeAT2(t, dir, "sine.AT2", testutil.Sine(5, 0.01, 0.1, 1000), 0.01)
	fourier := filepath.Join(dir, "fourier.csv")
	psd := filepath.Join(dir, "psd.csv")
	// restore for later tests sharing the flag set
	t.Cleanup(func() {
		spectrumCmd.Flags().Set("fourier", "")
		spectrumCmd.Flags().Set("psd", "")
		spectrumCmd.Flags().Set("resample", "0")
	})

	out := mustRun(t, "spectrum", "--file", path, "--resample", "0.005",
		"--pmin", "0.1", "--pmax", "2", "--points", "10", "--spacing", "log",
		"--fourier", fourier, "--psd", psd)
	requireContains(t, out, "Samples:", "2000", "Dominant frequency (PSD):", "Fourier spectrum written", "PSD written")

	// 2000 samples pad to 2048: 1025 Fourier bins, 513 PSD bins
	for _, tc := range []struct {
		path   string
		header string
		lines  int
	}{
		{fourier, "frequency,amplitude,phase", 1026},
		{psd, "frequency,psd", 514},
	} {
		data, err := os.ReadFile(tc.path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), tc.header+"\n") {
			t.Errorf("%s header: %q", tc.path, strings.SplitN(string(data), "\n", 2)[0])
		}
		if n := strings.Count(string(data), "\n"); n != tc.lines {
			t.Errorf("%s has %d lines, want %d", tc.path, n, tc.lines)
		}
	}
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeAT2(t, dir, "burst.AT2", testutil.Burst(2, 800, 100, 300, 0.2, 0.01), 0.01)
	csvPath := filepath.Join(dir, "history.csv")

	out := mustRun(t, "history", "--file", path, "--period", "0.5", "--csv", csvPath)
	requireContains(t, out, "ENERGY AT END OF RECORD", "Kinetic", "Damping", "Absolute acceleration")

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "time,disp,vel,acc,kinetic,strain,damping,input\n") {
		t.Errorf("csv header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
	if n := strings.Count(string(data), "\n"); n != 801 {
		t.Errorf("csv has %d lines, want 801", n)
	}

	if _, err := run(t, "history", "--file", path, "--method", "bogus"); err == nil {
		t.Error("unknown method accepted")
	}
	historyCmd.Flags().Set("method", "newmark")
}

func TestModalCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeAT2(t, dir, "burst.AT2", testutil.Burst(3, 1500, 300, 1200, 0.2, 0.01), 0.02)

	out := mustRun(t, "modal", "--mass", "2e5,2e5", "--stiffness", "1e8,1e8", "--file", path, "--pga", "0.2")
	requireContains(t, out, "SRSS base shear", "THA base shear", "THA / SRSS")
}

func TestSelectCommand(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		writeAT2(t, dir, fmt.Sprintf("long%d.AT2", i), testutil.Burst(int64(i), 2000, 200, 1800, 0.2, 0.01), 0.01)
	}
	writeAT2(t, dir, "short.at2", testutil.Burst(9, 200, 50, 80, 0.2, 0.01), 0.01)
	os.WriteFile(filepath.Join(dir, "broken.AT2"), []byte("not a record\n"), 0644)
	csvPath := filepath.Join(t.TempDir(), "results.csv")

	out := mustRun(t, "select", "--dir", dir, "--periods", "0.5,0.2", "-q", "--csv", csvPath)
	requireContains(t, out, "SELECTION SUMMARY", "short", "Records           4", "broken.AT2")

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "record,duration,max_deviation,shear_ratio,passed,error\n") {
		t.Errorf("csv header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestSelectEmptyDirectory(t *testing.T) {
	if _, err := run(t, "select", "--dir", t.TempDir(), "--periods", "0.5"); err == nil {
		t.Error("select on an empty directory succeeded")
	}
}

func TestGenerateCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("synthesis loop")
	}
	dir := t.TempDir()
	recPath := filepath.Join(dir, "art.AT2")

	out := mustRun(t, "generate", "--samples", "1024", "--max-iter", "3", "--seed", "5",
		"--pmin", "0.1", "--pmax", "2", "--points", "20", "--spacing", "log", "-q", "--out", recPath)
	requireContains(t, out, "STATUS:", "Record ID", "0.0720 g")

	rec, err := seisio.ReadAT2File(recPath)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 1024 {
		t.Errorf("record has %d samples, want 1024", rec.Len())
	}
	testutil.RequireNear(t, "pga", rec.PGA(), 0.072, 1e-6)
}

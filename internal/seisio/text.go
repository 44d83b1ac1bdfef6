package seisio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/alexiusacademia/goseis/internal/record"
)

// DefaultTextDt is assumed for single-column files found by LoadDir.
const DefaultTextDt = 0.02

// TextOptions controls ReadText.
type TextOptions struct {
	// Dt is required for single-column data. For two-column data it
	// overrides the step inferred from the time column.
	Dt float64

	// SingleColumn reads only the first column even when more are present.
	SingleColumn bool

	// SkipRows drops leading lines before parsing.
	SkipRows int
}

// ReadTextFile reads a plain-text record.
func ReadTextFile(path string, opts TextOptions) (*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := ReadText(f, baseName(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rec.Metadata = map[string]string{"path": path}
	return rec, nil
}

// ReadText parses whitespace- or comma-separated columns. Lines starting
// with '#' and lines whose first field is not a number are skipped. With
// two or more columns the first is time and the second acceleration, and
// dt is the mean time step.
func ReadText(r io.Reader, name string, opts TextOptions) (*record.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		t, acc []float64
		line   int
	)
	for sc.Scan() {
		line++
		if line <= opts.SkipRows {
			continue
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}

		v0, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		if opts.SingleColumn || len(fields) == 1 {
			acc = append(acc, v0)
			continue
		}
		v1, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t = append(t, v0)
		acc = append(acc, v1)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(acc) == 0 {
		return nil, ErrNoData
	}

	dt := opts.Dt
	if dt <= 0 {
		if len(t) != len(acc) || len(t) < 2 {
			return nil, ErrMissingDt
		}
		steps := make([]float64, len(t)-1)
		for i := range steps {
			steps[i] = t[i+1] - t[i]
		}
		dt = stat.Mean(steps, nil)
	}
	return record.New(name, dt, acc), nil
}

// WriteTextFile writes rec to path.
func WriteTextFile(path string, rec *record.Record, twoColumn bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteText(f, rec, twoColumn); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteText writes a '#' header with dt and npts followed by one sample
// per line, optionally preceded by its time.
func WriteText(w io.Writer, rec *record.Record, twoColumn bool) error {
	bw := bufio.NewWriter(w)
	if twoColumn {
		fmt.Fprintln(bw, "# Time(s)  Acceleration")
	}
	fmt.Fprintf(bw, "# dt=%g  npts=%d\n", rec.Dt, rec.Len())

	for i, v := range rec.Acc {
		if twoColumn {
			fmt.Fprintf(bw, "%15.7E  %15.7E\n", float64(i)*rec.Dt, v)
		} else {
			fmt.Fprintf(bw, "%15.7E\n", v)
		}
	}
	return bw.Flush()
}

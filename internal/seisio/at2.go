// Package seisio reads and writes ground-motion records and spectra:
// PEER NGA AT2 files, plain-text columns and CSV tables.
package seisio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexiusacademia/goseis/internal/record"
)

var (
	ErrShortHeader = errors.New("seisio: AT2 header needs 4 lines")
	ErrNoStep      = errors.New("seisio: cannot parse dt from AT2 header")
	ErrMissingDt   = errors.New("seisio: single-column text needs dt")
	ErrNoData      = errors.New("seisio: no samples")
)

var (
	nptsPattern = regexp.MustCompile(`(?i)NPTS\s*=?\s*(\d+)`)
	dtPattern   = regexp.MustCompile(`(?i)DT\s*=?\s*([0-9.eE+-]+)`)
)

// ReadAT2File reads a PEER NGA AT2 file. The record is named after the
// file without its extension.
func ReadAT2File(path string) (*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := ReadAT2(f, baseName(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rec.Metadata["path"] = path
	return rec, nil
}

// ReadAT2 parses the AT2 layout: three free-text header lines, a line
// carrying NPTS and DT, then whitespace-separated samples. The fourth line
// may be "NPTS= 4096, DT= .0050 SEC", "4096 0.0050" or any variant whose
// first two numbers are the count and the step. Samples beyond NPTS are
// dropped.
func ReadAT2(r io.Reader, name string) (*record.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	for len(header) < 4 && sc.Scan() {
		header = append(header, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(header) < 4 {
		return nil, ErrShortHeader
	}

	npts, dt, ok := parseStepLine(header[3])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoStep, header[3])
	}

	acc := make([]float64, 0, max(npts, 0))
	for sc.Scan() {
		for _, field := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			acc = append(acc, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if npts > 0 && len(acc) > npts {
		acc = acc[:npts]
	}
	if len(acc) == 0 {
		return nil, ErrNoData
	}

	rec := record.New(name, dt, acc)
	rec.Metadata = map[string]string{
		"header1": header[0],
		"header2": header[1],
		"header3": header[2],
	}
	return rec, nil
}

// parseStepLine extracts NPTS (-1 if absent) and DT from the fourth header
// line.
func parseStepLine(line string) (npts int, dt float64, ok bool) {
	npts = -1
	if m := nptsPattern.FindStringSubmatch(line); m != nil {
		npts, _ = strconv.Atoi(m[1])
	}
	if m := dtPattern.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return npts, v, true
		}
	}

	// "4096    0.0050"
	if parts := strings.Fields(line); len(parts) >= 2 {
		n, err1 := strconv.Atoi(parts[0])
		v, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 == nil && err2 == nil {
			return n, v, true
		}
	}

	// any other layout: first two numbers
	cleaned := strings.NewReplacer("=", " ", ",", " ").Replace(line)
	var nums []float64
	for _, p := range strings.Fields(cleaned) {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			nums = append(nums, v)
		}
	}
	if len(nums) >= 2 {
		return int(nums[0]), nums[1], true
	}
	return npts, 0, false
}

// WriteAT2File writes rec to path in AT2 format.
func WriteAT2File(path string, rec *record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteAT2(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteAT2 writes the AT2 layout with five %15.7E values per line. Header
// lines come from rec.Metadata["header1".."header3"] when present.
func WriteAT2(w io.Writer, rec *record.Record) error {
	bw := bufio.NewWriter(w)

	headers := []string{
		"PEER NGA STRONG MOTION DATABASE RECORD",
		fmt.Sprintf("goseis generated %s, dt=%.4fs", rec.Name, rec.Dt),
		"ACCELERATION (G)",
	}
	for i := range headers {
		if h, ok := rec.Metadata[fmt.Sprintf("header%d", i+1)]; ok {
			headers[i] = h
		}
	}
	for _, h := range headers {
		fmt.Fprintln(bw, h)
	}
	fmt.Fprintf(bw, "NPTS= %8d, DT= %10.6f SEC\n", rec.Len(), rec.Dt)

	for i, v := range rec.Acc {
		fmt.Fprintf(bw, "%15.7E", v)
		if (i+1)%5 == 0 || i == len(rec.Acc)-1 {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

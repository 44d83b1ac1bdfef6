package seisio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alexiusacademia/goseis/internal/response"
)

var ErrColumns = errors.New("seisio: column names and data differ")

// WriteColumnsCSV writes named columns as a CSV table. Shorter columns are
// padded with empty cells.
func WriteColumnsCSV(w io.Writer, names []string, columns [][]float64) error {
	if len(names) != len(columns) {
		return fmt.Errorf("%w: %d names, %d columns", ErrColumns, len(names), len(columns))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return err
	}

	rows := 0
	for _, c := range columns {
		rows = max(rows, len(c))
	}
	row := make([]string, len(columns))
	for i := 0; i < rows; i++ {
		for j, c := range columns {
			row[j] = ""
			if i < len(c) {
				row[j] = strconv.FormatFloat(c[i], 'E', 7, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSpectrumCSV writes period, Sa, Sv, Sd and Se columns.
func WriteSpectrumCSV(w io.Writer, sp *response.Spectrum) error {
	return WriteColumnsCSV(w,
		[]string{"period", "sa", "sv", "sd", "se"},
		[][]float64{sp.Periods, sp.Sa, sp.Sv, sp.Sd, sp.Se},
	)
}

// WriteSpectrumCSVFile writes the spectrum to path.
func WriteSpectrumCSVFile(path string, sp *response.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSpectrumCSV(f, sp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

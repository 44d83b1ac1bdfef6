package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goseis/internal/config"
	"github.com/alexiusacademia/goseis/internal/diagram"
	"github.com/alexiusacademia/goseis/internal/log"
	"github.com/alexiusacademia/goseis/internal/seisio"
	"github.com/alexiusacademia/goseis/internal/selector"
)

var (
	selectDesign    designFlags
	selectDir       string
	selectPattern   string
	selectRecursive bool
	selectPeriods   []float64
	selectTol       float64
	selectShear     bool
	selectMass      []float64
	selectStiffness []float64
	selectCSV       string
	selectQuiet     bool
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Screen candidate records for time-history analysis",
	Long: `Screen a directory of ground-motion records against three gates,
stopping at the first failure for each record:

  1. Effective duration (first to last |a| ≥ 10% PGA) of at least five
     times the longest principal period
  2. Spectral deviation from the GB 50011 curve within the tolerance at
     every principal period
  3. Optional: time-history base shear of the building within 65%-135%
     of the SRSS modal base shear

Without --periods the first three modal periods of the building are used.

Examples:
  # Screen all AT2 files with given principal periods
  goseis select --dir records --periods 1.2,0.4,0.25

  # Shear check on a three-story building, settings from a project file
  goseis select --dir records --config project.yaml --shear \
    --mass 2e5,2e5,1.8e5 --stiffness 1.5e8,1.5e8,1.2e8`,
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)

	d := config.Default().Selection
	selectDesign.register(selectCmd.Flags())
	selectCmd.Flags().StringVarP(&selectDir, "dir", "d", "", "Directory of candidate records [required]")
	selectCmd.Flags().StringVarP(&selectPattern, "pattern", "p", "*.AT2", "File name pattern (case-insensitive)")
	selectCmd.Flags().BoolVarP(&selectRecursive, "recursive", "r", false, "Descend into subdirectories")
	selectCmd.Flags().Float64SliceVar(&selectPeriods, "periods", nil, "Principal structural periods (s)")
	selectCmd.Flags().Float64Var(&selectTol, "tol", d.SpectralTol, "Allowed spectral deviation")
	selectCmd.Flags().BoolVar(&selectShear, "shear", false, "Enable the base-shear gate")
	selectCmd.Flags().Float64SliceVar(&selectMass, "mass", nil, "Story masses, ground story first (kg)")
	selectCmd.Flags().Float64SliceVar(&selectStiffness, "stiffness", nil, "Story stiffnesses (N/m)")
	selectCmd.Flags().StringVar(&selectCSV, "csv", "", "Write per-record results to a CSV file")
	selectCmd.Flags().BoolVarP(&selectQuiet, "quiet", "q", false, "Suppress per-record progress")
	selectCmd.MarkFlagRequired("dir")
}

func applySelectFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	selectDesign.apply(fs, cfg)
	if fs.Changed("periods") {
		cfg.Selection.Periods = selectPeriods
	}
	if fs.Changed("tol") {
		cfg.Selection.SpectralTol = selectTol
	}
	if fs.Changed("shear") {
		cfg.Selection.Shear = selectShear
	}
	if fs.Changed("mass") || fs.Changed("stiffness") {
		cfg.Building = &config.Building{Mass: selectMass, Stiffness: selectStiffness}
	}
}

func runSelect(cmd *cobra.Command, args []string) error {
	applySelectFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	crit, err := cfg.Criteria()
	if err != nil {
		return err
	}
	sel, err := selector.New(crit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	records, loadErrs, err := seisio.LoadDir(selectDir, selectPattern, selectRecursive)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records matching %q in %s", selectPattern, selectDir)
	}

	heading(out, "GROUND MOTION SELECTION - GB 50011-2010")

	section(out, "Criteria")
	w := newTable(out)
	fmt.Fprintf(w, "  Tg, αmax:\t%.2f s, %.3f\n", crit.Design.Tg, crit.Design.AlphaMax)
	fmt.Fprintf(w, "  Principal periods:\t%s\n", formatPeriods(crit.Periods))
	fmt.Fprintf(w, "  Required duration:\t%.2f s (%g × %.3f s)\n",
		crit.DurationFactor*crit.LongestPeriod(), crit.DurationFactor, crit.LongestPeriod())
	fmt.Fprintf(w, "  Spectral tolerance:\t±%.0f%% at PGA %g\n", crit.SpectralTol*100, crit.SpectralPGA)
	if crit.Shear != nil {
		fmt.Fprintf(w, "  Base shear band:\t%.0f%% - %.0f%% of %.4g\n", crit.Shear.Min*100, crit.Shear.Max*100, sel.SRSSBaseShear())
	} else {
		fmt.Fprintf(w, "  Base shear check:\toff\n")
	}
	fmt.Fprintf(w, "  Records loaded:\t%d (%d unreadable)\n", len(records), len(loadErrs))
	w.Flush()
	fmt.Fprintln(out)

	var progress selector.ProgressFunc
	if !selectQuiet {
		progress = func(i, total int, name string) {
			fmt.Fprintf(out, "  [%d/%d] %s\n", i, total, name)
		}
	}
	rep := sel.Select(cmd.Context(), records, progress)
	if progress != nil {
		fmt.Fprintln(out)
	}

	printSelectReport(out, rep, crit.Shear != nil)
	for _, le := range loadErrs {
		fmt.Fprintf(out, "  ⚠ %s\n", le)
	}

	if selectCSV != "" {
		if err := writeSelectCSV(selectCSV, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "Results written to: %s\n", selectCSV)
	}

	sum := rep.Summary()
	log.Infow("selection finished", "run", rep.RunID, "total", sum.Total, "passed", sum.PassedAll, "cancelled", rep.Cancelled)
	return nil
}

func printSelectReport(out io.Writer, rep *selector.Report, shear bool) {
	section(out, "Results")
	w := newTable(out)
	header := "  Record\tDuration (s)\tMax dev.\t"
	if shear {
		header += "V/Vsrss\t"
	}
	fmt.Fprintln(w, header+"Result")
	for i := range rep.Results {
		res := &rep.Results[i]
		row := fmt.Sprintf("  %s\t%.2f %s\t", res.Name(), res.EffectiveDuration, mark(res.PassedDuration))
		if res.PassedDuration {
			row += fmt.Sprintf("%.1f%% %s\t", res.MaxDeviation()*100, mark(res.PassedSpectral))
		} else {
			row += "-\t"
		}
		if shear {
			if res.ShearChecked {
				row += fmt.Sprintf("%.3f %s\t", res.ShearRatio, mark(res.PassedShear))
			} else {
				row += "-\t"
			}
		}
		switch {
		case res.Err != nil:
			row += "error: " + res.Err.Error()
		case res.Passed:
			row += "PASS"
		default:
			row += "fail"
		}
		fmt.Fprintln(w, row)
	}
	w.Flush()
	fmt.Fprintln(out)

	sum := rep.Summary()
	lines := []string{
		fmt.Sprintf("Run ID            %s", rep.RunID),
		fmt.Sprintf("Records           %d", sum.Total),
		fmt.Sprintf("Duration passed   %d", sum.PassedDuration),
		fmt.Sprintf("Spectrum passed   %d", sum.PassedSpectral),
	}
	if shear {
		lines = append(lines, fmt.Sprintf("Shear passed      %d", sum.PassedShear))
	}
	lines = append(lines,
		fmt.Sprintf("Selected          %d", sum.PassedAll),
		fmt.Sprintf("Errors            %d", sum.Failed),
		fmt.Sprintf("Elapsed           %s", rep.Elapsed.Round(time.Millisecond)),
	)
	if rep.Cancelled {
		lines = append(lines, "Run cancelled, results are partial")
	}
	fmt.Fprint(out, diagram.DrawSummaryBox("SELECTION SUMMARY", lines))
	fmt.Fprintln(out)

	if len(sum.PassedNames) > 0 {
		fmt.Fprintln(out, "Selected records:")
		for _, name := range sum.PassedNames {
			fmt.Fprintf(out, "  • %s\n", name)
		}
		fmt.Fprintln(out)
	}
}

func writeSelectCSV(path string, rep *selector.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	cw.Write([]string{"record", "duration", "max_deviation", "shear_ratio", "passed", "error"})
	for i := range rep.Results {
		res := &rep.Results[i]
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		cw.Write([]string{
			res.Name(),
			strconv.FormatFloat(res.EffectiveDuration, 'f', 4, 64),
			strconv.FormatFloat(res.MaxDeviation(), 'f', 4, 64),
			strconv.FormatFloat(res.ShearRatio, 'f', 4, 64),
			strconv.FormatBool(res.Passed),
			errText,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatPeriods(periods []float64) string {
	parts := make([]string, len(periods))
	for i, t := range periods {
		parts[i] = fmt.Sprintf("%.3f", t)
	}
	return strings.Join(parts, ", ")
}

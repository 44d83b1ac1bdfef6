package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goseis/internal/diagram"
	"github.com/alexiusacademia/goseis/internal/gb50011"
	"github.com/alexiusacademia/goseis/internal/log"
	"github.com/alexiusacademia/goseis/internal/seisio"
	"github.com/alexiusacademia/goseis/internal/synth"
)

var (
	generateDesign  designFlags
	generatePeriods periodFlags
	generateN       int
	generateDt      float64
	generatePGA     float64
	generateTol     float64
	generateMaxIter int
	generateSeed    int64
	generateOut     string
	generateCSV     string
	generatePlot    bool
	generateOutput  string
	generateWave    string
	generateQuiet   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an artificial record matching the design spectrum",
	Long: `Synthesize an acceleration record whose response spectrum matches the
GB 50011 design spectrum. Enveloped white noise is corrected in the
frequency domain until every spectral ordinate is within the tolerance
or the iteration limit is reached. The best waveform seen is kept.

The target is α(T) in g, so the record is written in g. Without --pga the
peak ground acceleration is 0.45·αmax, the curve's value at T = 0.

Examples:
  # Frequent earthquake, intensity 8, site II, write a PEER AT2 file
  goseis generate --intensity 8 --site II --out artificial.AT2

  # Tighter fit with a fixed seed and a PNG comparison
  goseis generate --tol 0.03 --max-iter 100 --seed 7 -o match.png`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	d := synth.DefaultConfig()
	generateDesign.register(generateCmd.Flags())
	generatePeriods.register(generateCmd.Flags())
	generateCmd.Flags().IntVar(&generateN, "samples", d.N, "Number of samples")
	generateCmd.Flags().Float64Var(&generateDt, "dt", d.Dt, "Time step (s)")
	generateCmd.Flags().Float64Var(&generatePGA, "pga", 0, "Peak ground acceleration (g); 0 uses 0.45·αmax")
	generateCmd.Flags().Float64Var(&generateTol, "tol", d.Tol, "Largest allowed relative spectral error")
	generateCmd.Flags().IntVar(&generateMaxIter, "max-iter", d.MaxIter, "Iteration limit")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", d.Seed, "Random seed")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Write the record to a file (.AT2 or text)")
	generateCmd.Flags().StringVar(&generateCSV, "csv", "", "Write the achieved spectrum to a CSV file")
	generateCmd.Flags().BoolVar(&generatePlot, "plot", false, "Show terminal charts")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Export spectrum comparison to file (png, svg, pdf)")
	generateCmd.Flags().StringVar(&generateWave, "wave-output", "", "Export the waveform to file (png, svg, pdf)")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress per-iteration progress")
}

func applyGenerateFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	generateDesign.apply(fs, cfg)
	generatePeriods.apply(fs, cfg)
	s := &cfg.Synthesis
	if fs.Changed("samples") {
		s.Points = generateN
	}
	if fs.Changed("dt") {
		s.Dt = generateDt
	}
	if fs.Changed("pga") {
		s.PGA = generatePGA
	}
	if fs.Changed("tol") {
		s.Tol = generateTol
	}
	if fs.Changed("max-iter") {
		s.MaxIter = generateMaxIter
	}
	if fs.Changed("seed") {
		s.Seed = generateSeed
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	applyGenerateFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	params, err := cfg.DesignParams()
	if err != nil {
		return err
	}
	periods, err := cfg.PeriodGrid()
	if err != nil {
		return err
	}
	d := cfg.Design
	target := gb50011.Curve(periods, params, d.Damping, d.Isolation)
	sc := cfg.SynthConfig()

	out := cmd.OutOrStdout()
	heading(out, "SPECTRUM-COMPATIBLE ARTIFICIAL RECORD")

	section(out, "Target")
	w := newTable(out)
	fmt.Fprintf(w, "  Intensity / group / site:\t%g / %d / %s\n", d.Intensity, d.Group, d.Site)
	fmt.Fprintf(w, "  Level:\t%s\n", d.Level)
	fmt.Fprintf(w, "  Tg, αmax:\t%.2f s, %.3f\n", params.Tg, params.AlphaMax)
	fmt.Fprintf(w, "  Damping (ζ):\t%.3f\n", sc.Damping)
	fmt.Fprintf(w, "  Periods:\t%d (%.3f - %.3f s)\n", len(periods), periods[0], periods[len(periods)-1])
	w.Flush()
	fmt.Fprintln(out)

	section(out, "Synthesis")
	w = newTable(out)
	fmt.Fprintf(w, "  Samples × dt:\t%d × %g s (%.1f s)\n", sc.N, sc.Dt, float64(sc.N-1)*sc.Dt)
	fmt.Fprintf(w, "  PGA:\t%.4f g\n", sc.PGA)
	fmt.Fprintf(w, "  Tolerance:\t%.1f%%\n", sc.Tol*100)
	fmt.Fprintf(w, "  Iteration limit:\t%d\n", sc.MaxIter)
	fmt.Fprintf(w, "  Seed:\t%d\n", sc.Seed)
	w.Flush()
	fmt.Fprintln(out)

	var progress synth.ProgressFunc
	if !generateQuiet {
		progress = func(iter, maxIter int, fit synth.Fit) {
			fmt.Fprintf(out, "  [%3d/%d] %s\n", iter, maxIter, fit)
		}
	}

	res, err := synth.Generate(cmd.Context(), target, periods, sc, progress)
	if err != nil {
		return err
	}
	log.Infow("synthesis finished", "id", res.ID, "status", res.Status.String(), "iterations", res.Iterations)
	if progress != nil {
		fmt.Fprintln(out)
	}

	printGenerateResult(out, res)

	if generatePlot {
		chart, err := diagram.SpectrumChart(periods, []diagram.Series{
			{Label: "record", Values: res.Spectrum.Sa},
			{Label: "target", Values: target},
		}, diagram.ChartOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, chart)
		fmt.Fprintln(out)
		wave, err := diagram.WaveformChart(res.Record.Acc, res.Record.Dt, diagram.ChartOptions{Height: 8})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, wave)
		fmt.Fprintln(out)
	}

	if generateOut != "" {
		if err := writeRecord(generateOut, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "Record written to: %s\n", generateOut)
	}

	if generateCSV != "" {
		if err := seisio.WriteSpectrumCSVFile(generateCSV, res.Spectrum); err != nil {
			return err
		}
		fmt.Fprintf(out, "Spectrum written to: %s\n", generateCSV)
	}

	if generateOutput != "" {
		err := diagram.ExportSpectrum(diagram.SpectrumPlot{
			Title:   fmt.Sprintf("Artificial record vs GB 50011 (%s)", res.Status),
			YLabel:  "Sa (g)",
			Periods: periods,
			Series: []diagram.Series{
				{Label: "record", Values: res.Spectrum.Sa},
				{Label: "target", Values: target},
			},
			LogX:      true,
			Band:      sc.Tol,
			BandIndex: 1,
		}, generateOutput)
		if err != nil {
			return fmt.Errorf("exporting chart: %w", err)
		}
		fmt.Fprintf(out, "Chart exported to: %s\n", generateOutput)
	}

	if generateWave != "" {
		if err := diagram.ExportWaveform("Artificial record "+res.ID[:8], res.Record.Acc, res.Record.Dt, generateWave); err != nil {
			return fmt.Errorf("exporting waveform: %w", err)
		}
		fmt.Fprintf(out, "Waveform exported to: %s\n", generateWave)
	}
	return nil
}

func printGenerateResult(out io.Writer, res *synth.Result) {
	section(out, "Result")
	w := newTable(out)
	fmt.Fprintf(w, "  Record ID:\t%s\n", res.ID)
	fmt.Fprintf(w, "  Status:\t%s\n", res.Status)
	fmt.Fprintf(w, "  Iterations:\t%d\n", res.Iterations)
	if len(res.History) > 0 {
		fmt.Fprintf(w, "  Initial fit:\t%s\n", res.History[0])
	}
	fmt.Fprintf(w, "  Best fit:\t%s\n", res.Fit)
	fmt.Fprintf(w, "  PGA:\t%.4f g\n", res.Record.PGA())
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprint(out, diagram.DrawSummaryBox("STATUS: "+res.Status.String(), []string{
		fmt.Sprintf("max error  %.2f%%", res.Fit.Max*100),
		fmt.Sprintf("rms error  %.2f%%", res.Fit.RMS*100),
	}))
	fmt.Fprintln(out)
}

func writeRecord(path string, res *synth.Result) error {
	if isAT2(path) {
		return seisio.WriteAT2File(path, res.Record)
	}
	return seisio.WriteTextFile(path, res.Record, true)
}

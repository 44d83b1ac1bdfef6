package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/alexiusacademia/goseis/internal/diagram"
	"github.com/alexiusacademia/goseis/internal/log"
	"github.com/alexiusacademia/goseis/internal/record"
	"github.com/alexiusacademia/goseis/internal/response"
	"github.com/alexiusacademia/goseis/internal/seisio"
)

var (
	spectrumFile    string
	spectrumFormat  string
	spectrumDt      float64
	spectrumMethod  string
	spectrumZeta    float64
	spectrumTrim    bool
	spectrumResamp  float64
	spectrumPeriods periodFlags
	spectrumCSV     string
	spectrumPlot    bool
	spectrumOutput  string
	spectrumWave    string
	spectrumFourier string
	spectrumPSD     string
)

var spectrumCmd = &cobra.Command{
	Use:   "spectrum",
	Short: "Compute the elastic response spectrum of a record",
	Long: `Compute the pseudo-acceleration, velocity, displacement and energy
spectra of an acceleration record for a damped linear oscillator.

Methods:
  newmark  Newmark-β average acceleration (unconditionally stable)
  freq     closed-form transfer function applied to the record FFT
  mixed    freq below 0.5 s, newmark above

Examples:
  # PEER NGA record, default mixed grid 0.04-6 s
  goseis spectrum --file RSN1_HELENA.A_A-HMC180.AT2

  # Single-column text file sampled at 0.01 s, 2% damping, CSV output
  goseis spectrum -f record.txt --dt 0.01 --zeta 0.02 --csv spectrum.csv`,
	RunE: runSpectrum,
}

func init() {
	rootCmd.AddCommand(spectrumCmd)

	spectrumCmd.Flags().StringVarP(&spectrumFile, "file", "f", "", "Record file [required]")
	spectrumCmd.Flags().StringVar(&spectrumFormat, "format", "", "Record format (at2, txt); default by extension")
	spectrumCmd.Flags().Float64Var(&spectrumDt, "dt", 0, "Time step for single-column text files (s)")
	spectrumCmd.Flags().StringVar(&spectrumMethod, "method", "", "Response method (newmark, freq, mixed)")
	spectrumCmd.Flags().Float64Var(&spectrumZeta, "zeta", 0.05, "Damping ratio")
	spectrumCmd.Flags().BoolVar(&spectrumTrim, "trim", false, "Trim to the 5-95% Arias window first")
	spectrumCmd.Flags().Float64Var(&spectrumResamp, "resample", 0, "Resample to this time step before analysis (s)")
	spectrumPeriods.register(spectrumCmd.Flags())
	spectrumCmd.Flags().StringVar(&spectrumCSV, "csv", "", "Write the spectrum to a CSV file")
	spectrumCmd.Flags().BoolVar(&spectrumPlot, "plot", false, "Show terminal charts")
	spectrumCmd.Flags().StringVarP(&spectrumOutput, "output", "o", "", "Export Sa chart to file (png, svg, pdf)")
	spectrumCmd.Flags().StringVar(&spectrumWave, "wave-output", "", "Export the record waveform to file (png, svg, pdf)")
	spectrumCmd.Flags().StringVar(&spectrumFourier, "fourier", "", "Write Fourier amplitude and phase to a CSV file")
	spectrumCmd.Flags().StringVar(&spectrumPSD, "psd", "", "Write the Welch power spectral density to a CSV file")
	spectrumCmd.MarkFlagRequired("file")
}

// readRecord loads an AT2 or text record. format overrides the extension.
func readRecord(path, format string, dt float64) (*record.Record, error) {
	if format == "" {
		format = "txt"
		if isAT2(path) {
			format = "at2"
		}
	}
	switch strings.ToLower(format) {
	case "at2":
		return seisio.ReadAT2File(path)
	case "txt", "text":
		return seisio.ReadTextFile(path, seisio.TextOptions{Dt: dt})
	default:
		return nil, fmt.Errorf("unknown record format %q (want at2 or txt)", format)
	}
}

func isAT2(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".at2")
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	spectrumPeriods.apply(cmd.Flags(), cfg)
	if spectrumMethod != "" {
		cfg.Response.Method = spectrumMethod
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rec, err := readRecord(spectrumFile, spectrumFormat, spectrumDt)
	if err != nil {
		return err
	}
	if spectrumTrim {
		if rec, err = rec.AutoTrim(0.05, 0.95); err != nil {
			return err
		}
	}
	if spectrumResamp > 0 {
		if rec, err = rec.Resample(spectrumResamp); err != nil {
			return err
		}
	}
	periods, err := cfg.PeriodGrid()
	if err != nil {
		return err
	}

	log.Debugw("computing spectrum", "record", rec.Name, "samples", rec.Len(), "periods", len(periods))
	sp, err := response.Compute(rec.Acc, rec.Dt, periods, spectrumZeta, cfg.Method())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	heading(out, "ELASTIC RESPONSE SPECTRUM")

	vel, disp := rec.Integrate(0, 0)
	section(out, "Record")
	w := newTable(out)
	fmt.Fprintf(w, "  Name:\t%s\n", rec.Name)
	fmt.Fprintf(w, "  Samples:\t%d\n", rec.Len())
	fmt.Fprintf(w, "  Time step (dt):\t%g s\n", rec.Dt)
	fmt.Fprintf(w, "  Duration:\t%.2f s\n", rec.Duration())
	fmt.Fprintf(w, "  Significant duration (5-95%%):\t%.2f s\n", rec.SignificantDuration())
	fmt.Fprintf(w, "  PGA:\t%.5g\n", rec.PGA())
	fmt.Fprintf(w, "  PGV:\t%.5g\n", record.PeakAbs(vel))
	fmt.Fprintf(w, "  PGD:\t%.5g\n", record.PeakAbs(disp))
	freqs, psd, psdErr := rec.PSD(0.5)
	if psdErr == nil {
		fmt.Fprintf(w, "  Dominant frequency (PSD):\t%.3f Hz\n", freqs[floats.MaxIdx(psd)])
	}
	w.Flush()
	fmt.Fprintln(out)

	peakSa, peakT := sp.PeakSa()
	section(out, "Spectrum")
	w = newTable(out)
	fmt.Fprintf(w, "  Method:\t%s\n", sp.Method)
	fmt.Fprintf(w, "  Damping (ζ):\t%.3f\n", sp.Damping)
	fmt.Fprintf(w, "  Periods:\t%d (%.3f - %.3f s, %s)\n", sp.Len(), periods[0], periods[len(periods)-1], cfg.Periods.Spacing)
	fmt.Fprintf(w, "  Peak Sa:\t%.5g at T = %.3f s\n", peakSa, peakT)
	if pga := rec.PGA(); pga > 0 {
		fmt.Fprintf(w, "  Amplification (Sa/PGA):\t%.3f\n", peakSa/pga)
	}
	w.Flush()
	fmt.Fprintln(out)

	if spectrumPlot {
		chart, err := diagram.SpectrumChart(sp.Periods, []diagram.Series{{Label: "Sa", Values: sp.Sa}}, diagram.ChartOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, chart)
		fmt.Fprintln(out)
		wave, err := diagram.WaveformChart(rec.Acc, rec.Dt, diagram.ChartOptions{Height: 8})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, wave)
		fmt.Fprintln(out)
	}

	if spectrumCSV != "" {
		if err := seisio.WriteSpectrumCSVFile(spectrumCSV, sp); err != nil {
			return err
		}
		fmt.Fprintf(out, "Spectrum written to: %s\n", spectrumCSV)
	}

	if spectrumFourier != "" {
		f, amp := rec.FourierAmplitude()
		_, phase := rec.Phase()
		if err := writeColumns(spectrumFourier, []string{"frequency", "amplitude", "phase"}, [][]float64{f, amp, phase}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Fourier spectrum written to: %s\n", spectrumFourier)
	}

	if spectrumPSD != "" {
		if psdErr != nil {
			return psdErr
		}
		if err := writeColumns(spectrumPSD, []string{"frequency", "psd"}, [][]float64{freqs, psd}); err != nil {
			return err
		}
		fmt.Fprintf(out, "PSD written to: %s\n", spectrumPSD)
	}

	if spectrumOutput != "" {
		err := diagram.ExportSpectrum(diagram.SpectrumPlot{
			Title:   fmt.Sprintf("%s, ζ = %.2f", rec.Name, sp.Damping),
			Periods: sp.Periods,
			Series:  []diagram.Series{{Label: "Sa", Values: sp.Sa}},
			LogX:    cfg.Periods.Spacing != "linear",
		}, spectrumOutput)
		if err != nil {
			return fmt.Errorf("exporting chart: %w", err)
		}
		fmt.Fprintf(out, "Chart exported to: %s\n", spectrumOutput)
	}

	if spectrumWave != "" {
		if err := diagram.ExportWaveform(rec.Name, rec.Acc, rec.Dt, spectrumWave); err != nil {
			return fmt.Errorf("exporting waveform: %w", err)
		}
		fmt.Fprintf(out, "Waveform exported to: %s\n", spectrumWave)
	}
	return nil
}

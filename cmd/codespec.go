package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goseis/internal/diagram"
	"github.com/alexiusacademia/goseis/internal/gb50011"
)

var (
	codespecDesign  designFlags
	codespecPeriods periodFlags
	codespecPlot    bool
	codespecOutput  string
	codespecCSV     string
)

var codespecCmd = &cobra.Command{
	Use:   "codespec",
	Short: "Evaluate the GB 50011 design response spectrum",
	Long: `Evaluate the seismic influence coefficient curve α(T) of
GB 50011-2010 Section 5.1.5 for the given fortification intensity,
design earthquake group, site class and earthquake level.

Examples:
  # Frequent earthquake, intensity 8, group 2, site class II
  goseis codespec --intensity 8 --group 2 --site II --level frequent

  # Rare earthquake with 4% damping, terminal chart and PNG export
  goseis codespec --intensity 7 --level rare --zeta 0.04 --plot -o alpha.png`,
	RunE: runCodespec,
}

func init() {
	rootCmd.AddCommand(codespecCmd)

	codespecDesign.register(codespecCmd.Flags())
	codespecPeriods.register(codespecCmd.Flags())
	codespecCmd.Flags().BoolVar(&codespecPlot, "plot", false, "Show terminal chart")
	codespecCmd.Flags().StringVarP(&codespecOutput, "output", "o", "", "Export chart to file (png, svg, pdf)")
	codespecCmd.Flags().StringVar(&codespecCSV, "csv", "", "Write period,alpha to a CSV file")
}

func runCodespec(cmd *cobra.Command, args []string) error {
	codespecDesign.apply(cmd.Flags(), cfg)
	codespecPeriods.apply(cmd.Flags(), cfg)

	params, err := cfg.DesignParams()
	if err != nil {
		return err
	}
	periods, err := cfg.PeriodGrid()
	if err != nil {
		return err
	}
	d := cfg.Design
	alpha := gb50011.Curve(periods, params, d.Damping, d.Isolation)

	out := cmd.OutOrStdout()
	heading(out, "DESIGN RESPONSE SPECTRUM - GB 50011-2010")

	section(out, "Input data")
	w := newTable(out)
	fmt.Fprintf(w, "  Intensity:\t%g\n", d.Intensity)
	fmt.Fprintf(w, "  Design group:\t%d\n", d.Group)
	fmt.Fprintf(w, "  Site class:\t%s\n", d.Site)
	fmt.Fprintf(w, "  Level:\t%s\n", d.Level)
	fmt.Fprintf(w, "  Damping (ζ):\t%.3f\n", d.Damping)
	fmt.Fprintf(w, "  Isolation:\t%t\n", d.Isolation)
	w.Flush()
	fmt.Fprintln(out)

	gamma, eta1, eta2 := gb50011.DampingFactors(d.Damping)
	section(out, "Curve parameters")
	w = newTable(out)
	fmt.Fprintf(w, "  Characteristic period (Tg):\t%.2f s\n", params.Tg)
	fmt.Fprintf(w, "  Maximum coefficient (αmax):\t%.3f\n", params.AlphaMax)
	fmt.Fprintf(w, "  Decay exponent (γ):\t%.4f\n", gamma)
	fmt.Fprintf(w, "  Linear decay slope (η1):\t%.4f\n", eta1)
	fmt.Fprintf(w, "  Damping adjustment (η2):\t%.4f\n", eta2)
	w.Flush()
	fmt.Fprintln(out)

	section(out, "Key ordinates")
	w = newTable(out)
	fmt.Fprintln(w, "  T (s)\tα\tsegment")
	for _, k := range []struct {
		t    float64
		name string
	}{
		{0, "start"},
		{gb50011.RisePeriod, "plateau start"},
		{params.Tg, "plateau end"},
		{5 * params.Tg, "power-law end"},
		{gb50011.CutoffPeriod, "cutoff"},
	} {
		fmt.Fprintf(w, "  %.2f\t%.4f\t%s\n", k.t, gb50011.Alpha(k.t, params, d.Damping, d.Isolation), k.name)
	}
	w.Flush()
	fmt.Fprintln(out)

	if codespecPlot {
		chart, err := diagram.SpectrumChart(periods, []diagram.Series{{Label: "α", Values: alpha}}, diagram.ChartOptions{})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, chart)
		fmt.Fprintln(out)
	}

	if codespecCSV != "" {
		if err := writeColumns(codespecCSV, []string{"period", "alpha"}, [][]float64{periods, alpha}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Curve written to: %s\n", codespecCSV)
	}

	if codespecOutput != "" {
		err := diagram.ExportSpectrum(diagram.SpectrumPlot{
			Title:   fmt.Sprintf("GB 50011 %s, intensity %g, site %s", d.Level, d.Intensity, d.Site),
			YLabel:  "α",
			Periods: periods,
			Series:  []diagram.Series{{Label: "α(T)", Values: alpha}},
		}, codespecOutput)
		if err != nil {
			return fmt.Errorf("exporting chart: %w", err)
		}
		fmt.Fprintf(out, "Chart exported to: %s\n", codespecOutput)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexiusacademia/goseis/internal/config"
	"github.com/alexiusacademia/goseis/internal/log"
	"github.com/alexiusacademia/goseis/internal/seisio"
	"github.com/alexiusacademia/goseis/internal/version"
)

const rule = "───────────────────────────────────────────────────────────────"

var (
	debug      bool
	configFile string

	// cfg holds the project settings for the running command, file values
	// first and changed flags on top.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "goseis",
	Short: "Seismic ground-motion toolkit",
	Long: `goseis - Go Seismic Ground Motion Toolkit

A CLI tool for preparing ground motions for time-history analysis
of buildings designed to GB 50011-2010.

This tool helps structural engineers:
  - Compute elastic response spectra of acceleration records
  - Draw the GB 50011 design response spectrum
  - Generate artificial records compatible with a target spectrum
  - Screen candidate records by duration, spectrum and base shear
  - Compute modal properties of shear buildings`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.Init(debug); err != nil {
			return err
		}
		return loadConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   goseis v%-48s║\n", version.Version)
		fmt.Fprintln(out, "  ║   Go Seismic Ground Motion Toolkit                        ║")
		fmt.Fprintf(out, "  ║   %-56s║\n", version.Author+" © "+version.Year)
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Features:")
		fmt.Fprintln(out, "    • Response spectra by Newmark, frequency-domain or mixed methods")
		fmt.Fprintln(out, "    • GB 50011 seismic influence coefficient curve")
		fmt.Fprintln(out, "    • Spectrum-compatible artificial records")
		fmt.Fprintln(out, "    • Record selection by duration, spectrum and base shear")
		fmt.Fprintln(out, "    • Modal analysis of shear buildings")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'goseis --help' to see available commands.")
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Ctrl-C cancels the command context so long runs stop with partial results.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Project file (YAML)")
}

func loadConfig() error {
	if configFile == "" {
		cfg = config.Default()
		return nil
	}
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log.Debugw("config loaded", "path", configFile)
	cfg = c
	return nil
}

// designFlags are the GB 50011 inputs shared by several commands.
type designFlags struct {
	intensity float64
	group     int
	site      string
	level     string
	zeta      float64
	isolation bool
}

func (f *designFlags) register(fs *pflag.FlagSet) {
	d := config.Default().Design
	fs.Float64Var(&f.intensity, "intensity", d.Intensity, "Fortification intensity (6, 7, 7.5, 8, 8.5, 9)")
	fs.IntVar(&f.group, "group", d.Group, "Design earthquake group (1-3)")
	fs.StringVar(&f.site, "site", d.Site, "Site class (I0, I1, II, III, IV)")
	fs.StringVar(&f.level, "level", d.Level, "Earthquake level (frequent, basic, rare)")
	fs.Float64Var(&f.zeta, "zeta", d.Damping, "Damping ratio")
	fs.BoolVar(&f.isolation, "isolation", d.Isolation, "Use the isolated-structure curve")
}

func (f *designFlags) apply(fs *pflag.FlagSet, c *config.Config) {
	if fs.Changed("intensity") {
		c.Design.Intensity = f.intensity
	}
	if fs.Changed("group") {
		c.Design.Group = f.group
	}
	if fs.Changed("site") {
		c.Design.Site = f.site
	}
	if fs.Changed("level") {
		c.Design.Level = f.level
	}
	if fs.Changed("zeta") {
		c.Design.Damping = f.zeta
	}
	if fs.Changed("isolation") {
		c.Design.Isolation = f.isolation
	}
}

// periodFlags define the analysis period grid.
type periodFlags struct {
	min, max float64
	points   int
	spacing  string
}

func (f *periodFlags) register(fs *pflag.FlagSet) {
	p := config.Default().Periods
	fs.Float64Var(&f.min, "pmin", p.Min, "Shortest period (s)")
	fs.Float64Var(&f.max, "pmax", p.Max, "Longest period (s)")
	fs.IntVar(&f.points, "points", p.Points, "Number of periods")
	fs.StringVar(&f.spacing, "spacing", p.Spacing, "Period spacing (log, linear, mixed)")
}

func (f *periodFlags) apply(fs *pflag.FlagSet, c *config.Config) {
	if fs.Changed("pmin") {
		c.Periods.Min = f.min
	}
	if fs.Changed("pmax") {
		c.Periods.Max = f.max
	}
	if fs.Changed("points") {
		c.Periods.Points = f.points
	}
	if fs.Changed("spacing") {
		c.Periods.Spacing = f.spacing
	}
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func heading(out io.Writer, title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     %s\n", title)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "%s:\n", strings.ToUpper(title))
	fmt.Fprintln(out, rule)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// writeColumns writes named columns to a CSV file.
func writeColumns(path string, names []string, columns [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := seisio.WriteColumnsCSV(f, names, columns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package diagram

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/interp"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("diagram: no data to plot")

// Series is one named curve sharing the chart's x values.
type Series struct {
	Label  string
	Values []float64
}

// ChartOptions controls the terminal chart size.
type ChartOptions struct {
	Width   int // columns of plot area
	Height  int // rows of plot area
	Caption string
}

// DefaultChartOptions fits an 80 column terminal.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 64, Height: 14}
}

func (o ChartOptions) normalized() ChartOptions {
	d := DefaultChartOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Gray,
}

// SpectrumChart draws one or more spectral curves against period. The
// curves are resampled onto a uniform period axis so the chart reads like a
// linear plot even for logarithmic grids.
func SpectrumChart(periods []float64, series []Series, opts ChartOptions) (string, error) {
	opts = opts.normalized()
	if len(periods) < 2 || len(series) == 0 {
		return "", ErrNoData
	}
	for i := 1; i < len(periods); i++ {
		if periods[i] <= periods[i-1] {
			return "", fmt.Errorf("diagram: periods must be strictly ascending")
		}
	}

	lo, hi := periods[0], periods[len(periods)-1]
	data := make([][]float64, 0, len(series))
	legends := make([]string, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	for i, s := range series {
		if len(s.Values) != len(periods) {
			return "", fmt.Errorf("diagram: series %q has %d values, want %d", s.Label, len(s.Values), len(periods))
		}
		data = append(data, resample(periods, s.Values, lo, hi, opts.Width))
		legends = append(legends, s.Label)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}

	caption := opts.Caption
	if caption == "" {
		caption = fmt.Sprintf("T = %.2f .. %.2f s", lo, hi)
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	), nil
}

// WaveformChart draws an acceleration history. Long records are reduced to
// one sample per column, keeping the largest magnitude in each column so
// peaks survive.
func WaveformChart(acc []float64, dt float64, opts ChartOptions) (string, error) {
	opts = opts.normalized()
	if len(acc) == 0 {
		return "", ErrNoData
	}

	caption := opts.Caption
	if caption == "" {
		caption = fmt.Sprintf("%d samples, dt = %g s, %.2f s", len(acc), dt, float64(len(acc)-1)*dt)
	}

	return asciigraph.Plot(decimate(acc, opts.Width),
		asciigraph.Height(opts.Height),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	), nil
}

// resample linearly interpolates (x, y) at n evenly spaced points in
// [lo, hi]. x must be strictly increasing.
func resample(x, y []float64, lo, hi float64, n int) []float64 {
	var pl interp.PiecewiseLinear
	pl.Fit(x, y)

	out := make([]float64, n)
	if n == 1 {
		out[0] = pl.Predict(lo)
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = pl.Predict(lo + float64(i)*step)
	}
	return out
}

// decimate keeps the signed peak of each of n buckets.
func decimate(v []float64, n int) []float64 {
	if len(v) <= n {
		return append([]float64(nil), v...)
	}
	out := make([]float64, n)
	for b := range out {
		from := b * len(v) / n
		to := (b + 1) * len(v) / n
		peak := v[from]
		for _, x := range v[from:to] {
			if math.Abs(x) > math.Abs(peak) {
				peak = x
			}
		}
		out[b] = peak
	}
	return out
}

// DrawSummaryBox draws a boxed summary with a title.
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// pad right-fills s with spaces to width runes. %-*s counts bytes, which
// breaks alignment for symbols like ζ and α.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

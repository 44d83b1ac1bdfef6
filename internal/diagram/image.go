package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SpectrumPlot describes a spectrum figure. The first series is drawn
// solid, the rest dashed, which suits a record-vs-target comparison.
type SpectrumPlot struct {
	Title   string
	YLabel  string
	Periods []float64
	Series  []Series
	LogX    bool

	// Band shades the acceptance band around a reference curve, as a
	// fraction (0.2 draws ±20%). Zero disables it.
	Band      float64
	BandIndex int
}

// ExportSpectrum writes a spectrum figure. The format follows the file
// extension (.png, .svg, .pdf).
func ExportSpectrum(data SpectrumPlot, filename string) error {
	if len(data.Periods) < 2 || len(data.Series) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = "Period (s)"
	p.Y.Label.Text = data.YLabel
	if p.Y.Label.Text == "" {
		p.Y.Label.Text = "Sa"
	}
	p.Add(plotter.NewGrid())

	if data.LogX {
		if data.Periods[0] <= 0 {
			return fmt.Errorf("diagram: log axis needs positive periods, got %g", data.Periods[0])
		}
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	if data.Band > 0 && data.BandIndex >= 0 && data.BandIndex < len(data.Series) {
		ref := data.Series[data.BandIndex].Values
		if len(ref) != len(data.Periods) {
			return fmt.Errorf("diagram: band reference has %d values, want %d", len(ref), len(data.Periods))
		}
		for _, f := range []float64{1 - data.Band, 1 + data.Band} {
			edge, err := plotter.NewLine(xys(data.Periods, ref, f))
			if err != nil {
				return err
			}
			edge.LineStyle.Width = vg.Points(0.75)
			edge.LineStyle.Color = color.Gray{Y: 150}
			edge.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
			p.Add(edge)
		}
		p.Legend.Add(fmt.Sprintf("±%.0f%%", data.Band*100))
	}

	for i, s := range data.Series {
		if len(s.Values) != len(data.Periods) {
			return fmt.Errorf("diagram: series %q has %d values, want %d", s.Label, len(s.Values), len(data.Periods))
		}
		line, err := plotter.NewLine(xys(data.Periods, s.Values, 1))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		if i > 0 {
			line.LineStyle.Dashes = plotutil.Dashes(i)
		}
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}
	p.Legend.Top = true

	return save(p, 8*vg.Inch, 5*vg.Inch, filename)
}

// ExportWaveform writes an acceleration history figure with the peak
// marked.
func ExportWaveform(title string, acc []float64, dt float64, filename string) error {
	if len(acc) == 0 {
		return ErrNoData
	}
	if !(dt > 0) {
		return fmt.Errorf("diagram: invalid time step %g", dt)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Acceleration"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(acc))
	peak := 0
	for i, a := range acc {
		pts[i] = plotter.XY{X: float64(i) * dt, Y: a}
		if abs(a) > abs(acc[peak]) {
			peak = i
		}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(0.75)
	line.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	p.Add(line)

	marker, err := plotter.NewScatter(plotter.XYs{pts[peak]})
	if err != nil {
		return err
	}
	marker.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	marker.GlyphStyle.Radius = vg.Points(3)
	p.Add(marker)
	p.Legend.Add(fmt.Sprintf("peak %.4g at %.2f s", acc[peak], pts[peak].X), marker)

	return save(p, 10*vg.Inch, 4*vg.Inch, filename)
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return p.Save(width, height, filename)
}

func xys(x, y []float64, scale float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i] = plotter.XY{X: x[i], Y: y[i] * scale}
	}
	return pts
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

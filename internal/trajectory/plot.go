package trajectory

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 4 * vg.Inch
)

var lineColor = color.RGBA{R: 0, G: 170, B: 120, A: 255}

// WritePlot renders angle versus time as a PNG.
func WritePlot(w io.Writer, title string, samples []Sample) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Angle (°)"
	p.Y.Min = 0
	p.Y.Max = 360
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		pts = append(pts, plotter.XY{X: s.Time, Y: s.Angle})
	}

	if len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("build line: %w", err)
		}
		line.Color = lineColor
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

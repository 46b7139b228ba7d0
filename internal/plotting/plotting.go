// Package plotting renders a run's loggers to PNG line charts. It is a
// purely optional side effect: the numerical core never depends on it.
package plotting

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/onwhenrdy/skindiff/internal/logger"
)

// RenderMass draws a single mass-vs-time line from a Log2D series and
// saves it as a PNG at path.
func RenderMass(log *logger.Log2D, path string) error {
	p := plot.New()
	p.Title.Text = log.Name()
	p.X.Label.Text = log.Column1Name()
	p.Y.Label.Text = log.Column2Name()

	pts := make(plotter.XYs, log.Size())
	for i := 0; i < log.Size(); i++ {
		pts[i].X = log.X(i)
		pts[i].Y = log.Y(i)
	}

	if err := plotutil.AddLines(p, log.Name(), pts); err != nil {
		return fmt.Errorf("plotting: could not add mass series: %w", err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: could not save %s: %w", path, err)
	}
	return nil
}

// RenderProfile draws one concentration-vs-space line per logged time
// point from a Log3D series and saves it as a PNG at path.
func RenderProfile(log *logger.Log3D, path string) error {
	p := plot.New()
	p.Title.Text = log.Name()
	p.X.Label.Text = "space [um]"
	p.Y.Label.Text = "concentration"

	space := log.Space()
	times := log.Times()
	data := log.Data()

	args := make([]any, 0, 2*len(times))
	for i, t := range times {
		pts := make(plotter.XYs, len(space))
		for j := range space {
			pts[j].X = space[j]
			pts[j].Y = data[i][j]
		}
		args = append(args, fmt.Sprintf("t=%d", t), pts)
	}

	if len(args) > 0 {
		if err := plotutil.AddLines(p, args...); err != nil {
			return fmt.Errorf("plotting: could not add profile series: %w", err)
		}
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: could not save %s: %w", path, err)
	}
	return nil
}

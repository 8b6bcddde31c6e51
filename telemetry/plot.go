package telemetry

import (
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const plotFileName = "returns.png"

// PlotReturns renders the episode returns under dir as a curve, raw and
// smoothed with a moving average over window episodes.
func PlotReturns(dir string, window int) error {
	records, err := ReadRecords(dir)
	if err != nil {
		return err
	}
	if window <= 0 {
		window = 100
	}

	p := plot.New()
	p.Title.Text = "Episode returns"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Return"

	raw := make(plotter.XYs, len(records))
	for i, r := range records {
		raw[i] = plotter.XY{X: float64(r.Episode), Y: r.Return}
	}
	rawLine, err := plotter.NewLine(raw)
	if err != nil {
		return err
	}
	rawLine.Color = plotutil.Color(0)
	p.Add(rawLine)
	p.Legend.Add("return", rawLine)

	if len(records) > window {
		smoothed := make(plotter.XYs, 0, len(records)-window)
		var sum float64
		for i, r := range records {
			sum += r.Return
			if i >= window {
				sum -= records[i-window].Return
				smoothed = append(smoothed, plotter.XY{
					X: float64(r.Episode),
					Y: sum / float64(window),
				})
			}
		}
		avgLine, err := plotter.NewLine(smoothed)
		if err != nil {
			return err
		}
		avgLine.Color = plotutil.Color(1)
		p.Add(avgLine)
		p.Legend.Add("moving avg", avgLine)
	}

	return p.Save(8*vg.Inch, 8*vg.Inch, filepath.Join(dir, plotFileName))
}

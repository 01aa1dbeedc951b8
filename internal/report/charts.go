package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WritePNG renders the summary as a bar chart image. The format follows
// the file extension of path (png, svg, pdf...).
func WritePNG(path string, s Summary) error {
	rows := s.Rows()
	values := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		values[i] = float64(r.Count)
		labels[i] = string(r.Kind)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cosmic tags (%d events)", s.Events)
	p.Y.Label.Text = "Tags"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.9

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

// WriteHTML renders the summary as a standalone go-echarts page.
func WriteHTML(w io.Writer, s Summary) error {
	rows := s.Rows()
	x := make([]string, len(rows))
	y := make([]opts.BarData, len(rows))
	for i, r := range rows {
		x[i] = string(r.Kind)
		y[i] = opts.BarData{Value: r.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Cosmic tags", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cosmic tags by kind",
			Subtitle: fmt.Sprintf("events=%d tags=%d cosmic_fraction=%.3f", s.Events, s.Tagged, s.CosmicFraction()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("tags", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

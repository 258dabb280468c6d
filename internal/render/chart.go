package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "100%"
	chartHeight = "500px"
	// xAxisRotate keeps long record labels readable.
	xAxisRotate = 45
)

func writeChart(w io.Writer, title string, c *Chart) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	bar.SetXAxis(c.Labels)

	data := make([]opts.BarData, len(c.Values))
	for i, v := range c.Values {
		data[i] = opts.BarData{Value: v}
	}

	bar.AddSeries(c.SeriesName, data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

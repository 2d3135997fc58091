package chart

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Canvas size in pixels: a 6x4 inch figure at 100 DPI.
const (
	Width  = 600
	Height = 400
)

var (
	colorSkyBlue = drawing.ColorFromHex("87CEEB")
	colorPurple  = drawing.ColorFromHex("800080")
	pieColors    = []drawing.Color{chart.ColorBlue, chart.ColorOrange, chart.ColorGreen}
)

func padding() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

// pointStyle renders points only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// Render draws d as a PNG and returns the encoded bytes.
func Render(d Data) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch d.Kind {
	case Bar:
		err = renderBar(d, &buf)
	case Line:
		err = renderXY(d, chart.Style{StrokeWidth: 2, StrokeColor: chart.ColorRed, DotWidth: 4, DotColor: chart.ColorRed}, &buf)
	case Scatter:
		err = renderXY(d, pointStyle(colorPurple), &buf)
	case Pie:
		err = renderPie(d, &buf)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, d.Kind)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderBar(d Data, buf *bytes.Buffer) error {
	bars := make([]chart.Value, len(d.Labels))
	for i, l := range d.Labels {
		bars[i] = chart.Value{
			Label: l,
			Value: d.Values[i],
			Style: chart.Style{FillColor: colorSkyBlue, StrokeColor: colorSkyBlue},
		}
	}
	bc := chart.BarChart{
		Title:      d.Title,
		Width:      Width,
		Height:     Height,
		Background: padding(),
		BarWidth:   60,
		BarSpacing: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, buf)
}

func renderXY(d Data, style chart.Style, buf *bytes.Buffer) error {
	xRange := &chart.ContinuousRange{Min: 0, Max: 100}
	if d.Kind == Line {
		xRange = &chart.ContinuousRange{Min: 1, Max: float64(len(d.X))}
	}
	ch := chart.Chart{
		Title:      d.Title,
		Width:      Width,
		Height:     Height,
		Background: padding(),
		XAxis:      chart.XAxis{Name: d.XLabel, Range: xRange},
		YAxis:      chart.YAxis{Name: d.YLabel, Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: d.YLabel, XValues: d.X, YValues: d.Values, Style: style},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, buf)
}

func renderPie(d Data, buf *bytes.Buffer) error {
	pct := d.Percentages()
	values := make([]chart.Value, len(d.Labels))
	for i, l := range d.Labels {
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", l, pct[i]),
			Value: d.Values[i],
			Style: chart.Style{FillColor: pieColors[i%len(pieColors)]},
		}
	}
	pc := chart.PieChart{
		Title:      d.Title,
		Width:      Width,
		Height:     Height,
		Background: padding(),
		Values:     values,
	}
	return pc.Render(chart.PNG, buf)
}

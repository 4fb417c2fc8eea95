package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a spec has nothing to draw
var ErrNoData = errors.New("chart has no data")

// Renderer rasterises chart specs to PNG without any UI
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the given canvas size in pixels
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &Renderer{Width: width, Height: height}
}

// Render draws spec as a PNG image. Horizontal bar specs are drawn as
// vertical bars.
func (r *Renderer) Render(spec ChartSpec) ([]byte, error) {
	if len(spec.Labels) == 0 || len(spec.Datasets) == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	var err error
	switch spec.Kind {
	case KindBar:
		err = r.renderBar(spec, &buf)
	case KindLine:
		err = r.renderLine(spec, &buf)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render chart %q: %w", spec.Title, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderBar(spec ChartSpec, buf *bytes.Buffer) error {
	yRange := valueRange(spec)

	var bars []chart.Value
	for _, ds := range spec.Datasets {
		for i, label := range spec.Labels {
			if i >= len(ds.Values) {
				break
			}
			if len(spec.Datasets) > 1 && ds.Label != "" {
				label = fmt.Sprintf("%s (%s)", label, ds.Label)
			}
			fill := colorAt(ds.Colors, i)
			bars = append(bars, chart.Value{
				Label: label,
				Value: clamp(ds.Values[i], yRange.Min, yRange.Max),
				Style: chart.Style{
					FillColor:   fill,
					StrokeColor: fill,
					StrokeWidth: 1,
				},
			})
		}
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	barWidth := (r.Width - 120) / (2 * len(bars))
	if barWidth > 80 {
		barWidth = 80
	}
	if barWidth < 4 {
		barWidth = 4
	}

	graph := chart.BarChart{
		Title:      spec.Title,
		TitleStyle: r.textStyle(spec.Style, 1.3),
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   barWidth,
		Background: chart.Style{
			FillColor: hexColor(spec.Style.Background, drawing.ColorWhite),
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: r.textStyle(spec.Style, 1),
		YAxis: chart.YAxis{
			Style: r.textStyle(spec.Style, 1),
			Range: &chart.ContinuousRange{Min: yRange.Min, Max: yRange.Max},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, buf)
}

func (r *Renderer) renderLine(spec ChartSpec, buf *bytes.Buffer) error {
	n := len(spec.Labels)
	xs := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, label := range spec.Labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	xMin, xMax := 0.0, float64(n-1)
	if n == 1 {
		// go-chart needs two distinct x values; one day spans [-0.5, 0.5]
		xs = []float64{-0.5, 0.5}
		xMin, xMax = -0.5, 0.5
	}

	yRange := valueRange(spec)
	width := spec.Style.LineWidth
	if width <= 0 {
		width = 2
	}

	var series []chart.Series
	for i, ds := range spec.Datasets {
		if len(ds.Values) != n {
			return fmt.Errorf("dataset %q has %d values for %d labels", ds.Label, len(ds.Values), n)
		}
		stroke := colorAt(ds.Colors, 0)
		if len(ds.Colors) == 0 {
			stroke = chart.GetDefaultColor(i)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: pointValues(ds.Values, len(xs)),
			Style: chart.Style{
				StrokeColor: stroke,
				StrokeWidth: width,
				DotColor:    stroke,
				DotWidth:    3,
			},
		})
	}

	graph := chart.Chart{
		Title:      spec.Title,
		TitleStyle: r.textStyle(spec.Style, 1.3),
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{
			FillColor: hexColor(spec.Style.Background, drawing.ColorWhite),
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Style: r.textStyle(spec.Style, 0.8),
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style: r.textStyle(spec.Style, 1),
			Range: &chart.ContinuousRange{Min: yRange.Min, Max: yRange.Max},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, buf)
}

// pointValues copies values, repeating a single value to fill n points
func pointValues(values []float64, n int) []float64 {
	if len(values) == 1 && n > 1 {
		out := make([]float64, n)
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	return append([]float64(nil), values...)
}

func (r *Renderer) textStyle(s Style, scale float64) chart.Style {
	size := s.FontSize
	if size <= 0 {
		size = 12
	}
	return chart.Style{
		FontSize:  size * scale,
		FontColor: hexColor(s.TextColor, drawing.ColorBlack),
	}
}

// valueRange uses the spec's ceiling or fits the data with some headroom.
// The range never collapses to zero width.
func valueRange(spec ChartSpec) Axis {
	ax := spec.YAxis
	if ax.Max > ax.Min {
		return ax
	}
	hi := math.Inf(-1)
	for _, ds := range spec.Datasets {
		for _, v := range ds.Values {
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(hi, -1) || hi <= ax.Min {
		return Axis{Min: ax.Min, Max: ax.Min + 1}
	}
	return Axis{Min: ax.Min, Max: hi * 1.1}
}

func colorAt(colors []string, i int) drawing.Color {
	if len(colors) == 0 {
		return chart.GetDefaultColor(i)
	}
	return hexColor(colors[i%len(colors)], chart.GetDefaultColor(i))
}

func hexColor(hex string, fallback drawing.Color) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return fallback
	}
	return drawing.ColorFromHex(hex)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

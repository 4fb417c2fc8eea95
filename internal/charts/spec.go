package charts

// Kind selects the chart type
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Dataset is one labelled series of values. Colors apply per bar for bar
// charts and the first color strokes a line.
type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors,omitempty"`
}

// Axis bounds the value axis. A zero Max lets the renderer fit the data.
type Axis struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Style carries the presentation defaults of a chart
type Style struct {
	FontSize   float64 `json:"font_size" yaml:"font_size"`
	TextColor  string  `json:"text_color" yaml:"text_color"`
	Background string  `json:"background" yaml:"background"`
	LineWidth  float64 `json:"line_width" yaml:"line_width"`
}

// DefaultStyle is the dashboard look
func DefaultStyle() Style {
	return Style{
		FontSize:   12,
		TextColor:  "#1c1c1c",
		Background: "#ffffff",
		LineWidth:  2,
	}
}

// ChartSpec is a renderer independent description of a chart
type ChartSpec struct {
	Kind       Kind      `json:"kind"`
	Title      string    `json:"title,omitempty"`
	Labels     []string  `json:"labels"`
	Datasets   []Dataset `json:"datasets"`
	YAxis      Axis      `json:"y_axis"`
	Horizontal bool      `json:"horizontal,omitempty"`
	Style      Style     `json:"style"`
}

// LineSeries is the input of ToLineSpec
type LineSeries struct {
	Label  string
	Values []float64
	Color  string
}

// ToBarSpec maps values onto a bar chart with a fixed ceiling. Inputs are
// copied so later changes by the caller do not leak into the spec.
func ToBarSpec(labels []string, values []float64, colors []string, yMax float64) ChartSpec {
	return ChartSpec{
		Kind:   KindBar,
		Labels: copyStrings(labels),
		Datasets: []Dataset{{
			Values: copyFloats(values),
			Colors: copyStrings(colors),
		}},
		YAxis: Axis{Min: 0, Max: yMax},
	}
}

// ToLineSpec maps parallel series over shared labels onto a line chart
func ToLineSpec(labels []string, series []LineSeries) ChartSpec {
	spec := ChartSpec{
		Kind:     KindLine,
		Labels:   copyStrings(labels),
		Datasets: make([]Dataset, 0, len(series)),
	}
	for _, s := range series {
		ds := Dataset{Label: s.Label, Values: copyFloats(s.Values)}
		if s.Color != "" {
			ds.Colors = []string{s.Color}
		}
		spec.Datasets = append(spec.Datasets, ds)
	}
	return spec
}

// WithTitle returns a copy with the title set
func (s ChartSpec) WithTitle(title string) ChartSpec {
	s.Title = title
	return s
}

// WithStyle returns a copy with the style set
func (s ChartSpec) WithStyle(style Style) ChartSpec {
	s.Style = style
	return s
}

// WithDatasetLabel names the first dataset
func (s ChartSpec) WithDatasetLabel(label string) ChartSpec {
	if len(s.Datasets) == 0 {
		return s
	}
	ds := make([]Dataset, len(s.Datasets))
	copy(ds, s.Datasets)
	ds[0].Label = label
	s.Datasets = ds
	return s
}

// Horizontally returns a copy drawn with horizontal bars
func (s ChartSpec) Horizontally() ChartSpec {
	s.Horizontal = true
	return s
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func copyFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	return append([]float64(nil), in...)
}

package charts

import (
	"bytes"
	"testing"

	"fwowebserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestToBarSpec_Deterministic(t *testing.T) {
	labels := []string{"a", "b"}
	values := []float64{1, 2}
	colors := []string{"#eec591", "#9dd4dd"}

	first := ToBarSpec(labels, values, colors, 60)
	second := ToBarSpec(labels, values, colors, 60)
	assert.Equal(t, first, second)

	values[0] = 99
	labels[1] = "changed"
	assert.Equal(t, []float64{1, 2}, first.Datasets[0].Values)
	assert.Equal(t, []string{"a", "b"}, first.Labels)
	assert.Equal(t, Axis{Min: 0, Max: 60}, first.YAxis)
	assert.Equal(t, KindBar, first.Kind)
}

func TestToLineSpec_Deterministic(t *testing.T) {
	series := []LineSeries{
		{Label: "Pieces", Values: []float64{1, 2, 3}, Color: ColorPeach},
		{Label: "Waste", Values: []float64{3, 2, 1}},
	}
	labels := []string{"2024-11-11", "2024-11-12", "2024-11-13"}

	first := ToLineSpec(labels, series)
	assert.Equal(t, first, ToLineSpec(labels, series))
	require.Len(t, first.Datasets, 2)
	assert.Equal(t, []string{ColorPeach}, first.Datasets[0].Colors)
	assert.Nil(t, first.Datasets[1].Colors)

	series[0].Values[0] = 42
	assert.Equal(t, 1.0, first.Datasets[0].Values[0])
}

func TestWithDatasetLabel_DoesNotMutate(t *testing.T) {
	base := ToBarSpec([]string{"x"}, []float64{1}, nil, 10)
	labelled := base.WithDatasetLabel("Meals")
	assert.Equal(t, "", base.Datasets[0].Label)
	assert.Equal(t, "Meals", labelled.Datasets[0].Label)
}

func TestDailyPredictionCharts(t *testing.T) {
	b := NewBuilder(DefaultStyle(), DefaultLimits())
	specs := b.DailyPredictionCharts(&models.DayForecast{
		WasteFromCustomer: 10,
		WasteFromKitchen:  2,
		WastePerCustomer:  80,
		Receipts:          45,
		CO2:               3.2,
	})
	require.Len(t, specs, 4)

	waste := specs[0]
	assert.Equal(t, "Waste per type (in kilograms)", waste.Title)
	assert.Equal(t, []float64{10, 2}, waste.Datasets[0].Values)
	assert.Equal(t, 60.0, waste.YAxis.Max)
	assert.Equal(t, DefaultStyle(), waste.Style)

	assert.Equal(t, []float64{80}, specs[1].Datasets[0].Values)
	assert.Equal(t, 300.0, specs[1].YAxis.Max)
	assert.Equal(t, 800.0, specs[2].YAxis.Max)

	co2 := specs[3]
	assert.Equal(t, "Carbon emissions (in kg CO2e)", co2.Title)
	assert.Equal(t, []float64{3.2}, co2.Datasets[0].Values)
	assert.Equal(t, 1000.0, co2.YAxis.Max)
}

func TestBuilder_UsesConfiguredLimitsAndStyle(t *testing.T) {
	limits := DefaultLimits()
	limits.CO2 = 500
	style := Style{FontSize: 9, TextColor: "#000000"}
	b := NewBuilder(style, limits)

	specs := b.DailyPredictionCharts(&models.DayForecast{})
	assert.Equal(t, 500.0, specs[3].YAxis.Max)
	assert.Equal(t, style, specs[3].Style)
}

func TestMenuCharts(t *testing.T) {
	b := NewBuilder(DefaultStyle(), DefaultLimits())
	specs := b.MenuCharts(400, 0.62, 0.04)
	require.Len(t, specs, 3)
	for _, s := range specs {
		assert.True(t, s.Horizontal)
	}
	assert.Equal(t, 1000.0, specs[0].YAxis.Max)
	assert.Equal(t, 1.0, specs[1].YAxis.Max)
	assert.InDelta(t, 40.0, specs[2].Datasets[0].Values[0], 1e-9)
	assert.Equal(t, "Predicted biowaste per customer (g)", specs[2].Title)
}

func TestInputMealsAndOccupancyCharts(t *testing.T) {
	b := NewBuilder(DefaultStyle(), DefaultLimits())

	in := b.InputMealsChart(models.MealPlanInput{Chicken: 320, Vegan: 10})
	assert.Equal(t, MealLabels, in.Labels)
	assert.Equal(t, []float64{300, 0, 0, 10, 0}, in.Datasets[0].Values)
	assert.Equal(t, 350.0, in.YAxis.Max)

	occ := b.OccupancyChart(models.LocationExactum, "Friday", []string{"9-10"}, []float64{120})
	assert.Equal(t, "Estimated Occupancy, Exactum, Friday", occ.Title)
	assert.Equal(t, 250.0, occ.YAxis.Max)
}

func TestRender(t *testing.T) {
	r := NewRenderer(640, 320)
	b := NewBuilder(DefaultStyle(), DefaultLimits())

	for _, spec := range b.DailyPredictionCharts(&models.DayForecast{WasteFromCustomer: 75, WasteFromKitchen: 2}) {
		img, err := r.Render(spec)
		require.NoError(t, err, spec.Title)
		assert.True(t, bytes.HasPrefix(img, pngMagic))
	}

	// a plan with a single served day still draws every weekly chart
	pieces, waste, co2 := b.WeeklyCharts(models.Series{
		Labels: []string{"2024-11-11"},
		Pieces: []float64{450},
		Waste:  []float64{10},
		CO2:    []float64{50},
	})
	for _, spec := range []ChartSpec{pieces, waste, co2} {
		img, err := r.Render(spec)
		require.NoError(t, err, spec.Title)
		assert.True(t, bytes.HasPrefix(img, pngMagic))
	}

	_, err := r.Render(ChartSpec{Kind: KindLine})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = r.Render(ChartSpec{Kind: "pie", Labels: []string{"a"}, Datasets: []Dataset{{Values: []float64{1}}}})
	assert.Error(t, err)
}

func TestValueRange(t *testing.T) {
	assert.Equal(t, Axis{Min: 0, Max: 60}, valueRange(ToBarSpec([]string{"a"}, []float64{100}, nil, 60)))
	assert.Equal(t, Axis{Min: 0, Max: 1}, valueRange(ToLineSpec([]string{"a"}, []LineSeries{{Values: []float64{0}}})))
	assert.InDelta(t, 110.0, valueRange(ToLineSpec([]string{"a"}, []LineSeries{{Values: []float64{100}}})).Max, 1e-9)
}

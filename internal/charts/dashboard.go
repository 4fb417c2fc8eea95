package charts

import (
	"fmt"

	"fwowebserver/internal/models"
)

// Limits are the fixed value-axis ceilings per metric. They keep bars
// comparable between requests and are not derived from the data.
type Limits struct {
	WasteByType          float64 `yaml:"waste_by_type"`
	WastePerCustomer     float64 `yaml:"waste_per_customer"`
	Receipts             float64 `yaml:"receipts"`
	CO2                  float64 `yaml:"co2"`
	InputMeals           float64 `yaml:"input_meals"`
	MenuPieces           float64 `yaml:"menu_pieces"`
	MenuCO2PerCustomer   float64 `yaml:"menu_co2_per_customer"`
	MenuWastePerCustomer float64 `yaml:"menu_waste_per_customer"`
	Occupancy            float64 `yaml:"occupancy"`
}

// DefaultLimits are the ceilings the dashboard has always used
func DefaultLimits() Limits {
	return Limits{
		WasteByType:          60,
		WastePerCustomer:     300,
		Receipts:             800,
		CO2:                  1000,
		InputMeals:           350,
		MenuPieces:           1000,
		MenuCO2PerCustomer:   1,
		MenuWastePerCustomer: 100,
		Occupancy:            250,
	}
}

// Dashboard colours
const (
	ColorSand     = "#eec591"
	ColorSky      = "#9dd4dd"
	ColorLavender = "#c9a8eb"
	ColorForest   = "#155C2C"
	ColorSlate    = "#485460"
	ColorPeach    = "#eeb291"
	ColorViolet   = "#b39ddb"
)

// MealLabels are the input categories in chart order
var MealLabels = []string{"chicken", "fish", "meat", "vegan", "vegetarian"}

// Builder produces the dashboard's chart specs with an explicit style and
// explicit ceilings.
type Builder struct {
	Style  Style
	Limits Limits
}

// NewBuilder creates a builder
func NewBuilder(style Style, limits Limits) *Builder {
	return &Builder{Style: style, Limits: limits}
}

func (b *Builder) bar(title, dataset string, labels []string, values []float64, colors []string, yMax float64) ChartSpec {
	return ToBarSpec(labels, values, colors, yMax).
		WithTitle(title).
		WithDatasetLabel(dataset).
		WithStyle(b.Style)
}

// InputMealsChart shows the planned counts per category
func (b *Builder) InputMealsChart(in models.MealPlanInput) ChartSpec {
	in = in.Normalize()
	return b.bar("Input Meals", "Meals", MealLabels, in.Counts(),
		[]string{ColorSand, ColorSky, ColorLavender, ColorForest, ColorSlate}, b.Limits.InputMeals)
}

// DailyPredictionCharts returns waste by type, waste per customer, receipts
// and CO2, in that order.
func (b *Builder) DailyPredictionCharts(f *models.DayForecast) []ChartSpec {
	return []ChartSpec{
		b.bar("Waste per type (in kilograms)", "Waste (kg)",
			[]string{"Customer waste (kg)", "Kitchen waste (kg)"},
			[]float64{f.WasteFromCustomer, f.WasteFromKitchen},
			[]string{ColorSand, ColorSky}, b.Limits.WasteByType),
		b.bar("Waste per customer (in grams)", "Waste per customer (g)",
			[]string{"Waste per customer (g)"},
			[]float64{f.WastePerCustomer},
			[]string{ColorLavender}, b.Limits.WastePerCustomer),
		b.bar("Number of receipts", "Number of receipts",
			[]string{"Number of receipts"},
			[]float64{f.Receipts},
			[]string{ColorForest}, b.Limits.Receipts),
		b.bar("Carbon emissions (in kg CO2e)", "Carbon emissions (kg CO2e)",
			[]string{"Carbon emissions (kg CO2e)"},
			[]float64{f.CO2},
			[]string{ColorSlate}, b.Limits.CO2),
	}
}

// MenuCharts compares one menu: total pieces, CO2 per customer in kg and
// waste per customer, given in kg and shown in grams.
func (b *Builder) MenuCharts(totalPieces, co2PerCustomer, wastePerCustomer float64) []ChartSpec {
	return []ChartSpec{
		b.bar("Predicted total sold pieces", "Pieces",
			[]string{"Total pieces"}, []float64{totalPieces},
			[]string{ColorPeach}, b.Limits.MenuPieces).Horizontally(),
		b.bar("Predicted CO2 per customer (kg CO2e)", "kg CO2e",
			[]string{"CO2 per customer"}, []float64{co2PerCustomer},
			[]string{ColorSky}, b.Limits.MenuCO2PerCustomer).Horizontally(),
		b.bar("Predicted biowaste per customer (g)", "g",
			[]string{"Biowaste per customer"}, []float64{wastePerCustomer * 1000},
			[]string{ColorViolet}, b.Limits.MenuWastePerCustomer).Horizontally(),
	}
}

// WeeklyCharts draws the plan's pieces, waste and CO2 series as line charts
func (b *Builder) WeeklyCharts(s models.Series) (pieces, waste, co2 ChartSpec) {
	line := func(title, label, color string, values []float64) ChartSpec {
		return ToLineSpec(s.Labels, []LineSeries{{Label: label, Values: values, Color: color}}).
			WithTitle(title).
			WithStyle(b.Style)
	}
	pieces = line("Predicted sold pieces per day", "Pieces", ColorPeach, s.Pieces)
	waste = line("Predicted waste per day (kg)", "Waste (kg)", ColorViolet, s.Waste)
	co2 = line("Predicted CO2 per day (kg CO2e)", "CO2 (kg CO2e)", ColorSky, s.CO2)
	return pieces, waste, co2
}

// OccupancyChart shows the hourly estimate of one restaurant and weekday
func (b *Builder) OccupancyChart(loc models.Location, day string, labels []string, values []float64) ChartSpec {
	return b.bar(fmt.Sprintf("Estimated Occupancy, %s, %s", loc, day), "Estimated Occupancy",
		labels, values, []string{ColorForest}, b.Limits.Occupancy)
}

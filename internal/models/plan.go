package models

import "time"

// PlannedDish is a resolved dish on a weekly plan. Unknown ids resolve to
// UnknownDishName with an empty category.
type PlannedDish struct {
	MealID   MealID   `json:"meal_id,omitempty"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// PlanDay is one served weekday of a weekly plan
type PlanDay struct {
	Date        time.Time              `json:"date"`
	Menu        [MenuSlots]PlannedDish `json:"menu"`
	TotalPieces float64                `json:"total_pieces"`
	TotalWaste  float64                `json:"total_waste"`
	TotalCO2    float64                `json:"total_co2"`
}

// PlanWeek groups the served days of one calendar week
type PlanWeek struct {
	StartDate time.Time `json:"start_date"`
	Days      []PlanDay `json:"days"`
}

// WeeklyPlan is the result of a multi-week recommendation run
type WeeklyPlan struct {
	Location  Location   `json:"location"`
	StartDate time.Time  `json:"start_date"`
	Weeks     []PlanWeek `json:"weeks"`
}

// Days flattens the plan into one ascending sequence of days
func (p *WeeklyPlan) Days() []PlanDay {
	var days []PlanDay
	for _, w := range p.Weeks {
		days = append(days, w.Days...)
	}
	return days
}

// Series holds the per-day totals of a plan as parallel chart series
type Series struct {
	Labels []string  `json:"labels"`
	Pieces []float64 `json:"pieces"`
	Waste  []float64 `json:"waste"`
	CO2    []float64 `json:"co2"`
}

// Len is the number of labelled days
func (s Series) Len() int {
	return len(s.Labels)
}

// PlanSeries builds the chart series over the flattened day sequence
func PlanSeries(p *WeeklyPlan) Series {
	days := p.Days()
	s := Series{
		Labels: make([]string, 0, len(days)),
		Pieces: make([]float64, 0, len(days)),
		Waste:  make([]float64, 0, len(days)),
		CO2:    make([]float64, 0, len(days)),
	}
	for _, d := range days {
		s.Labels = append(s.Labels, FormatDate(d.Date))
		s.Pieces = append(s.Pieces, d.TotalPieces)
		s.Waste = append(s.Waste, d.TotalWaste)
		s.CO2 = append(s.CO2, d.TotalCO2)
	}
	return s
}

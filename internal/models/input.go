package models

import "time"

const (
	// MinMealCount and MaxMealCount bound each slider
	MinMealCount = 0
	MaxMealCount = 300
)

// MealPlanInput holds the planned meal counts for one restaurant and day
type MealPlanInput struct {
	Chicken    int       `json:"chicken"`
	Fish       int       `json:"fish"`
	Meat       int       `json:"meat"`
	Vegan      int       `json:"vegan"`
	Vegetarian int       `json:"vegetarian"`
	Location   Location  `json:"location"`
	Date       time.Time `json:"date,omitempty"`
}

// ClampCount forces a meal count into the slider range
func ClampCount(n int) int {
	if n < MinMealCount {
		return MinMealCount
	}
	if n > MaxMealCount {
		return MaxMealCount
	}
	return n
}

// Normalize returns a copy with every count clamped
func (in MealPlanInput) Normalize() MealPlanInput {
	in.Chicken = ClampCount(in.Chicken)
	in.Fish = ClampCount(in.Fish)
	in.Meat = ClampCount(in.Meat)
	in.Vegan = ClampCount(in.Vegan)
	in.Vegetarian = ClampCount(in.Vegetarian)
	return in
}

// HasDate reports whether a service date was selected
func (in MealPlanInput) HasDate() bool {
	return !in.Date.IsZero()
}

// Counts returns the counts in chart order: chicken, fish, meat, vegan,
// vegetarian.
func (in MealPlanInput) Counts() []float64 {
	return []float64{
		float64(in.Chicken),
		float64(in.Fish),
		float64(in.Meat),
		float64(in.Vegan),
		float64(in.Vegetarian),
	}
}

// Validate checks the restaurant. Counts are clamped, not rejected.
func (in MealPlanInput) Validate() error {
	if !in.Location.IsValid() {
		return NewValidationError("location", "unsupported restaurant "+string(in.Location))
	}
	return nil
}

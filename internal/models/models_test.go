package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampCount(t *testing.T) {
	cases := map[int]int{-1: 0, 0: 0, 150: 150, 300: 300, 301: 300, 5000: 300}
	for in, want := range cases {
		assert.Equal(t, want, ClampCount(in), "ClampCount(%d)", in)
	}
}

func TestMealPlanInput_Normalize(t *testing.T) {
	in := MealPlanInput{Chicken: 400, Fish: -3, Meat: 300, Vegan: 0, Vegetarian: 12, Location: LocationChemicum}
	out := in.Normalize()

	assert.Equal(t, []float64{300, 0, 300, 0, 12}, out.Counts())
	assert.Equal(t, 400, in.Chicken, "original must be untouched")
	assert.NoError(t, out.Validate())
	assert.Error(t, MealPlanInput{Location: "Kumpula"}.Validate())
}

func TestLocationSet(t *testing.T) {
	all, err := NewLocationSet(nil)
	require.NoError(t, err)
	assert.Equal(t, AllLocations, all.List())
	assert.Equal(t, LocationChemicum, all.Default())

	subset, err := NewLocationSet([]string{"Exactum", " Physicum", "Exactum"})
	require.NoError(t, err)
	assert.Equal(t, []Location{LocationExactum, LocationPhysicum}, subset.List())

	_, err = subset.Parse("Chemicum")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	loc, err := subset.Parse("Physicum")
	require.NoError(t, err)
	assert.Equal(t, LocationPhysicum, loc)

	_, err = subset.Parse("physicum")
	assert.Error(t, err)

	_, err = NewLocationSet([]string{"Kumpula"})
	assert.Error(t, err)
}

func TestDatePolicy_ValidatePlanStart(t *testing.T) {
	now := time.Date(2024, 11, 6, 15, 0, 0, 0, time.UTC) // Wednesday
	policy := DatePolicy{}

	assert.NoError(t, policy.ValidatePlanStart(time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC), now))

	for _, bad := range []time.Time{
		time.Date(2024, 11, 12, 0, 0, 0, 0, time.UTC), // Tuesday
		time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC),  // past Monday
		time.Date(2024, 11, 6, 0, 0, 0, 0, time.UTC),  // today
	} {
		err := policy.ValidatePlanStart(bad, now)
		require.Error(t, err, bad)
		assert.Contains(t, err.Error(), "Please select a future Monday")
	}

	monday := time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, policy.ValidatePlanStart(monday, monday.AddDate(0, 0, -1)))

	bounded := DatePolicy{Horizon: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)}
	assert.Error(t, bounded.ValidatePlanStart(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), now))
}

func TestDatePolicy_ValidateServiceDay(t *testing.T) {
	now := time.Date(2024, 11, 6, 15, 0, 0, 0, time.UTC)
	policy := DatePolicy{}

	assert.NoError(t, policy.ValidateServiceDay(time.Date(2024, 11, 6, 0, 0, 0, 0, time.UTC), now))
	assert.NoError(t, policy.ValidateServiceDay(time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC), now))
	assert.Error(t, policy.ValidateServiceDay(time.Date(2024, 11, 9, 0, 0, 0, 0, time.UTC), now))
	assert.Error(t, policy.ValidateServiceDay(time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), now))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2024-11-11")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("date", "")
	assert.Error(t, err)
	_, err = ParseDate("date", "11/11/2024")
	assert.Error(t, err)
}

func TestMealID_UnmarshalJSON(t *testing.T) {
	var ids []MealID
	require.NoError(t, json.Unmarshal([]byte(`[12, "a7", null, 3.0, 4.5]`), &ids))
	assert.Equal(t, []MealID{"12", "a7", "", "3", "4.5"}, ids)
}

func TestSlotConstraints(t *testing.T) {
	vegan := &Dish{Category: CategoryVegan}
	fish := &Dish{Category: CategoryFish}
	veg := &Dish{Category: CategoryVegetarian}

	assert.NoError(t, ValidateSlot(0, vegan))
	assert.NoError(t, ValidateSlot(1, vegan))
	assert.Error(t, ValidateSlot(1, fish))
	assert.NoError(t, ValidateSlot(2, fish))
	assert.NoError(t, ValidateSlot(3, veg))
	assert.Error(t, ValidateSlot(3, vegan))
	assert.Error(t, ValidateSlot(4, fish))
	assert.Error(t, ValidateSlot(-1, nil))
	assert.NoError(t, ValidateSlot(2, nil))
}

func TestPlanSeries(t *testing.T) {
	plan := &WeeklyPlan{Weeks: []PlanWeek{
		{Days: []PlanDay{
			{Date: time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC), TotalPieces: 10, TotalWaste: 1, TotalCO2: 5},
			{Date: time.Date(2024, 11, 12, 0, 0, 0, 0, time.UTC), TotalPieces: 20, TotalWaste: 2, TotalCO2: 6},
		}},
		{},
		{Days: []PlanDay{
			{Date: time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC), TotalPieces: 30, TotalWaste: 3, TotalCO2: 7},
		}},
	}}

	s := PlanSeries(plan)
	assert.Equal(t, []string{"2024-11-11", "2024-11-12", "2024-11-25"}, s.Labels)
	assert.Equal(t, []float64{10, 20, 30}, s.Pieces)
	assert.Equal(t, []float64{1, 2, 3}, s.Waste)
	assert.Equal(t, []float64{5, 6, 7}, s.CO2)
	assert.Equal(t, len(plan.Days()), s.Len())
}

func TestNewDayForecast(t *testing.T) {
	var waste BiowastePrediction
	require.NoError(t, json.Unmarshal([]byte(`{"predicted_waste_customer":10,"predicted_waste_kitchen":2,"predicted_waste_per_customer":80,"predicted_num_receipts":45.6}`), &waste))

	f := NewDayForecast(waste, CO2Prediction{CO2: 3.2})
	assert.Equal(t, DayForecast{
		WasteFromCustomer: 10,
		WasteFromKitchen:  2,
		WastePerCustomer:  80,
		Receipts:          45.6,
		CO2:               3.2,
	}, *f)
}

package planning

import (
	"context"
	"fmt"

	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"
)

// HourLabels names the opening hours shown on the occupancy chart
var HourLabels = []string{"9-10", "10-11", "11-12", "12-13", "13-14", "14-15", "15-16"}

// DayOccupancy is the hourly estimate for one restaurant and weekday
type DayOccupancy struct {
	Location models.Location `json:"location"`
	Day      string          `json:"day"`
	Labels   []string        `json:"labels"`
	Values   []float64       `json:"values"`
}

// OccupancyFor fetches the feed and picks one restaurant and weekday
func OccupancyFor(ctx context.Context, svc forecast.Service, loc models.Location, day string) (*DayOccupancy, error) {
	dayIndex := -1
	for i, name := range models.OccupancyDays {
		if name == day {
			dayIndex = i
			break
		}
	}
	if dayIndex < 0 {
		return nil, models.NewValidationError("day", "day must be one of Monday to Saturday")
	}

	occ, err := svc.Occupancy(ctx)
	if err != nil {
		return nil, err
	}

	days := occ[loc]
	if len(days) > len(models.OccupancyDays) {
		days = days[:len(models.OccupancyDays)]
	}
	if dayIndex >= len(days) {
		return nil, fmt.Errorf("occupancy feed has no %s data for %s", day, loc)
	}

	return &DayOccupancy{
		Location: loc,
		Day:      day,
		Labels:   append([]string(nil), HourLabels...),
		Values:   openingHours(days[dayIndex].Hourly),
	}, nil
}

// openingHours keeps hours 9 through 15; missing hours read as zero
func openingHours(hourly []float64) []float64 {
	out := make([]float64, models.OccupancyLastHour-models.OccupancyFirstHour)
	for i := range out {
		h := models.OccupancyFirstHour + i
		if h < len(hourly) {
			out[i] = hourly[h]
		}
	}
	return out
}

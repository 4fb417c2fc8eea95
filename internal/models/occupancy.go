package models

// OccupancyDays are the weekdays the occupancy feed covers, in feed order
var OccupancyDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

const (
	// OccupancyFirstHour and OccupancyLastHour bound the opening hours shown
	OccupancyFirstHour = 9
	OccupancyLastHour  = 16
)

// OccupancyDay is the hourly visitor estimate of one restaurant and weekday
type OccupancyDay struct {
	Key    string    `json:"key"`
	Hourly []float64 `json:"hourly"`
}

// Occupancy maps a restaurant to its weekly estimates in feed order
type Occupancy map[Location][]OccupancyDay

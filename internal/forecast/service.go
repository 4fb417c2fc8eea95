package forecast

import (
	"context"
	"fmt"
	"time"

	"fwowebserver/internal/models"
)

// Endpoint names used in errors and metrics
const (
	EndpointBiowaste       = "biowaste_from_meals"
	EndpointCO2            = "co2_from_meals"
	EndpointRecommendation = "recommendation"
	EndpointOccupancy      = "occupancy"
)

// Service is the remote forecasting and recommendation API
type Service interface {
	BiowasteFromMeals(ctx context.Context, in models.MealPlanInput) (*models.BiowastePrediction, error)
	CO2FromMeals(ctx context.Context, in models.MealPlanInput) (*models.CO2Prediction, error)
	Recommendation(ctx context.Context, loc models.Location, date time.Time) (*models.Recommendation, error)
	Occupancy(ctx context.Context) (models.Occupancy, error)
}

// FetchError reports a failed call to the forecasting service: a transport
// error, a non-2xx status or an undecodable body.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RequestObserver is notified after every upstream request. Status is 0 when
// no response was received.
type RequestObserver interface {
	ObserveRequest(endpoint string, status int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, int, time.Duration) {}

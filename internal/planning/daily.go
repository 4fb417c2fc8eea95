package planning

import (
	"context"

	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"

	"golang.org/x/sync/errgroup"
)

// FetchDailyPrediction asks for the biowaste and CO2 predictions of one
// input concurrently and merges them. If either request fails the other is
// cancelled and no forecast is returned.
func FetchDailyPrediction(ctx context.Context, svc forecast.Service, in models.MealPlanInput) (*models.DayForecast, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalize()

	var (
		waste *models.BiowastePrediction
		co2   *models.CO2Prediction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		waste, err = svc.BiowasteFromMeals(gctx, in)
		return err
	})
	g.Go(func() error {
		var err error
		co2, err = svc.CO2FromMeals(gctx, in)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return models.NewDayForecast(*waste, *co2), nil
}

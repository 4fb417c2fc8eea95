package api

import (
	"errors"
	"net/http"
	"strconv"

	"fwowebserver/internal/charts"
	"fwowebserver/internal/models"
	"fwowebserver/internal/planning"

	"github.com/gin-gonic/gin"
)

// GetDailyPrediction predicts biowaste and CO2 for the posted meal counts
func (a *DashboardAPI) GetDailyPrediction(c *gin.Context) {
	in, err := a.mealInputFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	forecast, err := planning.FetchDailyPrediction(c.Request.Context(), a.opts.Service, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"input":    in.Normalize(),
		"forecast": forecast,
		"charts": gin.H{
			"input":      a.opts.Charts.InputMealsChart(in),
			"prediction": a.opts.Charts.DailyPredictionCharts(forecast),
		},
	})
}

func (a *DashboardAPI) mealInputFromQuery(c *gin.Context) (models.MealPlanInput, error) {
	var in models.MealPlanInput

	loc, err := a.opts.Locations.Parse(c.DefaultQuery("location", string(a.opts.Locations.Default())))
	if err != nil {
		return in, err
	}
	in.Location = loc

	counts := []struct {
		name string
		dst  *int
	}{
		{"chicken", &in.Chicken},
		{"fish", &in.Fish},
		{"meat", &in.Meat},
		{"vegan", &in.Vegan},
		{"vegetarian", &in.Vegetarian},
	}
	for _, cnt := range counts {
		raw := c.Query(cnt.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, models.NewValidationError(cnt.name, "must be a whole number")
		}
		*cnt.dst = n
	}

	if raw := c.Query("date"); raw != "" {
		date, err := models.ParseDate("date", raw)
		if err != nil {
			return in, err
		}
		if err := a.opts.Policy.ValidateServiceDay(date, a.now()); err != nil {
			return in, err
		}
		in.Date = date
	}
	return in, nil
}

// GetOccupancy returns the hourly occupancy chart of one restaurant and
// weekday
func (a *DashboardAPI) GetOccupancy(c *gin.Context) {
	loc, err := a.opts.Locations.Parse(c.DefaultQuery("location", string(a.opts.Locations.Default())))
	if err != nil {
		respondError(c, err)
		return
	}

	occ, err := planning.OccupancyFor(c.Request.Context(), a.opts.Service, loc, c.DefaultQuery("day", models.OccupancyDays[0]))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"occupancy": occ,
		"chart":     a.opts.Charts.OccupancyChart(occ.Location, occ.Day, occ.Labels, occ.Values),
	})
}

// RenderChart rasterises a posted chart spec to PNG
func (a *DashboardAPI) RenderChart(c *gin.Context) {
	var spec charts.ChartSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if spec.Kind != charts.KindBar && spec.Kind != charts.KindLine {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be bar or line"})
		return
	}

	png, err := a.opts.Renderer.Render(spec)
	if err != nil {
		if errors.Is(err, charts.ErrNoData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

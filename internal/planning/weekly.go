package planning

import (
	"context"
	"fmt"
	"time"

	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	MinPlanWeeks = 1
	MaxPlanWeeks = 5
)

// WeekProgress is reported after each completed week
type WeekProgress struct {
	Index int             `json:"index"`
	Total int             `json:"total"`
	Week  models.PlanWeek `json:"week"`
}

// WeeklyRequest describes a multi-week plan run
type WeeklyRequest struct {
	StartDate time.Time
	Location  models.Location
	Weeks     int

	// Now is the reference time for the future-Monday check
	Now      time.Time
	Policy   models.DatePolicy
	Progress func(WeekProgress)
}

// Validate checks the preconditions of a plan run
func (r WeeklyRequest) Validate() error {
	if !r.Location.IsValid() {
		return models.NewValidationError("location", "unsupported restaurant "+string(r.Location))
	}
	if r.Weeks < MinPlanWeeks || r.Weeks > MaxPlanWeeks {
		return models.NewValidationError("weeks", fmt.Sprintf("weeks must be between %d and %d", MinPlanWeeks, MaxPlanWeeks))
	}
	now := r.Now
	if now.IsZero() {
		now = time.Now()
	}
	return r.Policy.ValidatePlanStart(r.StartDate, now)
}

// WeeklyResult is a plan together with its chart series
type WeeklyResult struct {
	Plan   *models.WeeklyPlan `json:"plan"`
	Series models.Series      `json:"series"`
}

// BuildWeeklyPlan fetches the top recommendation of every weekday of the
// requested weeks. Weeks run one after another, the weekdays of a week run
// concurrently, and any failure aborts the whole plan. Days without menus
// are left out; every requested week is kept even if it ends up empty.
func BuildWeeklyPlan(ctx context.Context, svc forecast.Service, req WeeklyRequest) (*WeeklyResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := models.DateOf(req.StartDate)
	plan := &models.WeeklyPlan{
		Location:  req.Location,
		StartDate: start,
		Weeks:     make([]models.PlanWeek, 0, req.Weeks),
	}

	for i := 0; i < req.Weeks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		weekStart := start.AddDate(0, 0, 7*i)
		days, err := planWeek(ctx, svc, req.Location, weekStart)
		if err != nil {
			return nil, fmt.Errorf("week starting %s: %w", models.FormatDate(weekStart), err)
		}

		week := models.PlanWeek{StartDate: weekStart, Days: days}
		plan.Weeks = append(plan.Weeks, week)

		if req.Progress != nil {
			req.Progress(WeekProgress{Index: i, Total: req.Weeks, Week: week})
		}
	}

	return &WeeklyResult{Plan: plan, Series: models.PlanSeries(plan)}, nil
}

// planWeek fetches the weekdays of one calendar week in parallel
func planWeek(ctx context.Context, svc forecast.Service, loc models.Location, weekStart time.Time) ([]models.PlanDay, error) {
	var dates []time.Time
	for j := 0; j < 7; j++ {
		d := weekStart.AddDate(0, 0, j)
		if !models.IsWeekend(d) {
			dates = append(dates, d)
		}
	}

	results := make([]*models.PlanDay, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	for idx, date := range dates {
		idx, date := idx, date
		g.Go(func() error {
			rec, err := svc.Recommendation(gctx, loc, date)
			if err != nil {
				return err
			}
			results[idx] = planDay(date, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	days := make([]models.PlanDay, 0, len(results))
	for _, d := range results {
		if d != nil {
			days = append(days, *d)
		}
	}
	return days, nil
}

// planDay takes the top ranked menu of a recommendation. It returns nil when
// the day has no menus.
func planDay(date time.Time, rec *models.Recommendation) *models.PlanDay {
	if len(rec.Menus) == 0 {
		return nil
	}
	top := rec.Menus[0]
	day := &models.PlanDay{
		Date:        date,
		TotalPieces: top.TotalPieces,
		TotalWaste:  top.TotalWaste,
		TotalCO2:    top.TotalCO2,
	}
	for slot, id := range top.DishIDs() {
		day.Menu[slot] = resolveDish(rec.Dishes, id)
	}
	return day
}

func resolveDish(dishes []models.Dish, id models.MealID) models.PlannedDish {
	if d := models.FindDish(dishes, id); d != nil {
		return models.PlannedDish{MealID: d.MealID, Name: d.Name, Category: d.Category}
	}
	return models.PlannedDish{MealID: id, Name: models.UnknownDishName}
}

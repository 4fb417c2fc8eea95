package api

import (
	"fmt"
	"net/http"
	"time"

	"fwowebserver/internal/charts"
	"fwowebserver/internal/models"
	"fwowebserver/internal/planning"

	"github.com/gin-gonic/gin"
)

// menuView is a ranked menu with its comparison metrics and charts
type menuView struct {
	models.Menu
	Metrics planning.MenuMetrics `json:"metrics"`
	Charts  []charts.ChartSpec   `json:"charts"`
}

func (a *DashboardAPI) viewMenu(m models.Menu) menuView {
	metrics := planning.ComputeMenuMetrics(m)
	return menuView{
		Menu:    m,
		Metrics: metrics,
		Charts:  a.opts.Charts.MenuCharts(metrics.TotalPieces, metrics.CO2PerCustomer, metrics.WastePerCustomer),
	}
}

// GetDailyRecommendation returns the top ranked menus of one restaurant and
// service day
func (a *DashboardAPI) GetDailyRecommendation(c *gin.Context) {
	loc, date, err := a.serviceDay(c.Query("location"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	rec, err := planning.RecommendDaily(c.Request.Context(), a.opts.Service, loc, date)
	if err != nil {
		respondError(c, err)
		return
	}

	menus := make([]menuView, 0, len(rec.Menus))
	for _, m := range rec.Menus {
		menus = append(menus, a.viewMenu(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"location": rec.Location,
		"date":     models.FormatDate(rec.Date),
		"menus":    menus,
		"options":  rec.Options,
	})
}

type slotOverride struct {
	Slot   int           `json:"slot"`
	MealID models.MealID `json:"meal_id"`
}

type evaluateRequest struct {
	Location  string         `json:"location"`
	Date      string         `json:"date"`
	Rank      int            `json:"rank"`
	Overrides []slotOverride `json:"overrides"`
}

// EvaluateMenu applies user picks to a ranked menu and recomputes its
// metrics from the dishes of the same day
func (a *DashboardAPI) EvaluateMenu(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, date, err := a.serviceDay(req.Location, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	rec, err := planning.RecommendDaily(c.Request.Context(), a.opts.Service, loc, date)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(rec.Menus) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no menus recommended for this day"})
		return
	}
	rank := req.Rank
	if rank == 0 {
		rank = 1
	}
	if rank < 1 || rank > len(rec.Menus) {
		respondError(c, models.NewValidationError("rank", fmt.Sprintf("rank must be between 1 and %d", len(rec.Menus))))
		return
	}

	menu := rec.Menus[rank-1]
	for _, o := range req.Overrides {
		menu, err = planning.OverrideSlot(menu, o.Slot-1, o.MealID, rec.Dishes)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, a.viewMenu(menu))
}

// serviceDay parses and checks the restaurant and date of a daily request
func (a *DashboardAPI) serviceDay(location, rawDate string) (models.Location, time.Time, error) {
	loc, err := a.opts.Locations.Parse(location)
	if err != nil {
		return "", time.Time{}, err
	}
	date, err := models.ParseDate("date", rawDate)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := a.opts.Policy.ValidateServiceDay(date, a.now()); err != nil {
		return "", time.Time{}, err
	}
	return loc, date, nil
}

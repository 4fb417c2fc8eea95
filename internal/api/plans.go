package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"fwowebserver/internal/charts"
	"fwowebserver/internal/database"
	"fwowebserver/internal/export"
	"fwowebserver/internal/models"
	"fwowebserver/internal/planning"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type weeklyPlanRequest struct {
	StartDate string `json:"start_date"`
	Location  string `json:"location"`
	Weeks     int    `json:"weeks"`
}

// buildPlan validates req, runs the weekly orchestrator and records the
// outcome
func (a *DashboardAPI) buildPlan(ctx context.Context, req weeklyPlanRequest) (*planning.WeeklyResult, error) {
	loc, err := a.opts.Locations.Parse(req.Location)
	if err != nil {
		return nil, err
	}
	start, err := models.ParseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	result, err := planning.BuildWeeklyPlan(ctx, a.opts.Service, planning.WeeklyRequest{
		StartDate: start,
		Location:  loc,
		Weeks:     req.Weeks,
		Now:       a.now(),
		Policy:    a.opts.Policy,
	})
	if err != nil {
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			a.opts.Metrics.RecordWeeklyPlan(planOutcome(err), req.Weeks, 0, time.Since(began))
		}
		return nil, err
	}

	a.opts.Metrics.RecordWeeklyPlan("success", len(result.Plan.Weeks), result.Series.Len(), time.Since(began))
	return result, nil
}

func planOutcome(err error) string {
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return "failed"
}

// PreviewWeeklyPlan returns the plan with its chart series as JSON
func (a *DashboardAPI) PreviewWeeklyPlan(c *gin.Context) {
	var req weeklyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := a.buildPlan(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	pieces, waste, co2 := a.opts.Charts.WeeklyCharts(result.Series)
	c.JSON(http.StatusOK, gin.H{
		"plan":   result.Plan,
		"series": result.Series,
		"charts": gin.H{"pieces": pieces, "waste": waste, "co2": co2},
	})
}

// DownloadWeeklyPlan builds the plan and returns it as a PDF attachment
func (a *DashboardAPI) DownloadWeeklyPlan(c *gin.Context) {
	var req weeklyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := a.buildPlan(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := a.opts.Exporter.ExportWeeklyPlanDocument(&buf, result.Plan, a.chartImages(result.Series)); err != nil {
		a.opts.Metrics.RecordDocument("failed", 0)
		respondError(c, err)
		return
	}
	doc := buf.Bytes()
	a.opts.Metrics.RecordDocument("success", len(doc))

	exportID := uuid.New().String()
	a.recordExport(c.Request.Context(), exportID, result, doc)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Header("X-Export-ID", exportID)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// chartImages renders the weekly series for the last page. Charts that fail
// to render are left out of the document.
func (a *DashboardAPI) chartImages(s models.Series) export.ChartImages {
	pieces, waste, co2 := a.opts.Charts.WeeklyCharts(s)

	render := func(spec charts.ChartSpec) []byte {
		png, err := a.opts.Renderer.Render(spec)
		if err != nil {
			if !errors.Is(err, charts.ErrNoData) {
				log.Printf("Failed to render %q: %v", spec.Title, err)
			}
			return nil
		}
		return png
	}

	return export.ChartImages{
		Pieces: render(pieces),
		Waste:  render(waste),
		CO2:    render(co2),
	}
}

// recordExport archives the document and logs it. Failures here do not
// fail the download.
func (a *DashboardAPI) recordExport(ctx context.Context, exportID string, result *planning.WeeklyResult, doc []byte) {
	rec := &database.ExportRecord{
		ExportID:   exportID,
		Restaurant: string(result.Plan.Location),
		StartDate:  models.FormatDate(result.Plan.StartDate),
		Weeks:      len(result.Plan.Weeks),
		Days:       result.Series.Len(),
		SizeBytes:  len(doc),
	}

	if a.opts.Archive != nil {
		obj, err := a.opts.Archive.Store(ctx, export.FileName, "application/pdf", doc)
		if err != nil {
			log.Printf("Failed to archive export %s: %v", exportID, err)
		} else {
			rec.ArchiveKey = obj.Key
			rec.ArchiveURL = obj.URL
		}
	}

	if a.opts.Exports != nil {
		if err := a.opts.Exports.Create(rec); err != nil {
			log.Printf("Failed to record export %s: %v", exportID, err)
		}
	}
}

// ListExports returns the most recent exported documents
func (a *DashboardAPI) ListExports(c *gin.Context) {
	if a.opts.Exports == nil {
		c.JSON(http.StatusOK, gin.H{"exports": []database.ExportRecord{}})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
		return
	}

	recs, err := a.opts.Exports.Recent(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": recs})
}

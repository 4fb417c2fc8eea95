package api

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fwowebserver/internal/charts"
	"fwowebserver/internal/config"
	"fwowebserver/internal/database"
	"fwowebserver/internal/export"
	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"
	"fwowebserver/internal/monitoring"
	"fwowebserver/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options wires the dashboard API to its collaborators. Exports and
// Archive are optional.
type Options struct {
	Service   forecast.Service
	Locations *models.LocationSet
	Policy    models.DatePolicy
	Charts    *charts.Builder
	Renderer  *charts.Renderer
	Exporter  *export.Exporter
	Metrics   *monitoring.MetricsCollector
	Exports   *database.ExportRepository
	Archive   *storage.Archive

	Auth         config.AuthConfig
	JWTSecret    string
	AuthRequired bool
	CORSOrigins  []string
	WebDir       string
}

// DashboardAPI serves the waste forecasting dashboard
type DashboardAPI struct {
	Router *gin.Engine
	opts   Options
	now    func() time.Time
}

// NewDashboardAPI creates the router and registers every route
func NewDashboardAPI(opts Options) *DashboardAPI {
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetricsCollector(nil)
	}
	if opts.Locations == nil {
		opts.Locations, _ = models.NewLocationSet(nil)
	}
	if opts.Charts == nil {
		opts.Charts = charts.NewBuilder(charts.DefaultStyle(), charts.DefaultLimits())
	}
	if opts.Renderer == nil {
		opts.Renderer = charts.NewRenderer(0, 0)
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewExporter(export.DefaultOptions())
	}

	api := &DashboardAPI{
		Router: gin.Default(),
		opts:   opts,
		now:    time.Now,
	}
	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *DashboardAPI) setupRoutes() {
	if len(a.opts.CORSOrigins) > 0 {
		a.Router.Use(cors.New(cors.Config{
			AllowOrigins:     a.opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "fwowebserver is running"})
	})

	v1 := a.Router.Group("/api/v1")
	v1.GET("/auth/config", a.GetAuthConfig)
	v1.GET("/locations", a.GetLocations)

	secured := v1.Group("")
	secured.Use(a.Protected()...)
	{
		secured.GET("/predictions/daily", a.GetDailyPrediction)

		secured.GET("/recommendations/daily", a.GetDailyRecommendation)
		secured.POST("/recommendations/daily/evaluate", a.EvaluateMenu)

		secured.POST("/plans/weekly/preview", a.PreviewWeeklyPlan)
		secured.POST("/plans/weekly", a.DownloadWeeklyPlan)
		secured.GET("/exports", a.ListExports)

		secured.GET("/occupancy", a.GetOccupancy)
		secured.POST("/charts/render", a.RenderChart)

		secured.GET("/metrics", a.GetMetrics)
	}

	a.serveWebApp()
}

// Protected returns the handlers guarding private routes. Routes mounted
// outside /api/v1, such as the plan stream, must be registered with them.
func (a *DashboardAPI) Protected() []gin.HandlerFunc {
	if !a.opts.AuthRequired {
		return nil
	}
	return []gin.HandlerFunc{AuthMiddleware(a.opts.JWTSecret, a.opts.Auth.ClientID)}
}

// serveWebApp mounts the built single page app under both public roots.
// Unknown paths fall back to index.html.
func (a *DashboardAPI) serveWebApp() {
	dir := a.opts.WebDir
	if dir == "" {
		return
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}

	// files are written directly so no range requests are advertised
	serve := func(c *gin.Context, rel string) {
		target := filepath.Join(dir, filepath.Clean("/"+rel))
		if info, err := os.Stat(target); err != nil || info.IsDir() {
			target = index
		}
		data, err := os.ReadFile(target)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read web asset"})
			return
		}
		ctype := mime.TypeByExtension(filepath.Ext(target))
		if ctype == "" {
			ctype = http.DetectContentType(data)
		}
		c.Header("Accept-Ranges", "none")
		c.Data(http.StatusOK, ctype, data)
	}

	a.Router.GET("/fwowebserver/*path", func(c *gin.Context) {
		serve(c, c.Param("path"))
	})
	a.Router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		serve(c, c.Request.URL.Path)
	})
}

// GetAuthConfig returns the identity provider variant for the browser
func (a *DashboardAPI) GetAuthConfig(c *gin.Context) {
	c.JSON(http.StatusOK, a.opts.Auth)
}

// GetLocations lists the restaurants this deployment serves
func (a *DashboardAPI) GetLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"locations": a.opts.Locations.List(),
		"default":   a.opts.Locations.Default(),
	})
}

// GetMetrics returns the in-process monitor snapshot
func (a *DashboardAPI) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.opts.Metrics.Monitor().GetMetrics())
}

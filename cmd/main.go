package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fwowebserver/internal/api"
	"fwowebserver/internal/charts"
	"fwowebserver/internal/config"
	"fwowebserver/internal/database"
	"fwowebserver/internal/export"
	"fwowebserver/internal/forecast"
	"fwowebserver/internal/monitoring"
	"fwowebserver/internal/playground"
	"fwowebserver/internal/storage"

	"github.com/gin-gonic/gin"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	locations, err := cfg.LocationSet()
	if err != nil {
		log.Fatalf("Invalid locations: %v", err)
	}
	policy, err := cfg.DatePolicy()
	if err != nil {
		log.Fatalf("Invalid date policy: %v", err)
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsCollector := monitoring.NewMetricsCollector(monitoring.NewMonitor())

	client := forecast.NewClient(cfg.APIBaseURL,
		forecast.WithTimeout(cfg.RequestTimeout),
		forecast.WithObserver(metricsCollector),
	)
	cache := database.NewRecommendationRepository(db)
	service := forecast.NewCachedService(client, cache, cfg.CacheTTL)
	go purgeCache(ctx, cache, cfg.CacheTTL)

	archive, err := initializeArchive(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	dashboard := api.NewDashboardAPI(api.Options{
		Service:      service,
		Locations:    locations,
		Policy:       policy,
		Charts:       charts.NewBuilder(cfg.Charts.Style, cfg.Charts.Limits),
		Renderer:     charts.NewRenderer(cfg.Charts.Width, cfg.Charts.Height),
		Exporter:     export.NewExporter(cfg.Export),
		Metrics:      metricsCollector,
		Exports:      database.NewExportRepository(db),
		Archive:      archive,
		Auth:         cfg.AuthVariant(),
		JWTSecret:    cfg.Auth.JWTSecret,
		AuthRequired: cfg.Auth.Required,
		CORSOrigins:  cfg.CORS.AllowOrigins,
		WebDir:       cfg.WebDir,
	})

	stream := playground.NewPlanStream(playground.Config{
		Service:        service,
		Locations:      locations,
		Policy:         policy,
		Metrics:        metricsCollector,
		AllowedOrigins: cfg.CORS.AllowOrigins,
	})
	stream.Register(dashboard.Router, dashboard.Protected()...)

	go startMetricsServer(*metricsPort, metricsCollector)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: dashboard.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting API server on port %d (mode %s, forecasts from %s)", *port, cfg.Mode, cfg.APIBaseURL)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func initializeArchive(ctx context.Context, cfg storage.Config) (*storage.Archive, error) {
	if !cfg.Enabled() {
		log.Println("Document archive disabled")
		return nil, nil
	}
	return storage.NewArchive(ctx, cfg)
}

// purgeCache drops expired recommendation payloads once an hour
func purgeCache(ctx context.Context, repo *database.RecommendationRepository, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.Purge(time.Now().Add(-ttl))
			if err != nil {
				log.Printf("Recommendation cache purge failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Purged %d expired recommendations", removed)
			}
		}
	}
}

func startMetricsServer(port int, collector *monitoring.MetricsCollector) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}

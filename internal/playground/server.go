package playground

import (
	"time"

	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"
	"fwowebserver/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// StreamPath is where clients open the weekly plan progress socket
const StreamPath = "/ws/plans"

// Config wires a PlanStream
type Config struct {
	Service   forecast.Service
	Locations *models.LocationSet
	Policy    models.DatePolicy
	Metrics   *monitoring.MetricsCollector
	// AllowedOrigins limits browser origins. Empty allows any origin.
	AllowedOrigins []string
}

// PlanStream runs weekly plans over websockets and streams one event per
// finished week
type PlanStream struct {
	svc       forecast.Service
	locations *models.LocationSet
	policy    models.DatePolicy
	metrics   *monitoring.MetricsCollector
	origins   map[string]bool
	now       func() time.Time
}

// NewPlanStream creates a stream handler
func NewPlanStream(cfg Config) *PlanStream {
	if cfg.Locations == nil {
		cfg.Locations, _ = models.NewLocationSet(nil)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = monitoring.NewMetricsCollector(nil)
	}

	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}

	return &PlanStream{
		svc:       cfg.Service,
		locations: cfg.Locations,
		policy:    cfg.Policy,
		metrics:   cfg.Metrics,
		origins:   origins,
		now:       time.Now,
	}
}

// Register mounts the socket endpoint on r behind the given middleware
func (s *PlanStream) Register(r gin.IRoutes, middleware ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc(nil), middleware...), s.handleWebSocket)
	r.GET(StreamPath, handlers...)
}

package forecast

import (
	"context"
	"log"
	"time"

	"fwowebserver/internal/models"
)

// RecommendationStore persists recommendation payloads per restaurant and day
type RecommendationStore interface {
	LoadRecommendation(ctx context.Context, loc models.Location, date time.Time, maxAge time.Duration) (*models.Recommendation, bool, error)
	SaveRecommendation(ctx context.Context, loc models.Location, date time.Time, rec *models.Recommendation) error
}

// CachedService serves recommendations from a store before asking the
// upstream service. Store failures are logged and bypassed.
type CachedService struct {
	Service
	store RecommendationStore
	ttl   time.Duration
}

// NewCachedService wraps svc with a recommendation cache
func NewCachedService(svc Service, store RecommendationStore, ttl time.Duration) *CachedService {
	return &CachedService{Service: svc, store: store, ttl: ttl}
}

// Recommendation returns the cached payload when it is younger than the TTL
func (c *CachedService) Recommendation(ctx context.Context, loc models.Location, date time.Time) (*models.Recommendation, error) {
	rec, ok, err := c.store.LoadRecommendation(ctx, loc, date, c.ttl)
	if err != nil {
		log.Printf("Recommendation cache read failed for %s %s: %v", loc, models.FormatDate(date), err)
	} else if ok {
		return rec, nil
	}

	rec, err = c.Service.Recommendation(ctx, loc, date)
	if err != nil {
		return nil, err
	}

	if err := c.store.SaveRecommendation(ctx, loc, date, rec); err != nil {
		log.Printf("Recommendation cache write failed for %s %s: %v", loc, models.FormatDate(date), err)
	}
	return rec, nil
}

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fwowebserver/internal/models"

	"github.com/jinzhu/gorm"
)

// CachedRecommendation stores one upstream recommendation payload
type CachedRecommendation struct {
	gorm.Model
	Restaurant string `gorm:"size:32;unique_index:idx_recommendation_day"`
	Day        string `gorm:"size:10;unique_index:idx_recommendation_day"`
	Payload    string `gorm:"type:text"`
	FetchedAt  time.Time
}

// RecommendationRepository caches recommendation payloads per restaurant
// and day
type RecommendationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecommendationRepository creates a repository on db
func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db, now: time.Now}
}

// LoadRecommendation returns the stored payload if it is younger than
// maxAge. A zero maxAge accepts any age.
func (r *RecommendationRepository) LoadRecommendation(ctx context.Context, loc models.Location, date time.Time, maxAge time.Duration) (*models.Recommendation, bool, error) {
	var row CachedRecommendation
	err := r.db.Where("restaurant = ? AND day = ?", string(loc), models.FormatDate(date)).First(&row).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load cached recommendation: %w", err)
	}

	if maxAge > 0 && r.now().Sub(row.FetchedAt) > maxAge {
		return nil, false, nil
	}

	var rec models.Recommendation
	if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached recommendation: %w", err)
	}
	return &rec, true, nil
}

// SaveRecommendation stores or refreshes the payload of one day
func (r *RecommendationRepository) SaveRecommendation(ctx context.Context, loc models.Location, date time.Time, rec *models.Recommendation) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode recommendation: %w", err)
	}

	var row CachedRecommendation
	err = r.db.
		Where(CachedRecommendation{Restaurant: string(loc), Day: models.FormatDate(date)}).
		Assign(CachedRecommendation{Payload: string(payload), FetchedAt: r.now()}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	return nil
}

// Purge deletes payloads fetched before the cutoff and reports how many
// were removed
func (r *RecommendationRepository) Purge(before time.Time) (int64, error) {
	res := r.db.Unscoped().Where("fetched_at < ?", before).Delete(&CachedRecommendation{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge recommendations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

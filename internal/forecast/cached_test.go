package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"fwowebserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	Service
	calls int
	err   error
}

func (s *countingService) Recommendation(ctx context.Context, loc models.Location, date time.Time) (*models.Recommendation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Recommendation{Dishes: []models.Dish{{MealID: "1", Restaurant: loc}}}, nil
}

type memoryStore struct {
	recs    map[string]*models.Recommendation
	loadErr error
}

func (m *memoryStore) LoadRecommendation(_ context.Context, loc models.Location, date time.Time, _ time.Duration) (*models.Recommendation, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	rec, ok := m.recs[string(loc)+models.FormatDate(date)]
	return rec, ok, nil
}

func (m *memoryStore) SaveRecommendation(_ context.Context, loc models.Location, date time.Time, rec *models.Recommendation) error {
	if m.recs == nil {
		m.recs = make(map[string]*models.Recommendation)
	}
	m.recs[string(loc)+models.FormatDate(date)] = rec
	return nil
}

func TestCachedService_ReusesStoredPayload(t *testing.T) {
	upstream := &countingService{}
	store := &memoryStore{}
	svc := NewCachedService(upstream, store, time.Hour)
	day := time.Date(2024, 11, 6, 0, 0, 0, 0, time.UTC)

	first, err := svc.Recommendation(context.Background(), models.LocationChemicum, day)
	require.NoError(t, err)
	second, err := svc.Recommendation(context.Background(), models.LocationChemicum, day)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, first, second)

	_, err = svc.Recommendation(context.Background(), models.LocationExactum, day)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedService_StoreFailureFallsThrough(t *testing.T) {
	upstream := &countingService{}
	svc := NewCachedService(upstream, &memoryStore{loadErr: errors.New("disk full")}, time.Hour)

	rec, err := svc.Recommendation(context.Background(), models.LocationChemicum, time.Now())
	require.NoError(t, err)
	assert.Len(t, rec.Dishes, 1)
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedService_UpstreamErrorNotCached(t *testing.T) {
	upstream := &countingService{err: &FetchError{Endpoint: EndpointRecommendation, StatusCode: 503}}
	store := &memoryStore{}
	svc := NewCachedService(upstream, store, time.Hour)

	_, err := svc.Recommendation(context.Background(), models.LocationChemicum, time.Now())
	assert.Error(t, err)
	assert.Empty(t, store.recs)
}

package database

import (
	"context"
	"testing"
	"time"

	"fwowebserver/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "")
	assert.Error(t, err)
}

func TestRecommendationRepository_RoundTrip(t *testing.T) {
	repo := NewRecommendationRepository(openTestDB(t))
	ctx := context.Background()
	day := time.Date(2024, 11, 12, 0, 0, 0, 0, time.UTC)

	_, ok, err := repo.LoadRecommendation(ctx, models.LocationChemicum, day, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	rec := &models.Recommendation{
		Dishes: []models.Dish{{MealID: "17", Name: "Pinaattiletut", Category: models.CategoryVegetarian, PiecesPerDish: 140, Restaurant: models.LocationChemicum}},
		Menus:  []models.MenuInfo{{Dish1: "17", TotalPieces: 140}},
	}
	require.NoError(t, repo.SaveRecommendation(ctx, models.LocationChemicum, day, rec))

	got, ok, err := repo.LoadRecommendation(ctx, models.LocationChemicum, day, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	_, ok, err = repo.LoadRecommendation(ctx, models.LocationExactum, day, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecommendationRepository_ExpiryAndRefresh(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecommendationRepository(db)
	ctx := context.Background()
	day := time.Date(2024, 11, 12, 0, 0, 0, 0, time.UTC)

	clock := time.Date(2024, 11, 10, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	require.NoError(t, repo.SaveRecommendation(ctx, models.LocationPhysicum, day, &models.Recommendation{}))

	clock = clock.Add(2 * time.Hour)
	_, ok, err := repo.LoadRecommendation(ctx, models.LocationPhysicum, day, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "entry older than max age")

	_, ok, err = repo.LoadRecommendation(ctx, models.LocationPhysicum, day, 0)
	require.NoError(t, err)
	assert.True(t, ok, "zero max age accepts any entry")

	refreshed := &models.Recommendation{Menus: []models.MenuInfo{{TotalPieces: 5}}}
	require.NoError(t, repo.SaveRecommendation(ctx, models.LocationPhysicum, day, refreshed))

	var count int
	require.NoError(t, db.Model(&CachedRecommendation{}).Count(&count).Error)
	assert.Equal(t, 1, count)

	got, ok, err := repo.LoadRecommendation(ctx, models.LocationPhysicum, day, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5.0, got.Menus[0].TotalPieces)

	removed, err := repo.Purge(clock.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestExportRepository(t *testing.T) {
	repo := NewExportRepository(openTestDB(t))

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(&ExportRecord{ExportID: id, Restaurant: "Chemicum", Weeks: i + 1}))
	}

	recs, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].ExportID)
	assert.Equal(t, "b", recs[1].ExportID)

	assert.Error(t, repo.Create(&ExportRecord{ExportID: "a"}), "export ids are unique")
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/TrackFlow/internal/domain"
	attrentities "github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	"github.com/Conte777/TrackFlow/internal/domain/stats/entities"
	statserrors "github.com/Conte777/TrackFlow/internal/domain/stats/errors"
	visitentities "github.com/Conte777/TrackFlow/internal/domain/visit/entities"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&visitentities.Visit{}, &attrentities.Subscription{}))
	return db
}

func TestStatsRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	visitID := uuid.New()
	visits := []visitentities.Visit{
		{ID: visitID, ChannelID: -1001, Platform: "telegram", UTM: domain.UTM{Source: "vk", Campaign: "spring"}, CreatedAt: t0},
		{ID: uuid.New(), ChannelID: -1001, Platform: "telegram", UTM: domain.UTM{Source: "vk"}, CreatedAt: t0.Add(2 * time.Hour)},
		{ID: uuid.New(), ChannelID: -1001, Platform: "max", UTM: domain.UTM{Source: "tg_ads"}, CreatedAt: t0.Add(time.Hour)},
		{ID: uuid.New(), ChannelID: -1001, Platform: "telegram", UTM: domain.UTM{Source: "vk"}, CreatedAt: t0.Add(13 * time.Hour)},
		{ID: uuid.New(), ChannelID: -1001, Platform: "telegram", UTM: domain.UTM{Source: "vk"}, CreatedAt: t0.Add(-48 * time.Hour)},
		{ID: uuid.New(), ChannelID: -2002, Platform: "telegram", UTM: domain.UTM{Source: "vk"}, CreatedAt: t0},
	}
	require.NoError(t, db.Create(&visits).Error)

	subs := []attrentities.Subscription{
		{ChannelID: -1001, Platform: "telegram", ExternalUserID: "1", VisitID: &visitID, UTM: domain.UTM{Source: "vk", Campaign: "spring"}, SubscribedAt: t0.Add(time.Hour), CreatedAt: t0},
		{ChannelID: -1001, Platform: "telegram", ExternalUserID: "2", SubscribedAt: t0.Add(2 * time.Hour), CreatedAt: t0},
		{ChannelID: -1001, Platform: "max", ExternalUserID: "2", SubscribedAt: t0.Add(3 * time.Hour), CreatedAt: t0},
		{ChannelID: -2002, Platform: "telegram", ExternalUserID: "3", SubscribedAt: t0.Add(time.Hour), CreatedAt: t0},
	}
	require.NoError(t, db.Create(&subs).Error)

	repo := NewRepository(db)
	q := entities.Query{ChannelID: -1001, From: t0.Add(-time.Hour), To: t0.Add(36 * time.Hour), Dimension: "source"}

	vc, err := repo.VisitCounts(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []entities.VisitCount{
		{Day: "2026-03-01", Value: "tg_ads", Visits: 1},
		{Day: "2026-03-01", Value: "vk", Visits: 2},
		{Day: "2026-03-02", Value: "vk", Visits: 1},
	}, vc)

	q.Dimension = "campaign"
	sc, err := repo.SubscriptionCounts(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []entities.SubscriptionCount{
		{Day: "2026-03-01", Value: "", Organic: 2},
		{Day: "2026-03-01", Value: "spring", Attributed: 1},
	}, sc)
}

func TestStatsRepository_RejectsUnknownDimension(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	q := entities.Query{ChannelID: -1001, From: t0, To: t0, Dimension: "utm_source; DROP TABLE visits"}

	_, err := repo.VisitCounts(context.Background(), q)
	assert.ErrorIs(t, err, statserrors.ErrInvalidDimension)
	_, err = repo.SubscriptionCounts(context.Background(), q)
	assert.ErrorIs(t, err, statserrors.ErrInvalidDimension)
}

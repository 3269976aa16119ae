package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/TrackFlow/internal/domain"
	channelentities "github.com/Conte777/TrackFlow/internal/domain/channel/entities"
	"github.com/Conte777/TrackFlow/internal/domain/link/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&channelentities.Channel{}, &entities.TrackingLink{}))
	return db
}

func seedChannel(t *testing.T, db *gorm.DB, id int64, active bool) {
	t.Helper()
	require.NoError(t, db.Create(&channelentities.Channel{
		ID:              id,
		Title:           "Daily",
		Username:        "daily",
		IsActive:        active,
		AnalyticsConfig: channelentities.AnalyticsConfig{YandexMetrikaID: "98765", VKPixelID: "VK-1"},
	}).Error)
}

func TestLinkRepository_InsertAndResolve(t *testing.T) {
	db := setupTestDB(t)
	seedChannel(t, db, -1001, true)
	repo := NewRepository(db)
	ctx := context.Background()

	link := &entities.TrackingLink{
		ChannelID: -1001,
		ShortCode: "ab12cd34",
		UTM:       domain.UTM{Source: "vk", Campaign: "spring"},
		CreatedAt: time.Now().UTC(),
	}
	inserted, err := repo.InsertIfAbsent(ctx, link)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, link.ID)

	res, err := repo.Resolve(ctx, "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, link.ID, res.LinkID)
	assert.Equal(t, int64(-1001), res.ChannelID)
	assert.Equal(t, "Daily", res.ChannelTitle)
	assert.Equal(t, "daily", res.ChannelUsername)
	assert.True(t, res.ChannelActive)
	assert.Equal(t, domain.UTM{Source: "vk", Campaign: "spring"}, res.UTM)
	assert.Equal(t, "98765", res.AnalyticsConfig.YandexMetrikaID)
	assert.Equal(t, "VK-1", res.AnalyticsConfig.VKPixelID)
}

func TestLinkRepository_InsertCollision(t *testing.T) {
	db := setupTestDB(t)
	seedChannel(t, db, -1001, true)
	repo := NewRepository(db)
	ctx := context.Background()

	first := &entities.TrackingLink{ChannelID: -1001, ShortCode: "ab12cd34", UTM: domain.UTM{Source: "vk"}, CreatedAt: time.Now().UTC()}
	inserted, err := repo.InsertIfAbsent(ctx, first)
	require.NoError(t, err)
	require.True(t, inserted)

	second := &entities.TrackingLink{ChannelID: -1001, ShortCode: "ab12cd34", UTM: domain.UTM{Source: "tg"}, CreatedAt: time.Now().UTC()}
	inserted, err = repo.InsertIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	res, err := repo.Resolve(ctx, "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, "vk", res.UTM.Source, "existing link must not be overwritten")
}

func TestLinkRepository_ResolveUnknown(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.Resolve(context.Background(), "zzzzzzzz")
	assert.ErrorIs(t, err, domain.ErrUnknownLink)
}

func TestLinkRepository_ResolveInactiveChannel(t *testing.T) {
	db := setupTestDB(t)
	seedChannel(t, db, -1002, false)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.InsertIfAbsent(ctx, &entities.TrackingLink{ChannelID: -1002, ShortCode: "QWERTY12", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	res, err := repo.Resolve(ctx, "QWERTY12")
	require.NoError(t, err)
	assert.False(t, res.ChannelActive)
}

func TestLinkRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	seedChannel(t, db, -1001, true)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.InsertIfAbsent(ctx, &entities.TrackingLink{ChannelID: -1001, ShortCode: "ab12cd34", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, int64(-1001), deleted.ChannelID)

	_, err = repo.Resolve(ctx, "ab12cd34")
	assert.ErrorIs(t, err, domain.ErrUnknownLink)

	_, err = repo.Delete(ctx, "ab12cd34")
	assert.ErrorIs(t, err, domain.ErrUnknownLink)
}

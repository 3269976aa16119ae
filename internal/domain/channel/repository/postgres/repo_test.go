package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/channel/entities"
	channelerrors "github.com/Conte777/TrackFlow/internal/domain/channel/errors"
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

	require.NoError(t, db.AutoMigrate(&entities.Channel{}))
	return db
}

func int64Ptr(v int64) *int64 { return &v }

func TestChannelRepository_UpsertAndDeactivate(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entities.Channel{
		ID: -1001, Title: "Daily", Username: "daily", IsActive: true, OwnerID: int64Ptr(7),
		AnalyticsConfig: entities.AnalyticsConfig{YandexMetrikaID: "123"},
	}))

	// re-adding without an owner keeps the stored owner
	require.NoError(t, repo.Upsert(ctx, &entities.Channel{ID: -1001, Title: "Daily News", IsActive: true}))

	ch, err := repo.GetByID(ctx, -1001)
	require.NoError(t, err)
	assert.Equal(t, "Daily News", ch.Title)
	require.NotNil(t, ch.OwnerID)
	assert.Equal(t, int64(7), *ch.OwnerID)
	assert.Equal(t, "123", ch.AnalyticsConfig.YandexMetrikaID)
	assert.True(t, ch.IsActive)

	changed, err := repo.Deactivate(ctx, -1001)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Deactivate(ctx, -1001)
	require.NoError(t, err)
	assert.False(t, changed)

	ch, err = repo.GetByID(ctx, -1001)
	require.NoError(t, err)
	assert.False(t, ch.IsActive)
}

func TestChannelRepository_GetByIDUnknown(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrUnknownChannel)
}

func TestChannelRepository_MaxChatBinding(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entities.Channel{ID: -1001, IsActive: true}))
	require.NoError(t, repo.Upsert(ctx, &entities.Channel{ID: -1002, IsActive: true}))

	require.NoError(t, repo.SetMaxChatID(ctx, -1001, 555))

	ch, err := repo.GetByMaxChatID(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, int64(-1001), ch.ID)

	err = repo.SetMaxChatID(ctx, -1002, 555)
	assert.ErrorIs(t, err, channelerrors.ErrMaxChatTaken)

	err = repo.SetMaxChatID(ctx, -9999, 777)
	assert.ErrorIs(t, err, domain.ErrUnknownChannel)

	_, err = repo.GetByMaxChatID(ctx, 777)
	assert.ErrorIs(t, err, domain.ErrUnknownChannel)
}

func TestChannelRepository_SetAnalyticsConfig(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entities.Channel{ID: -1001, IsActive: true}))
	require.NoError(t, repo.SetAnalyticsConfig(ctx, -1001, entities.AnalyticsConfig{VKPixelID: "VK-RTRG-1"}))

	ch, err := repo.GetByID(ctx, -1001)
	require.NoError(t, err)
	assert.Equal(t, "VK-RTRG-1", ch.AnalyticsConfig.VKPixelID)

	assert.ErrorIs(t, repo.SetAnalyticsConfig(ctx, 1, entities.AnalyticsConfig{}), domain.ErrUnknownChannel)
}

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/TrackFlow/internal/domain/auth/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection would otherwise open its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entities.User{}))
	return db
}

func TestUserRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	id, err := repo.Upsert(ctx, &entities.User{Platform: "telegram", ExternalID: "42", Username: "alice"})
	require.NoError(t, err)
	require.NotZero(t, id)

	again, err := repo.Upsert(ctx, &entities.User{Platform: "telegram", ExternalID: "42", Username: "alice_new"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := repo.Upsert(ctx, &entities.User{Platform: "max", ExternalID: "42"})
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	var stored entities.User
	require.NoError(t, db.First(&stored, id).Error)
	assert.Equal(t, "alice_new", stored.Username)

	var count int64
	require.NoError(t, db.Model(&entities.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

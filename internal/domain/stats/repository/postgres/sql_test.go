package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/TrackFlow/internal/domain/stats/entities"
)

func newMockRepository(t *testing.T) (*statsRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return &statsRepository{db: db}, mock
}

// Rollups are grouped by the database; only one row per day and value comes back.
func TestVisitCounts_SQL(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, utm_medium AS value, COUNT(*) AS visits FROM "visits"`) +
		`.*` + regexp.QuoteMeta(`GROUP BY 1, 2 ORDER BY 1, 2`)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "value", "visits"}).AddRow("2026-03-01", "cpc", 1200))

	counts, err := repo.VisitCounts(context.Background(), entities.Query{ChannelID: -1001, From: t0, To: t0, Dimension: "medium"})
	require.NoError(t, err)
	assert.Equal(t, []entities.VisitCount{{Day: "2026-03-01", Value: "cpc", Visits: 1200}}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionCounts_SQL(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT to_char(subscribed_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, utm_source AS value, `) +
		`.*` + regexp.QuoteMeta(`FROM "subscriptions"`) +
		`.*` + regexp.QuoteMeta(`GROUP BY 1, 2 ORDER BY 1, 2`)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "value", "attributed", "organic"}).AddRow("2026-03-01", "vk", 3, 0))

	counts, err := repo.SubscriptionCounts(context.Background(), entities.Query{ChannelID: -1001, From: t0, To: t0, Dimension: "source"})
	require.NoError(t, err)
	assert.Equal(t, []entities.SubscriptionCount{{Day: "2026-03-01", Value: "vk", Attributed: 3}}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

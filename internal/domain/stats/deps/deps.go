package deps

import (
	"context"

	"github.com/Conte777/TrackFlow/internal/domain/stats/entities"
)

// StatsRepository counts events grouped by UTC day and dimension value
type StatsRepository interface {
	VisitCounts(ctx context.Context, q entities.Query) ([]entities.VisitCount, error)
	SubscriptionCounts(ctx context.Context, q entities.Query) ([]entities.SubscriptionCount, error)
}

// StatsService is used by the HTTP layer
type StatsService interface {
	Report(ctx context.Context, q entities.Query) (*entities.Report, error)
}

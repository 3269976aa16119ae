// Package business computes visit and subscription rollups
package business

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/internal/domain/stats/deps"
	"github.com/Conte777/TrackFlow/internal/domain/stats/entities"
	statserrors "github.com/Conte777/TrackFlow/internal/domain/stats/errors"
)

const (
	maxRange     = 366 * 24 * time.Hour
	defaultRange = 30 * 24 * time.Hour
)

// UseCase builds per-day rollups by one UTM dimension
type UseCase struct {
	repo   deps.StatsRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewUseCase creates a stats use case
func NewUseCase(repo deps.StatsRepository, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:   repo,
		logger: logger.With().Str("component", "stats").Logger(),
		now:    time.Now,
	}
}

// Report aggregates visits and subscriptions by UTC day and dimension value.
// A zero To means now; a zero From means 30 days before To.
func (uc *UseCase) Report(ctx context.Context, q entities.Query) (*entities.Report, error) {
	q, err := uc.normalize(q)
	if err != nil {
		return nil, err
	}

	visits, err := uc.repo.VisitCounts(ctx, q)
	if err != nil {
		return nil, err
	}
	subs, err := uc.repo.SubscriptionCounts(ctx, q)
	if err != nil {
		return nil, err
	}

	type key struct{ day, value string }
	buckets := make(map[key]*entities.Bucket)
	bucket := func(day, value string) *entities.Bucket {
		k := key{day: day, value: value}
		b, ok := buckets[k]
		if !ok {
			b = &entities.Bucket{Day: day, Value: value}
			buckets[k] = b
		}
		return b
	}

	report := &entities.Report{
		ChannelID: q.ChannelID,
		From:      q.From,
		To:        q.To,
		Dimension: q.Dimension,
		Buckets:   make([]entities.Bucket, 0),
	}

	for _, v := range visits {
		bucket(v.Day, v.Value).Visits += v.Visits
		report.Totals.Visits += v.Visits
	}
	for _, c := range subs {
		b := bucket(c.Day, c.Value)
		b.Subscriptions += c.Attributed
		b.Organic += c.Organic
		report.Totals.Subscriptions += c.Attributed
		report.Totals.Organic += c.Organic
	}

	for _, b := range buckets {
		b.Conversion = conversion(b.Subscriptions, b.Visits)
		report.Buckets = append(report.Buckets, *b)
	}
	report.Totals.Conversion = conversion(report.Totals.Subscriptions, report.Totals.Visits)

	sort.Slice(report.Buckets, func(i, j int) bool {
		if report.Buckets[i].Day != report.Buckets[j].Day {
			return report.Buckets[i].Day < report.Buckets[j].Day
		}
		return report.Buckets[i].Value < report.Buckets[j].Value
	})

	uc.logger.Debug().
		Int64("channel_id", q.ChannelID).
		Int64("visits", report.Totals.Visits).
		Int64("subscriptions", report.Totals.Subscriptions+report.Totals.Organic).
		Int("buckets", len(report.Buckets)).
		Msg("stats report built")

	return report, nil
}

func (uc *UseCase) normalize(q entities.Query) (entities.Query, error) {
	if q.Dimension == "" {
		q.Dimension = entities.DefaultDimension
	}
	if _, ok := entities.Dimensions[q.Dimension]; !ok {
		return q, statserrors.ErrInvalidDimension
	}

	if q.To.IsZero() {
		q.To = uc.now()
	}
	if q.From.IsZero() {
		q.From = q.To.Add(-defaultRange)
	}
	q.From, q.To = q.From.UTC(), q.To.UTC()

	if q.From.After(q.To) || q.To.Sub(q.From) > maxRange {
		return q, statserrors.ErrInvalidRange
	}
	return q, nil
}

// conversion is the share of visits that led to an attributed subscription
func conversion(subscriptions, visits int64) float64 {
	if visits == 0 {
		return 0
	}
	return float64(subscriptions) / float64(visits)
}

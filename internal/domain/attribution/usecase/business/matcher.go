package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	attrerrors "github.com/Conte777/TrackFlow/internal/domain/attribution/errors"
	visitentities "github.com/Conte777/TrackFlow/internal/domain/visit/entities"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// Drop reasons reported to metrics
const (
	dropUnknownChannel  = "unknown_channel"
	dropUnknownPlatform = "unknown_platform"
	dropMissingUser     = "missing_user"
	dropStoreError      = "store_error"
)

// Matcher turns join events into subscriptions, attributing each to the
// latest unattributed visit of the same user inside the lookback window
type Matcher struct {
	repo      deps.SubscriptionRepository
	channels  deps.ChannelReader
	platforms deps.Platforms
	publisher deps.EventPublisher
	window    time.Duration
	skew      time.Duration
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewMatcher creates a matcher with the given lookback window. Visits up to
// skew after the join still qualify: platforms stamp joins with whole seconds
// while visits carry the server clock.
func NewMatcher(
	repo deps.SubscriptionRepository,
	channels deps.ChannelReader,
	platforms deps.Platforms,
	publisher deps.EventPublisher,
	window time.Duration,
	skew time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Matcher {
	return &Matcher{
		repo:      repo,
		channels:  channels,
		platforms: platforms,
		publisher: publisher,
		window:    window,
		skew:      skew,
		metrics:   m,
		logger:    logger.With().Str("component", "matcher").Logger(),
		now:       time.Now,
	}
}

// Match processes one join event. Business drops return OutcomeDropped with
// a nil error; store failures return OutcomeDropped with the error.
func (m *Matcher) Match(ctx context.Context, ev *domain.JoinEvent) (entities.Outcome, error) {
	start := time.Now()
	outcome, err := m.match(ctx, ev)
	m.metrics.RecordOutcome(ev.Platform.String(), string(outcome), time.Since(start).Seconds())
	return outcome, err
}

func (m *Matcher) match(ctx context.Context, ev *domain.JoinEvent) (entities.Outcome, error) {
	log := m.logger.With().
		Str("platform", ev.Platform.String()).
		Int64("chat_id", ev.ChatID).
		Str("external_user_id", ev.Identity.ExternalUserID).
		Logger()

	if ev.Identity.ExternalUserID == "" {
		return m.drop(log, ev.Platform, dropMissingUser, nil)
	}

	channelID := ev.ChannelID
	if channelID == 0 {
		p, err := m.platforms.Get(ev.Platform)
		if err != nil {
			return m.drop(log, ev.Platform, dropUnknownPlatform, err)
		}
		channelID, err = p.ResolveChannel(ctx, ev.ChatID)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownChannel) {
				return m.drop(log, ev.Platform, dropUnknownChannel, err)
			}
			m.metrics.RecordDrop(ev.Platform.String(), dropStoreError)
			return entities.OutcomeDropped, err
		}
	}

	if _, err := m.channels.GetActive(ctx, channelID); err != nil {
		if errors.Is(err, domain.ErrUnknownChannel) {
			return m.drop(log, ev.Platform, dropUnknownChannel, err)
		}
		m.metrics.RecordDrop(ev.Platform.String(), dropStoreError)
		return entities.OutcomeDropped, err
	}

	joinedAt := ev.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = m.now()
	}
	joinedAt = joinedAt.UTC()

	q := entities.VisitQuery{
		ChannelID:      channelID,
		Platform:       ev.Platform.String(),
		ExternalUserID: ev.Identity.ExternalUserID,
		Username:       ev.Identity.Username,
		From:           joinedAt.Add(-m.window),
		To:             joinedAt.Add(m.skew),
	}

	visit, err := m.findVisit(ctx, log, ev, q)
	if err != nil {
		m.metrics.RecordDrop(ev.Platform.String(), dropStoreError)
		return entities.OutcomeDropped, err
	}

	sub := &entities.Subscription{
		ChannelID:      channelID,
		Platform:       ev.Platform.String(),
		ExternalUserID: ev.Identity.ExternalUserID,
		Username:       ev.Identity.Username,
		SubscribedAt:   joinedAt,
		CreatedAt:      m.now().UTC(),
	}
	if visit != nil {
		visitID := visit.ID
		sub.VisitID = &visitID
		sub.UTM = visit.UTM
	}

	created, err := m.repo.InsertIfAbsent(ctx, sub)
	if errors.Is(err, attrerrors.ErrVisitTaken) && sub.VisitID != nil {
		log.Info().Str("visit_id", sub.VisitID.String()).Msg("visit attributed concurrently, storing as organic")
		sub.ID = 0
		sub.VisitID = nil
		sub.UTM = domain.UTM{}
		created, err = m.repo.InsertIfAbsent(ctx, sub)
	}
	if err != nil {
		m.metrics.RecordDrop(ev.Platform.String(), dropStoreError)
		return entities.OutcomeDropped, fmt.Errorf("store subscription: %w", err)
	}

	if !created {
		log.Debug().Int64("channel_id", channelID).Msg("duplicate join ignored")
		return entities.OutcomeDuplicate, nil
	}

	outcome := entities.OutcomeOrganic
	if sub.VisitID != nil {
		outcome = entities.OutcomeAttributed
	}

	log.Info().
		Int64("channel_id", channelID).
		Int64("subscription_id", sub.ID).
		Str("outcome", string(outcome)).
		Str("utm_source", sub.UTM.Source).
		Msg("subscription stored")

	m.publisher.Publish(entities.NewSubscriptionCreated(sub))
	return outcome, nil
}

// findVisit honours the hint only when it passes the candidate predicate,
// then tries the exact user id and finally the username fallback
func (m *Matcher) findVisit(ctx context.Context, log zerolog.Logger, ev *domain.JoinEvent, q entities.VisitQuery) (*visitentities.Visit, error) {
	if ev.VisitHint != nil {
		v, err := m.repo.HintedVisit(ctx, *ev.VisitHint, q)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
		log.Debug().Str("visit_id", ev.VisitHint.String()).Msg("visit hint rejected")
	}

	v, err := m.repo.LatestVisitByUserID(ctx, q)
	if err != nil || v != nil {
		return v, err
	}

	return m.repo.LatestVisitByUsername(ctx, q)
}

func (m *Matcher) drop(log zerolog.Logger, p domain.Platform, reason string, err error) (entities.Outcome, error) {
	m.metrics.RecordDrop(p.String(), reason)
	log.Warn().Err(err).Str("reason", reason).Msg("join event dropped")
	return entities.OutcomeDropped, nil
}

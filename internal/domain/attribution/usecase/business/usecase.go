// Package business implements attribution of joins to visits
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
	"github.com/Conte777/TrackFlow/internal/domain/platform"
)

// UseCase serves the mini-app subscription endpoints
type UseCase struct {
	matcher   deps.Matcher
	repo      deps.SubscriptionRepository
	links     deps.LinkResolver
	auth      deps.Identifier
	platforms deps.Platforms
	logger    zerolog.Logger
	now       func() time.Time
}

// NewUseCase creates an attribution use case
func NewUseCase(
	matcher deps.Matcher,
	repo deps.SubscriptionRepository,
	links deps.LinkResolver,
	auth deps.Identifier,
	platforms deps.Platforms,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		matcher:   matcher,
		repo:      repo,
		links:     links,
		auth:      auth,
		platforms: platforms,
		logger:    logger.With().Str("component", "attribution").Logger(),
		now:       time.Now,
	}
}

// Subscribe records a subscription reported by the mini-app. It goes through
// the same matcher as platform join events, so a later webhook for the same
// user is a duplicate. Platforms without mini-app sessions cannot report
// subscriptions: the claimed identity would be unverified.
func (uc *UseCase) Subscribe(ctx context.Context, in deps.SubscribeInput) (entities.Outcome, error) {
	pl, err := uc.platforms.Get(in.Platform)
	if err != nil {
		return entities.OutcomeDropped, err
	}
	if !pl.RequiresSession() {
		uc.logger.Warn().
			Str("platform", in.Platform.String()).
			Msg("subscribe refused, platform has no session key")
		return entities.OutcomeDropped, fmt.Errorf("%w: %s sessions are not configured", domain.ErrInvalidSignature, in.Platform)
	}

	identity, err := uc.auth.Identify(ctx, in.Platform, in.SessionToken, in.Hint)
	if err != nil {
		return entities.OutcomeDropped, err
	}
	if identity.ExternalUserID == "" {
		return entities.OutcomeDropped, attrerrors.ErrMissingUserID
	}

	link, err := uc.links.Resolve(ctx, in.ShortCode)
	if err != nil {
		return entities.OutcomeDropped, err
	}

	outcome, err := uc.matcher.Match(ctx, &domain.JoinEvent{
		Platform:  in.Platform,
		ChannelID: link.ChannelID,
		Identity:  *identity,
		JoinedAt:  uc.now(),
		VisitHint: in.VisitID,
	})
	if err != nil {
		return outcome, err
	}
	if outcome == entities.OutcomeDropped {
		return outcome, domain.ErrUnknownChannel
	}
	return outcome, nil
}

// CheckSubscription asks the platform when it can check membership live and
// falls back to stored subscriptions otherwise or when the platform is down
func (uc *UseCase) CheckSubscription(ctx context.Context, in deps.CheckInput) (bool, error) {
	if in.ChannelID == 0 || in.ExternalUserID == "" || in.Platform == "" {
		return false, attrerrors.ErrInvalidQuery
	}

	p, err := uc.platforms.Get(in.Platform)
	if err != nil {
		return false, err
	}

	if checker, ok := p.(platform.MembershipChecker); ok {
		member, err := checker.IsMember(ctx, in.ChannelID, in.ExternalUserID)
		if err == nil {
			return member, nil
		}
		if !errors.Is(err, domain.ErrUpstreamUnavailable) {
			return false, err
		}
		uc.logger.Warn().
			Err(err).
			Int64("channel_id", in.ChannelID).
			Str("platform", in.Platform.String()).
			Msg("live membership check failed, using stored subscriptions")
	}

	return uc.repo.IsSubscribed(ctx, in.ChannelID, in.Platform, in.ExternalUserID)
}

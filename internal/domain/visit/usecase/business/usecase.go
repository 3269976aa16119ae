package business

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	linkentities "github.com/Conte777/TrackFlow/internal/domain/link/entities"
	"github.com/Conte777/TrackFlow/internal/domain/visit/deps"
	"github.com/Conte777/TrackFlow/internal/domain/visit/entities"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// UseCase records mini-app opens. Repeated opens are separate visits;
// deduplication happens only when a subscription is matched.
type UseCase struct {
	repo    deps.VisitRepository
	links   deps.LinkResolver
	auth    deps.Identifier
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewUseCase creates a visit use case
func NewUseCase(
	repo deps.VisitRepository,
	links deps.LinkResolver,
	auth deps.Identifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:    repo,
		links:   links,
		auth:    auth,
		metrics: m,
		logger:  logger.With().Str("component", "visit_recorder").Logger(),
		now:     time.Now,
	}
}

// Record authenticates the caller, resolves the link and stores a visit
// carrying the link's channel and UTM tuple
func (uc *UseCase) Record(ctx context.Context, in deps.RecordInput) (*entities.Visit, *linkentities.Resolution, error) {
	identity, err := uc.auth.Identify(ctx, in.Platform, in.SessionToken, in.Hint)
	if err != nil {
		return nil, nil, err
	}

	link, err := uc.links.Resolve(ctx, in.ShortCode)
	if err != nil {
		return nil, nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	linkID := link.LinkID
	v := &entities.Visit{
		ID:             id,
		LinkID:         &linkID,
		ChannelID:      link.ChannelID,
		Platform:       in.Platform.String(),
		ExternalUserID: identity.ExternalUserID,
		Username:       identity.Username,
		UTM:            link.UTM,
		IP:             in.IP,
		UserAgent:      in.UserAgent,
		CreatedAt:      uc.now().UTC(),
	}

	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, nil, err
	}

	uc.metrics.RecordVisit(in.Platform.String())
	uc.logger.Debug().
		Str("visit_id", v.ID.String()).
		Int64("channel_id", v.ChannelID).
		Str("platform", v.Platform).
		Str("external_user_id", v.ExternalUserID).
		Str("utm_source", v.UTM.Source).
		Msg("visit recorded")

	return v, link, nil
}

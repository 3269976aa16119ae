package business

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/link/deps"
	"github.com/Conte777/TrackFlow/internal/domain/link/entities"
	linkerrors "github.com/Conte777/TrackFlow/internal/domain/link/errors"
	"github.com/Conte777/TrackFlow/internal/domain/link/shortcode"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// maxCodeAttempts bounds regeneration on short code collisions
const maxCodeAttempts = 5

// UseCase implements the tracking link registry
type UseCase struct {
	repo     deps.LinkRepository
	cache    deps.LinkCache
	channels deps.ChannelReader
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	generate func() (string, error)
}

// NewUseCase creates a link use case
func NewUseCase(
	repo deps.LinkRepository,
	cache deps.LinkCache,
	channels deps.ChannelReader,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:     repo,
		cache:    cache,
		channels: channels,
		metrics:  m,
		logger:   logger.With().Str("component", "link_registry").Logger(),
		generate: shortcode.Generate,
	}
}

// Resolve reads through the cache. Malformed codes and links of inactive
// channels resolve to domain.ErrUnknownLink; the latter are never cached.
func (uc *UseCase) Resolve(ctx context.Context, shortCode string) (*entities.Resolution, error) {
	if !shortcode.Valid(shortCode) {
		return nil, domain.ErrUnknownLink
	}

	cached, err := uc.cache.Get(ctx, shortCode)
	if err != nil {
		uc.logger.Warn().Err(err).Str("short_code", shortCode).Msg("link cache read failed")
	}
	if cached != nil {
		uc.metrics.RecordLinkCache(true)
		return cached, nil
	}
	uc.metrics.RecordLinkCache(false)

	res, err := uc.repo.Resolve(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	if !res.ChannelActive {
		return nil, fmt.Errorf("link %s belongs to inactive channel %d: %w", shortCode, res.ChannelID, domain.ErrUnknownLink)
	}

	if err := uc.cache.Set(ctx, res); err != nil {
		uc.logger.Warn().Err(err).Str("short_code", shortCode).Msg("link cache write failed")
	}
	return res, nil
}

// Create allocates a fresh short code for the channel
func (uc *UseCase) Create(ctx context.Context, channelID int64, utm domain.UTM) (*entities.TrackingLink, error) {
	if _, err := uc.channels.GetActive(ctx, channelID); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := uc.generate()
		if err != nil {
			return nil, err
		}

		link := &entities.TrackingLink{
			ChannelID: channelID,
			ShortCode: code,
			UTM:       utm,
			CreatedAt: time.Now().UTC(),
		}
		inserted, err := uc.repo.InsertIfAbsent(ctx, link)
		if err != nil {
			return nil, err
		}
		if inserted {
			uc.logger.Info().
				Int64("channel_id", channelID).
				Str("short_code", code).
				Str("utm_source", utm.Source).
				Msg("tracking link created")
			return link, nil
		}

		uc.logger.Warn().Str("short_code", code).Int("attempt", attempt).Msg("short code collision")
	}

	return nil, linkerrors.ErrCodeSpaceExhausted
}

// Delete removes the link; recorded visits keep their copied UTM tuple
func (uc *UseCase) Delete(ctx context.Context, shortCode string) error {
	if !shortcode.Valid(shortCode) {
		return linkerrors.ErrInvalidShortCode
	}

	link, err := uc.repo.Delete(ctx, shortCode)
	if err != nil {
		return err
	}

	if err := uc.cache.Delete(ctx, shortCode); err != nil {
		uc.logger.Warn().Err(err).Str("short_code", shortCode).Msg("failed to evict deleted link")
	}

	uc.logger.Info().Int64("channel_id", link.ChannelID).Str("short_code", shortCode).Msg("tracking link deleted")
	return nil
}

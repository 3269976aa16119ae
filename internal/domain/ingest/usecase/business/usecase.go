// Package business normalizes platform updates and routes them to the
// channel registry or the matcher
package business

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/ingest/deps"
	"github.com/Conte777/TrackFlow/internal/domain/platform"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

// UseCase is the single entry point of webhook and polled updates
type UseCase struct {
	platforms deps.Platforms
	channels  deps.ChannelRegistry
	matcher   deps.Matcher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewUseCase creates an ingest use case
func NewUseCase(
	platforms deps.Platforms,
	channels deps.ChannelRegistry,
	matcher deps.Matcher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		platforms: platforms,
		channels:  channels,
		matcher:   matcher,
		metrics:   m,
		logger:    logger.With().Str("component", "ingestor").Logger(),
	}
}

// HandleWebhook authenticates and processes one webhook delivery
func (uc *UseCase) HandleWebhook(ctx context.Context, name string, header func(string) string, body []byte) error {
	p, err := uc.platforms.Lookup(name)
	if err != nil {
		return err
	}

	if err := p.VerifyWebhook(header, body); err != nil {
		uc.metrics.RecordAuthFailure(p.Kind().String(), "webhook_signature")
		uc.logger.Warn().Err(err).Str("platform", p.Kind().String()).Msg("webhook rejected")
		return err
	}

	uc.process(ctx, p, body)
	return nil
}

// HandleUpdate feeds a polled Telegram update through the webhook path
// without signature checks
func (uc *UseCase) HandleUpdate(ctx context.Context, update *models.Update) {
	p, err := uc.platforms.Get(domain.PlatformTelegram)
	if err != nil {
		uc.logger.Error().Err(err).Msg("telegram platform is not registered")
		return
	}

	body, err := json.Marshal(update)
	if err != nil {
		uc.metrics.RecordDrop(domain.PlatformTelegram.String(), "malformed")
		uc.logger.Error().Err(err).Int64("update_id", int64(update.ID)).Msg("failed to encode polled update")
		return
	}

	uc.process(ctx, p, body)
}

func (uc *UseCase) process(ctx context.Context, p platform.Platform, body []byte) {
	kind := p.Kind().String()
	log := uc.logger.With().Str("platform", kind).Logger()

	chEv, err := p.NormalizeChannelEvent(body)
	switch {
	case err == nil:
		if err := uc.channels.ApplyMembership(ctx, chEv); err != nil {
			uc.metrics.RecordDrop(kind, "channel_update_failed")
			log.Error().Err(err).Int64("chat_id", chEv.ChatID).Msg("failed to apply bot membership change")
		}
		return
	case !errors.Is(err, platform.ErrIgnored):
		uc.metrics.RecordDrop(kind, "malformed")
		log.Warn().Err(err).Msg("malformed update dropped")
		return
	}

	join, err := p.NormalizeJoinEvent(body)
	if errors.Is(err, platform.ErrIgnored) {
		log.Debug().Msg("update ignored")
		return
	}
	if err != nil {
		uc.metrics.RecordDrop(kind, "malformed")
		log.Warn().Err(err).Msg("malformed update dropped")
		return
	}

	outcome, err := uc.matcher.Match(ctx, join)
	if err != nil {
		log.Error().
			Err(err).
			Int64("chat_id", join.ChatID).
			Str("external_user_id", join.Identity.ExternalUserID).
			Msg("join event dropped")
		return
	}

	if !outcome.Created() {
		log.Debug().
			Int64("chat_id", join.ChatID).
			Str("outcome", string(outcome)).
			Msg("join event stored nothing")
		return
	}
	log.Debug().
		Int64("chat_id", join.ChatID).
		Str("outcome", string(outcome)).
		Msg("join event processed")
}

package business

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	"github.com/Conte777/TrackFlow/internal/domain/channel/entities"
)

// UseCase maintains the channel registry
type UseCase struct {
	repo   deps.ChannelRepository
	cache  deps.LinkCacheInvalidator
	users  deps.UserRegistrar
	logger zerolog.Logger
}

// NewUseCase creates a channel use case
func NewUseCase(
	repo deps.ChannelRepository,
	cache deps.LinkCacheInvalidator,
	users deps.UserRegistrar,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:   repo,
		cache:  cache,
		users:  users,
		logger: logger.With().Str("component", "channel_registry").Logger(),
	}
}

// GetActive returns the channel if it exists and the bot still administers it
func (uc *UseCase) GetActive(ctx context.Context, id int64) (*entities.Channel, error) {
	ch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ch.IsActive {
		return nil, fmt.Errorf("channel %d is inactive: %w", id, domain.ErrUnknownChannel)
	}
	return ch, nil
}

// ResolveMaxChat maps a MAX chat id to the channel it is bound to
func (uc *UseCase) ResolveMaxChat(ctx context.Context, maxChatID int64) (int64, error) {
	ch, err := uc.repo.GetByMaxChatID(ctx, maxChatID)
	if err != nil {
		return 0, err
	}
	return ch.ID, nil
}

// ApplyMembership registers the channel when the bot becomes an administrator
// and soft-deactivates it when the bot leaves or is removed
func (uc *UseCase) ApplyMembership(ctx context.Context, ev *domain.ChannelEvent) error {
	if ev.Platform != domain.PlatformTelegram {
		return fmt.Errorf("channel registry is keyed by telegram chats, got %s", ev.Platform)
	}

	if !ev.Active {
		changed, err := uc.repo.Deactivate(ctx, ev.ChatID)
		if err != nil {
			return err
		}
		if changed {
			uc.logger.Info().Int64("channel_id", ev.ChatID).Msg("channel deactivated")
		}
		uc.invalidate(ctx, ev.ChatID)
		return nil
	}

	ch := &entities.Channel{
		ID:       ev.ChatID,
		Title:    ev.Title,
		Username: ev.Username,
		IsActive: true,
	}

	if ev.Owner != nil && ev.Owner.ID != "" {
		ownerID, err := uc.users.RememberUser(ctx, ev.Platform, ev.Owner)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("channel_id", ev.ChatID).Msg("failed to record channel owner")
		} else {
			ch.OwnerID = &ownerID
		}
	}

	if err := uc.repo.Upsert(ctx, ch); err != nil {
		return err
	}

	uc.logger.Info().
		Int64("channel_id", ch.ID).
		Str("title", ch.Title).
		Msg("channel registered")
	// a re-activated channel may have cached misses for its links
	uc.invalidate(ctx, ev.ChatID)
	return nil
}

// LinkMaxChat binds a MAX chat to a channel so MAX joins can be attributed
func (uc *UseCase) LinkMaxChat(ctx context.Context, channelID, maxChatID int64) error {
	if err := uc.repo.SetMaxChatID(ctx, channelID, maxChatID); err != nil {
		return err
	}
	uc.logger.Info().Int64("channel_id", channelID).Int64("max_chat_id", maxChatID).Msg("max chat linked")
	return nil
}

// UpdateAnalytics replaces the analytics config returned with link resolutions
func (uc *UseCase) UpdateAnalytics(ctx context.Context, channelID int64, cfg entities.AnalyticsConfig) error {
	if err := uc.repo.SetAnalyticsConfig(ctx, channelID, cfg); err != nil {
		return err
	}
	uc.invalidate(ctx, channelID)
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context, channelID int64) {
	if err := uc.cache.InvalidateChannel(ctx, channelID); err != nil {
		uc.logger.Warn().Err(err).Int64("channel_id", channelID).Msg("failed to invalidate link cache")
	}
}

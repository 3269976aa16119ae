package deps

import (
	"context"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/channel/entities"
)

// ChannelRepository defines data access for channels
type ChannelRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Channel, error)
	GetByMaxChatID(ctx context.Context, maxChatID int64) (*entities.Channel, error)
	// Upsert creates the channel or refreshes title, username, owner and activity
	Upsert(ctx context.Context, ch *entities.Channel) error
	// Deactivate reports whether an active channel was switched off
	Deactivate(ctx context.Context, id int64) (bool, error)
	SetMaxChatID(ctx context.Context, id, maxChatID int64) error
	SetAnalyticsConfig(ctx context.Context, id int64, cfg entities.AnalyticsConfig) error
}

// LinkCacheInvalidator drops cached link resolutions of a channel
type LinkCacheInvalidator interface {
	InvalidateChannel(ctx context.Context, channelID int64) error
}

// UserRegistrar records the user who added the bot
type UserRegistrar interface {
	RememberUser(ctx context.Context, p domain.Platform, user *domain.SessionUser) (int64, error)
}

// ChannelService is the channel registry used by the other domains
type ChannelService interface {
	// GetActive returns domain.ErrUnknownChannel for missing and inactive channels
	GetActive(ctx context.Context, id int64) (*entities.Channel, error)
	// ResolveMaxChat maps a MAX chat to its channel id
	ResolveMaxChat(ctx context.Context, maxChatID int64) (int64, error)
	// ApplyMembership reacts to the bot being added to or removed from a channel
	ApplyMembership(ctx context.Context, ev *domain.ChannelEvent) error
	LinkMaxChat(ctx context.Context, channelID, maxChatID int64) error
	UpdateAnalytics(ctx context.Context, channelID int64, cfg entities.AnalyticsConfig) error
}

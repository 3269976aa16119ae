package deps

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	"github.com/Conte777/TrackFlow/internal/domain/platform"
)

// Platforms selects a platform by its URL name
type Platforms interface {
	Lookup(name string) (platform.Platform, error)
	Get(p domain.Platform) (platform.Platform, error)
}

// ChannelRegistry reacts to the bot's own membership changes
type ChannelRegistry interface {
	ApplyMembership(ctx context.Context, ev *domain.ChannelEvent) error
}

// Matcher attributes join events
type Matcher interface {
	Match(ctx context.Context, ev *domain.JoinEvent) (entities.Outcome, error)
}

// IngestService accepts raw platform updates
type IngestService interface {
	// HandleWebhook fails only for unknown platforms and bad signatures;
	// every other problem is logged and the delivery acknowledged
	HandleWebhook(ctx context.Context, name string, header func(string) string, body []byte) error
	// HandleUpdate processes an update received by long polling
	HandleUpdate(ctx context.Context, update *models.Update)
}

package deps

import (
	"context"

	"github.com/Conte777/TrackFlow/internal/domain"
	channelentities "github.com/Conte777/TrackFlow/internal/domain/channel/entities"
	"github.com/Conte777/TrackFlow/internal/domain/link/entities"
)

// LinkRepository defines data access for tracking links
type LinkRepository interface {
	// Resolve joins the link with its channel; domain.ErrUnknownLink if absent
	Resolve(ctx context.Context, shortCode string) (*entities.Resolution, error)
	// InsertIfAbsent reports false when the short code is already taken
	InsertIfAbsent(ctx context.Context, link *entities.TrackingLink) (bool, error)
	Delete(ctx context.Context, shortCode string) (*entities.TrackingLink, error)
}

// LinkCache caches resolutions of links of active channels
type LinkCache interface {
	// Get returns nil without error on a miss
	Get(ctx context.Context, shortCode string) (*entities.Resolution, error)
	Set(ctx context.Context, res *entities.Resolution) error
	Delete(ctx context.Context, shortCode string) error
	InvalidateChannel(ctx context.Context, channelID int64) error
}

// ChannelReader loads active channels
type ChannelReader interface {
	GetActive(ctx context.Context, id int64) (*channelentities.Channel, error)
}

// LinkService is the link registry used by the other domains
type LinkService interface {
	// Resolve returns domain.ErrUnknownLink for unknown codes and inactive channels
	Resolve(ctx context.Context, shortCode string) (*entities.Resolution, error)
	Create(ctx context.Context, channelID int64, utm domain.UTM) (*entities.TrackingLink, error)
	Delete(ctx context.Context, shortCode string) error
}

package deps

import (
	"context"

	"github.com/google/uuid"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	channelentities "github.com/Conte777/TrackFlow/internal/domain/channel/entities"
	linkentities "github.com/Conte777/TrackFlow/internal/domain/link/entities"
	"github.com/Conte777/TrackFlow/internal/domain/platform"
	visitentities "github.com/Conte777/TrackFlow/internal/domain/visit/entities"
)

// SubscriptionRepository defines data access for the matcher
type SubscriptionRepository interface {
	// LatestVisitByUserID returns nil when no unattributed visit matches
	LatestVisitByUserID(ctx context.Context, q entities.VisitQuery) (*visitentities.Visit, error)
	// LatestVisitByUsername only considers visits recorded without a user id
	LatestVisitByUsername(ctx context.Context, q entities.VisitQuery) (*visitentities.Visit, error)
	// HintedVisit returns the visit if it satisfies the same predicate as the lookups
	HintedVisit(ctx context.Context, id uuid.UUID, q entities.VisitQuery) (*visitentities.Visit, error)
	// InsertIfAbsent reports false for an existing (channel, platform, user);
	// errors.ErrVisitTaken when the visit is already referenced
	InsertIfAbsent(ctx context.Context, s *entities.Subscription) (bool, error)
	IsSubscribed(ctx context.Context, channelID int64, p domain.Platform, externalUserID string) (bool, error)
}

// ChannelReader loads active channels
type ChannelReader interface {
	GetActive(ctx context.Context, id int64) (*channelentities.Channel, error)
}

// LinkResolver resolves short codes of active links
type LinkResolver interface {
	Resolve(ctx context.Context, shortCode string) (*linkentities.Resolution, error)
}

// Identifier establishes who is calling
type Identifier interface {
	Identify(ctx context.Context, p domain.Platform, sessionToken string, hint domain.Identity) (*domain.Identity, error)
}

// Platforms selects a platform implementation
type Platforms interface {
	Get(p domain.Platform) (platform.Platform, error)
}

// EventPublisher hands new subscriptions to the event stream without blocking
type EventPublisher interface {
	Publish(ev *entities.SubscriptionCreated)
}

// EventProducer writes one event to the broker
type EventProducer interface {
	// Enabled is false when no broker is configured
	Enabled() bool
	SendSubscriptionCreated(ctx context.Context, ev *entities.SubscriptionCreated) error
}

// Matcher attributes join events
type Matcher interface {
	Match(ctx context.Context, ev *domain.JoinEvent) (entities.Outcome, error)
}

// SubscribeInput is a subscription reported by the mini-app
type SubscribeInput struct {
	ShortCode    string
	SessionToken string
	Platform     domain.Platform
	Hint         domain.Identity
	VisitID      *uuid.UUID
}

// CheckInput asks whether a user is subscribed
type CheckInput struct {
	ChannelID      int64
	ExternalUserID string
	Platform       domain.Platform
}

// AttributionService is used by the HTTP layer
type AttributionService interface {
	Subscribe(ctx context.Context, in SubscribeInput) (entities.Outcome, error)
	CheckSubscription(ctx context.Context, in CheckInput) (bool, error)
}

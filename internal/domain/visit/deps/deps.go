package deps

import (
	"context"

	"github.com/Conte777/TrackFlow/internal/domain"
	linkentities "github.com/Conte777/TrackFlow/internal/domain/link/entities"
	"github.com/Conte777/TrackFlow/internal/domain/visit/entities"
)

// VisitRepository persists visits
type VisitRepository interface {
	Create(ctx context.Context, v *entities.Visit) error
}

// LinkResolver resolves short codes of active links
type LinkResolver interface {
	Resolve(ctx context.Context, shortCode string) (*linkentities.Resolution, error)
}

// Identifier establishes who opened the mini-app
type Identifier interface {
	Identify(ctx context.Context, p domain.Platform, sessionToken string, hint domain.Identity) (*domain.Identity, error)
}

// RecordInput is a mini-app open as received from the client
type RecordInput struct {
	ShortCode    string
	SessionToken string
	Platform     domain.Platform
	Hint         domain.Identity
	IP           string
	UserAgent    string
}

// VisitService records visits
type VisitService interface {
	Record(ctx context.Context, in RecordInput) (*entities.Visit, *linkentities.Resolution, error)
}

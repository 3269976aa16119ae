package deps

import (
	"context"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/auth/entities"
)

// UserRepository persists users keyed by (platform, external id)
type UserRepository interface {
	// Upsert inserts or refreshes the user and returns its id
	Upsert(ctx context.Context, user *entities.User) (int64, error)
}

// SessionKeys resolves the bot token that signs a platform's init data
type SessionKeys interface {
	SessionToken(p domain.Platform) (string, error)
	// RequiresSession reports whether callers on p must present init data
	RequiresSession(p domain.Platform) (bool, error)
}

// Authenticator verifies mini-app sessions
type Authenticator interface {
	// Authenticate verifies the session token and returns the session identity
	Authenticate(ctx context.Context, p domain.Platform, sessionToken string) (*domain.Identity, error)
	// Identify returns the session identity when the platform requires a
	// session, and the caller's hint otherwise
	Identify(ctx context.Context, p domain.Platform, sessionToken string, hint domain.Identity) (*domain.Identity, error)
	// RememberUser upserts a user seen outside a session, returning its id
	RememberUser(ctx context.Context, p domain.Platform, user *domain.SessionUser) (int64, error)
}

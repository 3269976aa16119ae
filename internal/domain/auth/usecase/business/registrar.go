package business

import (
	"context"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/auth/deps"
	"github.com/Conte777/TrackFlow/internal/domain/auth/entities"
)

// Registrar records platform users seen with or without a session
type Registrar struct {
	users deps.UserRepository
}

// NewRegistrar creates a user registrar
func NewRegistrar(users deps.UserRepository) *Registrar {
	return &Registrar{users: users}
}

// RememberUser upserts a platform user and returns its id
func (r *Registrar) RememberUser(ctx context.Context, p domain.Platform, user *domain.SessionUser) (int64, error) {
	return r.users.Upsert(ctx, &entities.User{
		Platform:     p.String(),
		ExternalID:   string(user.ID),
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		LanguageCode: user.LanguageCode,
	})
}

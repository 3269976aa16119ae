package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/auth/deps"
	"github.com/Conte777/TrackFlow/internal/domain/auth/initdata"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

// UseCase authenticates mini-app sessions and keeps the users table current
type UseCase struct {
	*Registrar

	keys    deps.SessionKeys
	maxAge  time.Duration
	relaxed bool
	now     func() time.Time
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewUseCase creates the authenticator
func NewUseCase(
	keys deps.SessionKeys,
	users deps.UserRepository,
	authCfg *config.AuthConfig,
	svcCfg *config.ServiceConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	log := logger.With().Str("component", "authenticator").Logger()

	relaxed := authCfg.VerificationRelaxed(svcCfg)
	switch {
	case authCfg.SkipVerify && !relaxed:
		log.Warn().Msg("AUTH_SKIP_VERIFY is ignored in production")
	case relaxed:
		log.Warn().Msg("Signature verification is DISABLED, payload shape is still validated")
	}

	return &UseCase{
		Registrar: NewRegistrar(users),
		keys:      keys,
		maxAge:    authCfg.MaxAge,
		relaxed:   relaxed,
		now:       time.Now,
		metrics:   m,
		logger:    log,
	}
}

// Authenticate verifies init data signed with the platform's bot token
func (uc *UseCase) Authenticate(ctx context.Context, p domain.Platform, sessionToken string) (*domain.Identity, error) {
	user, err := uc.verify(p, sessionToken)
	if err != nil {
		reason := "invalid_signature"
		if errors.Is(err, domain.ErrStalePayload) {
			reason = "stale_payload"
		}
		uc.metrics.RecordAuthFailure(p.String(), reason)
		uc.logger.Debug().Err(err).Str("platform", p.String()).Msg("session rejected")
		return nil, err
	}

	if _, err := uc.RememberUser(ctx, p, user); err != nil {
		// the session itself is valid; a failed profile refresh must not reject it
		uc.logger.Warn().Err(err).Str("platform", p.String()).Str("external_id", string(user.ID)).Msg("failed to upsert user")
	}

	return &domain.Identity{
		Platform:       p,
		ExternalUserID: string(user.ID),
		Username:       user.Username,
	}, nil
}

// Identify resolves who is calling. A verified session is authoritative
// over the hint; without a required session the hint is taken as given.
func (uc *UseCase) Identify(ctx context.Context, p domain.Platform, sessionToken string, hint domain.Identity) (*domain.Identity, error) {
	required, err := uc.keys.RequiresSession(p)
	if err != nil {
		return nil, err
	}

	if !required {
		if hint.ExternalUserID == "" && hint.Username == "" {
			return nil, pkgerrors.NewValidationError("externalUserId or username is required")
		}
		hint.Platform = p
		return &hint, nil
	}

	id, err := uc.Authenticate(ctx, p, sessionToken)
	if err != nil {
		return nil, err
	}

	if hint.ExternalUserID != "" && hint.ExternalUserID != id.ExternalUserID {
		uc.logger.Warn().
			Str("platform", p.String()).
			Str("session_user_id", id.ExternalUserID).
			Str("claimed_user_id", hint.ExternalUserID).
			Msg("request identity differs from session, using session")
	}
	return id, nil
}

func (uc *UseCase) verify(p domain.Platform, sessionToken string) (*domain.SessionUser, error) {
	if sessionToken == "" {
		return nil, fmt.Errorf("%w: session token is empty", domain.ErrInvalidSignature)
	}

	if uc.relaxed {
		return initdata.Parse(sessionToken)
	}

	botToken, err := uc.keys.SessionToken(p)
	if err != nil {
		return nil, err
	}

	return initdata.Verify(sessionToken, botToken, uc.maxAge, uc.now())
}

package business

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/TrackFlow/config"
	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/auth/entities"
	"github.com/Conte777/TrackFlow/internal/domain/auth/initdata"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
)

type mockKeys map[domain.Platform]string

func (m mockKeys) SessionToken(p domain.Platform) (string, error) {
	token, ok := m[p]
	if !ok {
		return "", domain.ErrUnknownPlatform
	}
	return token, nil
}

func (m mockKeys) RequiresSession(p domain.Platform) (bool, error) {
	token, ok := m[p]
	if !ok {
		return false, domain.ErrUnknownPlatform
	}
	return token != "", nil
}

type mockUserRepo struct {
	upserted []*entities.User
	err      error
}

func (m *mockUserRepo) Upsert(_ context.Context, user *entities.User) (int64, error) {
	m.upserted = append(m.upserted, user)
	return int64(len(m.upserted)), m.err
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func initData(token string, authDate time.Time) string {
	v := url.Values{}
	v.Set("user", `{"id":42,"username":"alice","first_name":"Alice"}`)
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	v.Set("hash", initdata.Sign(v, token))
	return v.Encode()
}

func newUseCase(repo *mockUserRepo, env string, skip bool) *UseCase {
	uc := NewUseCase(
		mockKeys{domain.PlatformTelegram: "tg-token", domain.PlatformMax: "max-token"},
		repo,
		&config.AuthConfig{MaxAge: time.Hour, SkipVerify: skip},
		&config.ServiceConfig{Environment: env},
		metrics.GetDefaultMetrics(),
		zerolog.Nop(),
	)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		platform domain.Platform
		token    string
		env      string
		skip     bool
		wantErr  error
	}{
		{name: "telegram session", platform: domain.PlatformTelegram, token: initData("tg-token", fixedNow), env: "development"},
		{name: "max session uses max token", platform: domain.PlatformMax, token: initData("max-token", fixedNow), env: "development"},
		{name: "cross platform token rejected", platform: domain.PlatformMax, token: initData("tg-token", fixedNow), env: "development", wantErr: domain.ErrInvalidSignature},
		{name: "stale", platform: domain.PlatformTelegram, token: initData("tg-token", fixedNow.Add(-3601*time.Second)), env: "development", wantErr: domain.ErrStalePayload},
		{name: "empty token", platform: domain.PlatformTelegram, token: "", env: "development", wantErr: domain.ErrInvalidSignature},
		{name: "relaxed accepts bad signature", platform: domain.PlatformTelegram, token: initData("wrong", fixedNow.Add(-48*time.Hour)), env: "development", skip: true},
		{name: "relaxed still checks shape", platform: domain.PlatformTelegram, token: "auth_date=1", env: "development", skip: true, wantErr: domain.ErrInvalidSignature},
		{name: "skip ignored in production", platform: domain.PlatformTelegram, token: initData("wrong", fixedNow), env: "production", skip: true, wantErr: domain.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{}
			uc := newUseCase(repo, tt.env, tt.skip)

			identity, err := uc.Authenticate(context.Background(), tt.platform, tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.upserted)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.platform, identity.Platform)
			assert.Equal(t, "42", identity.ExternalUserID)
			assert.Equal(t, "alice", identity.Username)
			require.Len(t, repo.upserted, 1)
			assert.Equal(t, tt.platform.String(), repo.upserted[0].Platform)
			assert.Equal(t, "Alice", repo.upserted[0].FirstName)
		})
	}
}

func TestAuthenticate_UpsertFailureDoesNotRejectSession(t *testing.T) {
	repo := &mockUserRepo{err: errors.New("db down")}
	uc := newUseCase(repo, "development", false)

	identity, err := uc.Authenticate(context.Background(), domain.PlatformTelegram, initData("tg-token", fixedNow))
	require.NoError(t, err)
	assert.Equal(t, "42", identity.ExternalUserID)
}

func TestIdentify(t *testing.T) {
	repo := &mockUserRepo{}
	uc := NewUseCase(
		mockKeys{domain.PlatformTelegram: "tg-token", domain.PlatformMax: ""},
		repo,
		&config.AuthConfig{MaxAge: time.Hour},
		&config.ServiceConfig{Environment: "production"},
		metrics.GetDefaultMetrics(),
		zerolog.Nop(),
	)
	uc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	// the session wins over a conflicting claim
	id, err := uc.Identify(ctx, domain.PlatformTelegram, initData("tg-token", fixedNow), domain.Identity{ExternalUserID: "999"})
	require.NoError(t, err)
	assert.Equal(t, "42", id.ExternalUserID)
	assert.Equal(t, "alice", id.Username)

	_, err = uc.Identify(ctx, domain.PlatformTelegram, "", domain.Identity{ExternalUserID: "42"})
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	// without a bot token the hint is used as is
	id, err = uc.Identify(ctx, domain.PlatformMax, "", domain.Identity{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformMax, id.Platform)
	assert.Equal(t, "", id.ExternalUserID)
	assert.Equal(t, "bob", id.Username)

	_, err = uc.Identify(ctx, domain.PlatformMax, "", domain.Identity{})
	var verr *pkgerrors.ValidationError
	assert.True(t, errors.As(err, &verr))
}

package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/TrackFlow/internal/domain"
	linkentities "github.com/Conte777/TrackFlow/internal/domain/link/entities"
	"github.com/Conte777/TrackFlow/internal/domain/visit/deps"
	"github.com/Conte777/TrackFlow/internal/domain/visit/entities"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
)

type mockRepo struct {
	visits []*entities.Visit
	err    error
}

func (m *mockRepo) Create(_ context.Context, v *entities.Visit) error {
	if m.err != nil {
		return m.err
	}
	m.visits = append(m.visits, v)
	return nil
}

type mockLinks struct{}

func (mockLinks) Resolve(_ context.Context, code string) (*linkentities.Resolution, error) {
	if code != "ab12cd34" {
		return nil, domain.ErrUnknownLink
	}
	return &linkentities.Resolution{
		LinkID:        7,
		ShortCode:     code,
		ChannelID:     -1001,
		ChannelActive: true,
		UTM:           domain.UTM{Source: "vk", Medium: "post"},
	}, nil
}

type mockIdentifier struct {
	identity *domain.Identity
	err      error
}

func (m *mockIdentifier) Identify(_ context.Context, p domain.Platform, _ string, _ domain.Identity) (*domain.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	id := *m.identity
	id.Platform = p
	return &id, nil
}

func TestUseCase_Record(t *testing.T) {
	repo := &mockRepo{}
	auth := &mockIdentifier{identity: &domain.Identity{ExternalUserID: "555", Username: "alice"}}
	uc := NewUseCase(repo, mockLinks{}, auth, metrics.GetDefaultMetrics(), zerolog.Nop())
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	uc.now = func() time.Time { return now }

	before := testutil.ToFloat64(metrics.GetDefaultMetrics().VisitsRecorded.WithLabelValues("telegram"))

	v, link, err := uc.Record(context.Background(), deps.RecordInput{
		ShortCode:    "ab12cd34",
		SessionToken: "query_id=1",
		Platform:     domain.PlatformTelegram,
		Hint:         domain.Identity{ExternalUserID: "999"},
		IP:           "203.0.113.7",
		UserAgent:    "Mozilla/5.0",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(-1001), link.ChannelID)
	require.Len(t, repo.visits, 1)
	assert.Equal(t, v, repo.visits[0])
	assert.Equal(t, "555", v.ExternalUserID, "session identity wins")
	assert.Equal(t, "alice", v.Username)
	assert.Equal(t, int64(-1001), v.ChannelID)
	require.NotNil(t, v.LinkID)
	assert.Equal(t, int64(7), *v.LinkID)
	assert.Equal(t, domain.UTM{Source: "vk", Medium: "post"}, v.UTM)
	assert.Equal(t, "203.0.113.7", v.IP)
	assert.Equal(t, time.UTC, v.CreatedAt.Location())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.GetDefaultMetrics().VisitsRecorded.WithLabelValues("telegram")))
}

func TestUseCase_Record_RepeatedOpensAreNotDeduplicated(t *testing.T) {
	repo := &mockRepo{}
	auth := &mockIdentifier{identity: &domain.Identity{ExternalUserID: "555"}}
	uc := NewUseCase(repo, mockLinks{}, auth, metrics.GetDefaultMetrics(), zerolog.Nop())

	in := deps.RecordInput{ShortCode: "ab12cd34", Platform: domain.PlatformTelegram}
	first, _, err := uc.Record(context.Background(), in)
	require.NoError(t, err)
	second, _, err := uc.Record(context.Background(), in)
	require.NoError(t, err)

	assert.Len(t, repo.visits, 2)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUseCase_Record_Errors(t *testing.T) {
	tests := []struct {
		name    string
		authErr error
		code    string
		repoErr error
		want    error
	}{
		{name: "bad session", authErr: domain.ErrInvalidSignature, code: "ab12cd34", want: domain.ErrInvalidSignature},
		{name: "stale session", authErr: domain.ErrStalePayload, code: "ab12cd34", want: domain.ErrStalePayload},
		{name: "unknown link", code: "zzzzzzzz", want: domain.ErrUnknownLink},
		{name: "store failure", code: "ab12cd34", repoErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{err: tt.repoErr}
			auth := &mockIdentifier{identity: &domain.Identity{ExternalUserID: "555"}, err: tt.authErr}
			uc := NewUseCase(repo, mockLinks{}, auth, metrics.GetDefaultMetrics(), zerolog.Nop())

			_, _, err := uc.Record(context.Background(), deps.RecordInput{ShortCode: tt.code, Platform: domain.PlatformTelegram})
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.Empty(t, repo.visits)
		})
	}
}

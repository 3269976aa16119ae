package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/dto"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/entities"
	attrerrors "github.com/Conte777/TrackFlow/internal/domain/attribution/errors"
)

type mockService struct {
	subscribeIn deps.SubscribeInput
	checkIn     deps.CheckInput
	outcome     entities.Outcome
	subscribed  bool
	err         error
}

func (m *mockService) Subscribe(_ context.Context, in deps.SubscribeInput) (entities.Outcome, error) {
	m.subscribeIn = in
	return m.outcome, m.err
}

func (m *mockService) CheckSubscription(_ context.Context, in deps.CheckInput) (bool, error) {
	m.checkIn = in
	return m.subscribed, m.err
}

func TestHandler_Subscribe(t *testing.T) {
	for _, outcome := range []entities.Outcome{entities.OutcomeAttributed, entities.OutcomeOrganic, entities.OutcomeDuplicate} {
		t.Run(string(outcome), func(t *testing.T) {
			svc := &mockService{outcome: outcome}
			h := NewHandler(svc, zerolog.Nop())

			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetBodyString(`{"shortCode":"ab12cd34","sessionToken":"query_id=1","externalUserId":"555","visitId":"0190e5a4-7b2c-7c3d-8e9f-0a1b2c3d4e5f","platform":"telegram"}`)

			h.Subscribe(ctx)

			require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
			assert.JSONEq(t, `{"success":true}`, string(ctx.Response.Body()))
			assert.Equal(t, "ab12cd34", svc.subscribeIn.ShortCode)
			assert.Equal(t, "555", svc.subscribeIn.Hint.ExternalUserID)
			require.NotNil(t, svc.subscribeIn.VisitID)
			assert.Equal(t, "0190e5a4-7b2c-7c3d-8e9f-0a1b2c3d4e5f", svc.subscribeIn.VisitID.String())
		})
	}
}

func TestHandler_Subscribe_Errors(t *testing.T) {
	valid := `{"shortCode":"ab12cd34","externalUserId":555,"platform":"max"}`

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "malformed json", body: `{"shortCode":`, wantStatus: fasthttp.StatusBadRequest},
		{name: "bad visit id", body: `{"shortCode":"ab12cd34","visitId":"nope","platform":"max"}`, wantStatus: fasthttp.StatusBadRequest},
		{name: "missing platform", body: `{"shortCode":"ab12cd34"}`, wantStatus: fasthttp.StatusBadRequest},
		{name: "missing user", body: valid, serviceErr: attrerrors.ErrMissingUserID, wantStatus: fasthttp.StatusBadRequest},
		{name: "bad session", body: valid, serviceErr: domain.ErrInvalidSignature, wantStatus: fasthttp.StatusUnauthorized},
		{name: "unknown link", body: valid, serviceErr: domain.ErrUnknownLink, wantStatus: fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&mockService{err: tt.serviceErr}, zerolog.Nop())
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetBodyString(tt.body)

			h.Subscribe(ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
		})
	}
}

func TestHandler_CheckSubscription(t *testing.T) {
	svc := &mockService{subscribed: true}
	h := NewHandler(svc, zerolog.Nop())

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/check-subscription?channel=-1001&externalUserId=555&platform=max")

	h.CheckSubscription(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var resp dto.CheckSubscriptionResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.Subscribed)
	assert.Equal(t, deps.CheckInput{ChannelID: -1001, ExternalUserID: "555", Platform: domain.PlatformMax}, svc.checkIn)
}

func TestHandler_CheckSubscription_Errors(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		serviceErr error
		wantStatus int
	}{
		{name: "missing channel", uri: "/check-subscription?externalUserId=555&platform=max", wantStatus: fasthttp.StatusBadRequest},
		{name: "bad platform", uri: "/check-subscription?channel=1&externalUserId=555&platform=icq", wantStatus: fasthttp.StatusBadRequest},
		{name: "empty user", uri: "/check-subscription?channel=1&platform=max", serviceErr: attrerrors.ErrInvalidQuery, wantStatus: fasthttp.StatusBadRequest},
		{name: "upstream down", uri: "/check-subscription?channel=1&externalUserId=555&platform=telegram", serviceErr: domain.ErrUpstreamUnavailable, wantStatus: fasthttp.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&mockService{err: tt.serviceErr}, zerolog.Nop())
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetRequestURI(tt.uri)

			h.CheckSubscription(ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
		})
	}
}

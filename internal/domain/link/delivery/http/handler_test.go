package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain"
	channelentities "github.com/Conte777/TrackFlow/internal/domain/channel/entities"
	"github.com/Conte777/TrackFlow/internal/domain/link/dto"
	"github.com/Conte777/TrackFlow/internal/domain/link/entities"
)

type mockService struct {
	resolveFn func(code string) (*entities.Resolution, error)
	createFn  func(channelID int64, utm domain.UTM) (*entities.TrackingLink, error)
	deleteFn  func(code string) error
}

func (m *mockService) Resolve(_ context.Context, code string) (*entities.Resolution, error) {
	return m.resolveFn(code)
}

func (m *mockService) Create(_ context.Context, channelID int64, utm domain.UTM) (*entities.TrackingLink, error) {
	return m.createFn(channelID, utm)
}

func (m *mockService) Delete(_ context.Context, code string) error {
	return m.deleteFn(code)
}

func TestHandler_Resolve(t *testing.T) {
	svc := &mockService{resolveFn: func(code string) (*entities.Resolution, error) {
		if code != "ab12cd34" {
			return nil, domain.ErrUnknownLink
		}
		return &entities.Resolution{
			ShortCode:       code,
			ChannelID:       -1001,
			ChannelTitle:    "Daily",
			ChannelUsername: "daily",
			ChannelActive:   true,
			UTM:             domain.UTM{Source: "vk"},
			AnalyticsConfig: channelentities.AnalyticsConfig{YandexMetrikaID: "98765"},
		}, nil
	}}
	h := NewHandler(svc, zerolog.Nop())

	tests := []struct {
		name         string
		code         string
		query        string
		wantStatus   int
		wantPlatform domain.Platform
	}{
		{name: "default platform", code: "ab12cd34", wantStatus: fasthttp.StatusOK, wantPlatform: domain.PlatformTelegram},
		{name: "max", code: "ab12cd34", query: "platform=max", wantStatus: fasthttp.StatusOK, wantPlatform: domain.PlatformMax},
		{name: "bad platform", code: "ab12cd34", query: "platform=icq", wantStatus: fasthttp.StatusBadRequest},
		{name: "unknown", code: "zzzzzzzz", wantStatus: fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetRequestURI("/link/" + tt.code + "?" + tt.query)
			ctx.SetUserValue("shortCode", tt.code)

			h.Resolve(ctx)

			require.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			if tt.wantStatus != fasthttp.StatusOK {
				return
			}

			var resp dto.ResolveLinkResponse
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
			assert.Equal(t, int64(-1001), resp.Channel.ID)
			assert.Equal(t, "Daily", resp.Channel.Title)
			assert.Equal(t, tt.wantPlatform, resp.Platform)
			assert.Equal(t, "vk", resp.UTM.Source)
			assert.Equal(t, "98765", resp.AnalyticsConfig.YandexMetrikaID)
		})
	}
}

func TestHandler_Create(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockService{createFn: func(channelID int64, utm domain.UTM) (*entities.TrackingLink, error) {
		if channelID != -1001 {
			return nil, domain.ErrUnknownChannel
		}
		return &entities.TrackingLink{ChannelID: channelID, ShortCode: "ab12cd34", UTM: utm, CreatedAt: now}, nil
	}}
	h := NewHandler(svc, zerolog.Nop())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "created", body: `{"channelId":-1001,"utm":{"source":"vk","campaign":"spring"}}`, wantStatus: fasthttp.StatusCreated},
		{name: "missing channel", body: `{"utm":{"source":"vk"}}`, wantStatus: fasthttp.StatusBadRequest},
		{name: "not json", body: `channel=1`, wantStatus: fasthttp.StatusBadRequest},
		{name: "unknown channel", body: `{"channelId":-42}`, wantStatus: fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetBodyString(tt.body)

			h.Create(ctx)

			require.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			if tt.wantStatus != fasthttp.StatusCreated {
				return
			}

			var resp dto.CreateLinkResponse
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
			assert.Equal(t, "ab12cd34", resp.ShortCode)
			assert.Equal(t, domain.UTM{Source: "vk", Campaign: "spring"}, resp.UTM)
			assert.True(t, now.Equal(resp.CreatedAt))
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	svc := &mockService{deleteFn: func(code string) error {
		if code != "ab12cd34" {
			return domain.ErrUnknownLink
		}
		return nil
	}}
	h := NewHandler(svc, zerolog.Nop())

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("shortCode", "ab12cd34")
	h.Delete(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = &fasthttp.RequestCtx{}
	ctx.SetUserValue("shortCode", "zzzzzzzz")
	h.Delete(ctx)
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

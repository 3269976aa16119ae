package http

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain/channel/deps"
	"github.com/Conte777/TrackFlow/internal/domain/channel/dto"
	"github.com/Conte777/TrackFlow/internal/domain/channel/entities"
	channelerrors "github.com/Conte777/TrackFlow/internal/domain/channel/errors"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Handler serves channel admin endpoints
type Handler struct {
	service deps.ChannelService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a channel handler
func NewHandler(service deps.ChannelService, logger zerolog.Logger) *Handler {
	log := logger.With().Str("handler", "channel").Logger()
	return &Handler{
		service: service,
		mapper:  pkgerrors.NewMapper(log),
		logger:  log,
	}
}

// LinkMaxChat handles POST /api/v1/channels/{channelId}/max-chat
func (h *Handler) LinkMaxChat(ctx *fasthttp.RequestCtx) {
	channelID, err := channelIDParam(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	var req dto.LinkMaxChatRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, err)
		return
	}

	if err := h.service.LinkMaxChat(ctx, channelID, req.MaxChatID); err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteSuccess(ctx)
}

// UpdateAnalytics handles PUT /api/v1/channels/{channelId}/analytics
func (h *Handler) UpdateAnalytics(ctx *fasthttp.RequestCtx) {
	channelID, err := channelIDParam(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	var req dto.UpdateAnalyticsRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, err)
		return
	}

	cfg := entities.AnalyticsConfig{YandexMetrikaID: req.YandexMetrikaID, VKPixelID: req.VKPixelID}
	if err := h.service.UpdateAnalytics(ctx, channelID, cfg); err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteSuccess(ctx)
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteError(ctx, status, msg)
}

func channelIDParam(ctx *fasthttp.RequestCtx) (int64, error) {
	raw, _ := ctx.UserValue("channelId").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, channelerrors.ErrInvalidChannelID
	}
	return id, nil
}

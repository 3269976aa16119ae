package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/link/deps"
	"github.com/Conte777/TrackFlow/internal/domain/link/dto"
	linkerrors "github.com/Conte777/TrackFlow/internal/domain/link/errors"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Handler serves link resolution and link admin endpoints
type Handler struct {
	service deps.LinkService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a link handler
func NewHandler(service deps.LinkService, logger zerolog.Logger) *Handler {
	log := logger.With().Str("handler", "link").Logger()
	return &Handler{
		service: service,
		mapper:  pkgerrors.NewMapper(log),
		logger:  log,
	}
}

// Resolve handles GET /link/{shortCode}. The optional platform query
// parameter names the mini-app host and is echoed back.
func (h *Handler) Resolve(ctx *fasthttp.RequestCtx) {
	platform := domain.PlatformTelegram
	if raw := string(ctx.QueryArgs().Peek("platform")); raw != "" {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			h.writeError(ctx, linkerrors.ErrInvalidPlatform)
			return
		}
		platform = p
	}

	code, _ := ctx.UserValue("shortCode").(string)
	res, err := h.service.Resolve(ctx, code)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteOK(ctx, dto.ResolveLinkResponse{
		Channel: dto.ChannelInfo{
			ID:       res.ChannelID,
			Title:    res.ChannelTitle,
			Username: res.ChannelUsername,
		},
		Platform:        platform,
		UTM:             res.UTM,
		AnalyticsConfig: res.AnalyticsConfig,
	})
}

// Create handles POST /api/v1/links
func (h *Handler) Create(ctx *fasthttp.RequestCtx) {
	var req dto.CreateLinkRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, err)
		return
	}

	link, err := h.service.Create(ctx, req.ChannelID, req.UTM.ToDomain())
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusCreated, dto.CreateLinkResponse{
		ShortCode: link.ShortCode,
		ChannelID: link.ChannelID,
		UTM:       link.UTM,
		CreatedAt: link.CreatedAt,
	})
}

// Delete handles DELETE /api/v1/links/{shortCode}
func (h *Handler) Delete(ctx *fasthttp.RequestCtx) {
	code, _ := ctx.UserValue("shortCode").(string)
	if err := h.service.Delete(ctx, code); err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteSuccess(ctx)
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteError(ctx, status, msg)
}

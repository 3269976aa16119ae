package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/visit/deps"
	"github.com/Conte777/TrackFlow/internal/domain/visit/dto"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Handler serves the mini-app visit endpoint
type Handler struct {
	service deps.VisitService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a visit handler
func NewHandler(service deps.VisitService, logger zerolog.Logger) *Handler {
	log := logger.With().Str("handler", "visit").Logger()
	return &Handler{
		service: service,
		mapper:  pkgerrors.NewMapper(log),
		logger:  log,
	}
}

// Record handles POST /visit
func (h *Handler) Record(ctx *fasthttp.RequestCtx) {
	var req dto.RecordVisitRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, err)
		return
	}

	platform := domain.Platform(req.Platform)
	visit, link, err := h.service.Record(ctx, deps.RecordInput{
		ShortCode:    req.ShortCode,
		SessionToken: req.SessionToken,
		Platform:     platform,
		Hint: domain.Identity{
			Platform:       platform,
			ExternalUserID: string(req.ExternalUserID),
			Username:       req.Username,
		},
		IP:        httputil.ClientIP(ctx),
		UserAgent: string(ctx.UserAgent()),
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteOK(ctx, dto.RecordVisitResponse{
		VisitID:         visit.ID,
		Platform:        platform,
		AnalyticsConfig: link.AnalyticsConfig,
	})
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteError(ctx, status, msg)
}

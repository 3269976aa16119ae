package http

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/deps"
	"github.com/Conte777/TrackFlow/internal/domain/attribution/dto"
	attrerrors "github.com/Conte777/TrackFlow/internal/domain/attribution/errors"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Handler serves the mini-app subscription endpoints
type Handler struct {
	service deps.AttributionService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates an attribution handler
func NewHandler(service deps.AttributionService, logger zerolog.Logger) *Handler {
	log := logger.With().Str("handler", "attribution").Logger()
	return &Handler{
		service: service,
		mapper:  pkgerrors.NewMapper(log),
		logger:  log,
	}
}

// Subscribe handles POST /subscribe. Created and duplicate subscriptions
// both answer {"success":true}.
func (h *Handler) Subscribe(ctx *fasthttp.RequestCtx) {
	var req dto.SubscribeRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, err)
		return
	}

	platform := domain.Platform(req.Platform)
	outcome, err := h.service.Subscribe(ctx, deps.SubscribeInput{
		ShortCode:    req.ShortCode,
		SessionToken: req.SessionToken,
		Platform:     platform,
		Hint: domain.Identity{
			Platform:       platform,
			ExternalUserID: string(req.ExternalUserID),
			Username:       req.Username,
		},
		VisitID: req.VisitID,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	h.logger.Debug().Str("outcome", string(outcome)).Str("short_code", req.ShortCode).Msg("subscribe handled")
	httputil.WriteSuccess(ctx)
}

// CheckSubscription handles GET /check-subscription?channel&externalUserId&platform
func (h *Handler) CheckSubscription(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()

	channelID, err := strconv.ParseInt(string(args.Peek("channel")), 10, 64)
	if err != nil {
		h.writeError(ctx, attrerrors.ErrInvalidQuery)
		return
	}
	platform, err := domain.ParsePlatform(string(args.Peek("platform")))
	if err != nil {
		h.writeError(ctx, attrerrors.ErrInvalidQuery)
		return
	}

	subscribed, err := h.service.CheckSubscription(ctx, deps.CheckInput{
		ChannelID:      channelID,
		ExternalUserID: string(args.Peek("externalUserId")),
		Platform:       platform,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteOK(ctx, dto.CheckSubscriptionResponse{Subscribed: subscribed})
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteError(ctx, status, msg)
}

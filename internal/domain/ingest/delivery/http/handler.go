package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain/ingest/deps"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Handler accepts platform webhooks
type Handler struct {
	service deps.IngestService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a webhook handler
func NewHandler(service deps.IngestService, logger zerolog.Logger) *Handler {
	log := logger.With().Str("handler", "webhook").Logger()
	return &Handler{
		service: service,
		mapper:  pkgerrors.NewMapper(log),
		logger:  log,
	}
}

// Webhook handles POST /webhook/{platform}. Deliveries are acknowledged
// once processed so platforms do not redeliver events we chose to drop.
func (h *Handler) Webhook(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("platform").(string)
	header := func(key string) string {
		return string(ctx.Request.Header.Peek(key))
	}

	if err := h.service.HandleWebhook(ctx, name, header, ctx.PostBody()); err != nil {
		status, msg := h.mapper.MapErrorToHTTP(err)
		httputil.WriteError(ctx, status, msg)
		return
	}

	httputil.WriteSuccess(ctx)
}

package http

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/TrackFlow/internal/domain/stats/deps"
	"github.com/Conte777/TrackFlow/internal/domain/stats/entities"
	statserrors "github.com/Conte777/TrackFlow/internal/domain/stats/errors"
	pkgerrors "github.com/Conte777/TrackFlow/pkg/errors"
	"github.com/Conte777/TrackFlow/pkg/httputil"
)

// Handler serves channel rollups
type Handler struct {
	service deps.StatsService
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a stats handler
func NewHandler(service deps.StatsService, logger zerolog.Logger) *Handler {
	log := logger.With().Str("handler", "stats").Logger()
	return &Handler{
		service: service,
		mapper:  pkgerrors.NewMapper(log),
		logger:  log,
	}
}

// Report handles GET /api/v1/stats/{channelId}?from&to&dimension
func (h *Handler) Report(ctx *fasthttp.RequestCtx) {
	raw, _ := ctx.UserValue("channelId").(string)
	channelID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(ctx, statserrors.ErrInvalidChannel)
		return
	}

	args := ctx.QueryArgs()
	from, err := parseTime(string(args.Peek("from")), false)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	to, err := parseTime(string(args.Peek("to")), true)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	report, err := h.service.Report(ctx, entities.Query{
		ChannelID: channelID,
		From:      from,
		To:        to,
		Dimension: string(args.Peek("dimension")),
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	httputil.WriteOK(ctx, report)
}

// parseTime accepts RFC3339 or a bare date. A bare upper bound covers the whole day.
func parseTime(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, statserrors.ErrInvalidTime
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteError(ctx, status, msg)
}

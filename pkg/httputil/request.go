package httputil

import (
	"strings"

	"github.com/valyala/fasthttp"
)

// ClientIP returns the first X-Forwarded-For hop, X-Real-IP, or the peer address
func ClientIP(ctx *fasthttp.RequestCtx) string {
	if xff := string(ctx.Request.Header.Peek("X-Forwarded-For")); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Real-IP"))); ip != "" {
		return ip
	}
	return ctx.RemoteIP().String()
}

package httputil

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse is the body returned by idempotent write endpoints
type SuccessResponse struct {
	Success bool `json:"success"`
}

// WriteJSON writes data as a JSON response with the given status
func WriteJSON(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)

	body, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(`{"success":false,"error":"failed to marshal response"}`))
		return
	}

	ctx.SetBody(body)
}

// WriteOK writes a 200 JSON response
func WriteOK(ctx *fasthttp.RequestCtx, data interface{}) {
	WriteJSON(ctx, fasthttp.StatusOK, data)
}

// WriteSuccess writes {"success":true}
func WriteSuccess(ctx *fasthttp.RequestCtx) {
	WriteJSON(ctx, fasthttp.StatusOK, SuccessResponse{Success: true})
}

// WriteError writes an error JSON response
func WriteError(ctx *fasthttp.RequestCtx, status int, message string) {
	WriteJSON(ctx, status, ErrorResponse{Success: false, Error: message})
}

// WriteHealthResponse writes a health check response
func WriteHealthResponse(ctx *fasthttp.RequestCtx, data interface{}, healthy bool) {
	status := fasthttp.StatusOK
	if !healthy {
		status = fasthttp.StatusServiceUnavailable
	}
	WriteJSON(ctx, status, data)
}

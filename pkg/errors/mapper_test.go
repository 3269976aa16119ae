package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

func TestMapper_MapErrorToHTTP(t *testing.T) {
	notFound := NewNotFoundError("unknown link")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "nil", err: nil, wantStatus: fasthttp.StatusOK, wantMsg: ""},
		{name: "validation", err: NewValidationError("bad body"), wantStatus: fasthttp.StatusBadRequest, wantMsg: "bad body"},
		{name: "unauthorized", err: NewUnauthorizedError("invalid signature"), wantStatus: fasthttp.StatusUnauthorized, wantMsg: "invalid signature"},
		{name: "wrapped not found", err: fmt.Errorf("resolve ab12cd34: %w", notFound), wantStatus: fasthttp.StatusNotFound, wantMsg: "unknown link"},
		{name: "conflict", err: NewConflictError("exists"), wantStatus: fasthttp.StatusConflict, wantMsg: "exists"},
		{name: "unavailable", err: NewServiceUnavailableError("upstream unavailable"), wantStatus: fasthttp.StatusServiceUnavailable, wantMsg: "upstream unavailable"},
		{name: "internal", err: NewInternalError("boom"), wantStatus: fasthttp.StatusInternalServerError, wantMsg: "boom"},
		{name: "untyped", err: errors.New("driver: bad connection"), wantStatus: fasthttp.StatusInternalServerError, wantMsg: "internal server error"},
	}

	m := NewMapper(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := m.MapErrorToHTTP(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

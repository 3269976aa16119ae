package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errUpstream = errors.New("upstream: 502")

func TestPolicy_Do(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		permanent bool
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt succeeds", failures: 0, wantCalls: 1},
		{name: "succeeds on last attempt", failures: 2, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, wantCalls: 3, wantErr: true},
		{name: "permanent error stops", failures: 5, permanent: true, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retries := 0
			p := Policy{
				Timeout:     time.Second,
				MaxAttempts: 3,
				BaseBackoff: time.Millisecond,
				OnRetry:     func(int, error) { retries++ },
			}

			calls := 0
			err := p.Do(context.Background(), func(ctx context.Context) error {
				calls++
				if _, ok := ctx.Deadline(); !ok {
					t.Error("attempt context has no deadline")
				}
				if calls <= tt.failures {
					if tt.permanent {
						return Permanent(errUpstream)
					}
					return errUpstream
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantCalls-1, retries)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUpstream)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPolicy_DoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 10, BaseBackoff: 50 * time.Millisecond}

	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errUpstream
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

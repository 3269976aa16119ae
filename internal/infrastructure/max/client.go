// Package max contains the HTTP client of the MAX messenger Bot API
package max

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/Conte777/TrackFlow/internal/infrastructure/retry"
)

// SubscribedUpdates are the webhook update types the service consumes
var SubscribedUpdates = []string{"chat_member_joined"}

// APIError is a non-2xx answer of the MAX API
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("max api: status %d: %s", e.Status, e.Body)
}

// Retryable reports whether repeating the call may succeed
func (e *APIError) Retryable() bool {
	return e.Status == fasthttp.StatusTooManyRequests || e.Status >= 500
}

// Client calls the MAX Bot API under a client-side rate limit
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	policy  retry.Policy
	logger  zerolog.Logger
}

// NewClient creates a MAX API client. rps <= 0 disables rate limiting.
func NewClient(httpClient *fasthttp.Client, baseURL, token string, rps float64, policy retry.Policy, logger zerolog.Logger) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		limiter: rate.NewLimiter(limit, 1),
		policy:  policy,
		logger:  logger,
	}
}

type subscribeRequest struct {
	URL         string   `json:"url"`
	UpdateTypes []string `json:"update_types"`
	Secret      string   `json:"secret,omitempty"`
}

type subscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Subscribe registers url as the webhook receiver of SubscribedUpdates
func (c *Client) Subscribe(ctx context.Context, url, secret string) error {
	body, err := json.Marshal(subscribeRequest{URL: url, UpdateTypes: SubscribedUpdates, Secret: secret})
	if err != nil {
		return fmt.Errorf("marshal subscribe request: %w", err)
	}

	var resp subscribeResponse
	if err := c.call(ctx, fasthttp.MethodPost, "/subscriptions", body, &resp); err != nil {
		return fmt.Errorf("subscribe webhook: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("subscribe webhook rejected: %s", resp.Message)
	}

	c.logger.Info().Str("url", url).Strs("update_types", SubscribedUpdates).Msg("MAX webhook registered")
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, out any) error {
	return c.policy.Do(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(c.baseURL + path)
		req.Header.SetMethod(method)
		req.Header.Set("Authorization", c.token)
		if body != nil {
			req.Header.SetContentType("application/json")
			req.SetBody(body)
		}

		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(30 * time.Second)
		}

		if err := c.http.DoDeadline(req, resp, deadline); err != nil {
			return err
		}

		if status := resp.StatusCode(); status < 200 || status >= 300 {
			apiErr := &APIError{Status: status, Body: string(resp.Body())}
			if apiErr.Retryable() {
				return apiErr
			}
			return retry.Permanent(apiErr)
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return retry.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
}

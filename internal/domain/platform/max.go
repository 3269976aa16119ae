package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/auth/initdata"
)

// MaxSignatureHeader carries hex(HMAC_SHA256(secret, body)) on MAX deliveries
const MaxSignatureHeader = "X-Max-Signature"

// MaxJoinUpdate is the MAX update type of a user joining a chat
const MaxJoinUpdate = "chat_member_joined"

type maxUser struct {
	UserID   domain.ExternalID `json:"user_id"`
	Name     string            `json:"name"`
	Username string            `json:"username"`
}

type maxUpdate struct {
	UpdateType string   `json:"update_type"`
	Timestamp  int64    `json:"timestamp"`
	ChatID     int64    `json:"chat_id"`
	User       *maxUser `json:"user"`
}

// Max is the secondary platform. Its chats are bound to channels explicitly.
type Max struct {
	botToken      string
	webhookSecret string
	allowUnsigned bool
	relaxed       bool
	channels      ChannelResolver
}

// NewMax creates the MAX platform
func NewMax(botToken, webhookSecret string, allowUnsigned, relaxed bool, channels ChannelResolver) *Max {
	return &Max{
		botToken:      botToken,
		webhookSecret: webhookSecret,
		allowUnsigned: allowUnsigned,
		relaxed:       relaxed,
		channels:      channels,
	}
}

func (m *Max) Kind() domain.Platform {
	return domain.PlatformMax
}

func (m *Max) SessionToken() (string, error) {
	if m.botToken == "" {
		return "", fmt.Errorf("%w: max bot token is not configured", domain.ErrInvalidSignature)
	}
	return m.botToken, nil
}

// RequiresSession is false without a bot token; visits then carry the
// identity hint from the request body
func (m *Max) RequiresSession() bool {
	return m.botToken != ""
}

// VerifyWebhook checks the body HMAC
func (m *Max) VerifyWebhook(header func(string) string, body []byte) error {
	if m.relaxed {
		return nil
	}
	if m.webhookSecret == "" {
		if m.allowUnsigned {
			return nil
		}
		return fmt.Errorf("%w: max webhook secret is not configured", domain.ErrInvalidSignature)
	}
	return initdata.VerifyBody(m.webhookSecret, body, header(MaxSignatureHeader))
}

func (m *Max) NormalizeJoinEvent(body []byte) (*domain.JoinEvent, error) {
	var upd maxUpdate
	if err := json.Unmarshal(body, &upd); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if upd.UpdateType != MaxJoinUpdate {
		return nil, ErrIgnored
	}
	if upd.ChatID == 0 || upd.User == nil || upd.User.UserID == "" {
		return nil, fmt.Errorf("%w: %s without chat or user", domain.ErrMalformedPayload, MaxJoinUpdate)
	}

	joinedAt := time.Now().UTC()
	if upd.Timestamp > 0 {
		joinedAt = time.UnixMilli(upd.Timestamp).UTC()
	}

	return &domain.JoinEvent{
		Platform: domain.PlatformMax,
		ChatID:   upd.ChatID,
		Identity: domain.Identity{
			Platform:       domain.PlatformMax,
			ExternalUserID: string(upd.User.UserID),
			Username:       upd.User.Username,
		},
		JoinedAt: joinedAt,
	}, nil
}

// NormalizeChannelEvent always ignores: the channel registry is keyed by Telegram
func (m *Max) NormalizeChannelEvent([]byte) (*domain.ChannelEvent, error) {
	return nil, ErrIgnored
}

// ResolveChannel finds the channel bound to the MAX chat
func (m *Max) ResolveChannel(ctx context.Context, chatID int64) (int64, error) {
	id, err := m.channels.ResolveMaxChat(ctx, chatID)
	if err != nil {
		return 0, fmt.Errorf("resolve max chat %d: %w", chatID, err)
	}
	return id, nil
}

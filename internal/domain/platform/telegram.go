package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Conte777/TrackFlow/internal/domain"
	"github.com/Conte777/TrackFlow/internal/domain/auth/initdata"
)

// TelegramSecretHeader carries the webhook secret on Telegram deliveries
const TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// MemberLookup asks the Bot API about a chat member
type MemberLookup interface {
	IsMember(ctx context.Context, channelID, userID int64) (bool, error)
}

type tgUser struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
	// the fields below feed the users table when the bot is added
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

type tgChat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

type tgChatMember struct {
	Status string  `json:"status"`
	User   *tgUser `json:"user"`
}

type tgChatMemberUpdated struct {
	Chat          tgChat       `json:"chat"`
	From          tgUser       `json:"from"`
	Date          int64        `json:"date"`
	OldChatMember tgChatMember `json:"old_chat_member"`
	NewChatMember tgChatMember `json:"new_chat_member"`
}

type tgUpdate struct {
	UpdateID     int64                `json:"update_id"`
	ChatMember   *tgChatMemberUpdated `json:"chat_member"`
	MyChatMember *tgChatMemberUpdated `json:"my_chat_member"`
}

// Telegram is the primary platform. Channel ids are Telegram chat ids.
type Telegram struct {
	botToken      string
	webhookSecret string
	allowUnsigned bool
	relaxed       bool
	members       MemberLookup
}

// NewTelegram creates the Telegram platform. allowUnsigned accepts webhook
// deliveries when no secret is configured; relaxed skips webhook checks.
func NewTelegram(botToken, webhookSecret string, allowUnsigned, relaxed bool, members MemberLookup) *Telegram {
	return &Telegram{
		botToken:      botToken,
		webhookSecret: webhookSecret,
		allowUnsigned: allowUnsigned,
		relaxed:       relaxed,
		members:       members,
	}
}

func (t *Telegram) Kind() domain.Platform {
	return domain.PlatformTelegram
}

func (t *Telegram) SessionToken() (string, error) {
	return t.botToken, nil
}

func (t *Telegram) RequiresSession() bool {
	return true
}

// VerifyWebhook compares the secret token header in constant time
func (t *Telegram) VerifyWebhook(header func(string) string, _ []byte) error {
	if t.relaxed {
		return nil
	}
	if t.webhookSecret == "" {
		if t.allowUnsigned {
			return nil
		}
		return fmt.Errorf("%w: telegram webhook secret is not configured", domain.ErrInvalidSignature)
	}
	return initdata.VerifyToken(t.webhookSecret, header(TelegramSecretHeader))
}

// NormalizeJoinEvent accepts chat_member updates of channels where the user
// went from outside the channel to inside it
func (t *Telegram) NormalizeJoinEvent(body []byte) (*domain.JoinEvent, error) {
	upd, err := decodeTelegramUpdate(body)
	if err != nil {
		return nil, err
	}

	cm := upd.ChatMember
	if cm == nil || cm.Chat.Type != "channel" {
		return nil, ErrIgnored
	}

	if !isOutside(cm.OldChatMember.Status) || !isInside(cm.NewChatMember.Status) {
		return nil, ErrIgnored
	}

	user := cm.NewChatMember.User
	if user == nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: chat_member without user", domain.ErrMalformedPayload)
	}

	return &domain.JoinEvent{
		Platform: domain.PlatformTelegram,
		ChatID:   cm.Chat.ID,
		Identity: domain.Identity{
			Platform:       domain.PlatformTelegram,
			ExternalUserID: strconv.FormatInt(user.ID, 10),
			Username:       user.Username,
		},
		JoinedAt: unixOrNow(cm.Date),
	}, nil
}

// NormalizeChannelEvent accepts my_chat_member updates of channels
func (t *Telegram) NormalizeChannelEvent(body []byte) (*domain.ChannelEvent, error) {
	upd, err := decodeTelegramUpdate(body)
	if err != nil {
		return nil, err
	}

	cm := upd.MyChatMember
	if cm == nil || cm.Chat.Type != "channel" {
		return nil, ErrIgnored
	}

	ev := &domain.ChannelEvent{
		Platform: domain.PlatformTelegram,
		ChatID:   cm.Chat.ID,
		Title:    cm.Chat.Title,
		Username: cm.Chat.Username,
	}

	switch cm.NewChatMember.Status {
	case "administrator", "creator":
		ev.Active = true
		if cm.From.ID != 0 && !cm.From.IsBot {
			ev.Owner = &domain.SessionUser{
				ID:           domain.ExternalID(strconv.FormatInt(cm.From.ID, 10)),
				Username:     cm.From.Username,
				FirstName:    cm.From.FirstName,
				LastName:     cm.From.LastName,
				LanguageCode: cm.From.LanguageCode,
			}
		}
	case "left", "kicked", "member", "restricted":
		ev.Active = false
	default:
		return nil, ErrIgnored
	}

	return ev, nil
}

// ResolveChannel is the identity for Telegram
func (t *Telegram) ResolveChannel(_ context.Context, chatID int64) (int64, error) {
	return chatID, nil
}

// IsMember checks membership live through the Bot API
func (t *Telegram) IsMember(ctx context.Context, channelID int64, externalUserID string) (bool, error) {
	userID, err := strconv.ParseInt(externalUserID, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: telegram user id %q", domain.ErrMalformedPayload, externalUserID)
	}

	ok, err := t.members.IsMember(ctx, channelID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return ok, nil
}

func decodeTelegramUpdate(body []byte) (*tgUpdate, error) {
	var upd tgUpdate
	if err := json.Unmarshal(body, &upd); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return &upd, nil
}

func isOutside(status string) bool {
	return status == "left" || status == "kicked"
}

func isInside(status string) bool {
	return status == "member" || status == "administrator" || status == "creator"
}

func unixOrNow(sec int64) time.Time {
	if sec <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(sec, 0).UTC()
}

// Package telegram contains Telegram Bot API infrastructure
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/TrackFlow/internal/infrastructure/retry"
)

// AllowedUpdates are the update kinds the service consumes
var AllowedUpdates = []string{"chat_member", "my_chat_member"}

// UpdateHandler receives every update the bot gets by long polling
type UpdateHandler func(ctx context.Context, update *models.Update)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot    *tgbot.Bot
	policy retry.Policy
	logger zerolog.Logger

	mu      sync.RWMutex
	handler UpdateHandler
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token string, policy retry.Policy, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{
		policy: policy,
		logger: logger,
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(b.dispatch),
		tgbot.WithAllowedUpdates(tgbot.AllowedUpdates(AllowedUpdates)),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	logger.Info().Msg("Telegram bot created successfully")
	return b, nil
}

// SetUpdateHandler sets the receiver of polled updates
func (b *Bot) SetUpdateHandler(h UpdateHandler) {
	b.mu.Lock()
	b.handler = h
	b.mu.Unlock()
}

func (b *Bot) dispatch(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	b.mu.RLock()
	h := b.handler
	b.mu.RUnlock()

	if h == nil {
		b.logger.Warn().Int64("update_id", int64(update.ID)).Msg("update received before handler was set, dropped")
		return
	}
	h(ctx, update)
}

// StartPolling removes any registered webhook and polls until ctx is done (blocking call)
func (b *Bot) StartPolling(ctx context.Context) {
	if _, err := b.bot.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{}); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to delete webhook before polling")
	}

	b.logger.Info().Msg("Starting Telegram long polling...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram long polling stopped")
}

// RegisterWebhook points Telegram at url; secret is echoed back in
// the X-Telegram-Bot-Api-Secret-Token header of every delivery
func (b *Bot) RegisterWebhook(ctx context.Context, url, secret string) error {
	err := b.policy.Do(ctx, func(ctx context.Context) error {
		_, err := b.bot.SetWebhook(ctx, &tgbot.SetWebhookParams{
			URL:            url,
			SecretToken:    secret,
			AllowedUpdates: AllowedUpdates,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set telegram webhook: %w", err)
	}

	b.logger.Info().Str("url", url).Msg("Telegram webhook registered")
	return nil
}

type memberStatus struct {
	Status   string `json:"status"`
	IsMember bool   `json:"is_member"`
}

// IsMember asks Telegram whether userID currently belongs to channelID.
// A "user not found" answer counts as not subscribed.
func (b *Bot) IsMember(ctx context.Context, channelID, userID int64) (bool, error) {
	var member *models.ChatMember

	err := b.policy.Do(ctx, func(ctx context.Context) error {
		m, err := b.bot.GetChatMember(ctx, &tgbot.GetChatMemberParams{
			ChatID: channelID,
			UserID: userID,
		})
		if err != nil {
			if errors.Is(err, tgbot.ErrorBadRequest) || errors.Is(err, tgbot.ErrorForbidden) {
				return retry.Permanent(err)
			}
			return err
		}
		member = m
		return nil
	})
	if err != nil {
		if errors.Is(err, tgbot.ErrorBadRequest) {
			return false, nil
		}
		return false, fmt.Errorf("get chat member: %w", err)
	}

	raw, err := json.Marshal(member)
	if err != nil {
		return false, fmt.Errorf("encode chat member: %w", err)
	}

	var st memberStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return false, fmt.Errorf("decode chat member: %w", err)
	}

	return IsActiveStatus(st.Status, st.IsMember), nil
}

// IsActiveStatus reports whether a chat member status means "in the channel".
// Restricted members count only while is_member is set.
func IsActiveStatus(status string, isMember bool) bool {
	switch status {
	case "creator", "administrator", "member":
		return true
	case "restricted":
		return isMember
	default:
		return false
	}
}

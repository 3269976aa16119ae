// Package platform normalizes the two messenger platforms behind one interface
package platform

import (
	"context"
	"errors"

	"github.com/Conte777/TrackFlow/internal/domain"
)

// ErrIgnored marks a well-formed update the service has no interest in
var ErrIgnored = errors.New("update ignored")

// Platform is everything the service needs to know about one messenger
type Platform interface {
	Kind() domain.Platform
	// SessionToken is the bot token that signs the platform's mini-app init data
	SessionToken() (string, error)
	// RequiresSession reports whether visits must carry a verified session
	RequiresSession() bool
	// VerifyWebhook authenticates a raw webhook delivery
	VerifyWebhook(header func(string) string, body []byte) error
	// NormalizeJoinEvent returns ErrIgnored for anything but a user joining a channel
	NormalizeJoinEvent(body []byte) (*domain.JoinEvent, error)
	// NormalizeChannelEvent returns ErrIgnored for anything but bot membership changes
	NormalizeChannelEvent(body []byte) (*domain.ChannelEvent, error)
	// ResolveChannel maps a platform chat id to the channel id
	ResolveChannel(ctx context.Context, chatID int64) (int64, error)
}

// MembershipChecker is implemented by platforms that can answer
// "is this user in the channel" live
type MembershipChecker interface {
	IsMember(ctx context.Context, channelID int64, externalUserID string) (bool, error)
}

// ChannelResolver maps MAX chats to channels
type ChannelResolver interface {
	ResolveMaxChat(ctx context.Context, maxChatID int64) (int64, error)
}

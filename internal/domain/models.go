// Package domain contains types shared by the attribution domains
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Platform identifies a messenger platform
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformMax      Platform = "max"
)

// ParsePlatform validates a platform name
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case PlatformTelegram, PlatformMax:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
}

func (p Platform) String() string {
	return string(p)
}

// ExternalID is a platform user id. Telegram sends numbers, some clients
// send strings; both decode to the decimal string form.
type ExternalID string

// UnmarshalJSON accepts a JSON number or string
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ExternalID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("external id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("external id must be an integer: %s", n)
	}
	*id = ExternalID(n.String())
	return nil
}

// Int64 parses the id as a platform numeric user id
func (id ExternalID) Int64() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}

// UTM is the campaign tuple carried by links, visits and subscriptions
type UTM struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
	Term     string `json:"term"`
}

// Identity is a platform user as far as attribution is concerned
type Identity struct {
	Platform       Platform
	ExternalUserID string
	Username       string
}

// JoinEvent is a normalized "user joined channel" event.
// ChatID is the platform chat; ChannelID is filled once the chat is resolved.
type JoinEvent struct {
	Platform  Platform
	ChatID    int64
	ChannelID int64
	Identity  Identity
	JoinedAt  time.Time
	VisitHint *uuid.UUID
}

// ChannelEvent reports a change of the bot's own membership in a channel
type ChannelEvent struct {
	Platform Platform
	ChatID   int64
	Title    string
	Username string
	// Owner is the user who changed the bot's membership
	Owner  *SessionUser
	Active bool
}

// SessionUser is the user embedded in verified mini-app init data
type SessionUser struct {
	ID           ExternalID `json:"id"`
	Username     string     `json:"username,omitempty"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	LanguageCode string     `json:"language_code,omitempty"`
}

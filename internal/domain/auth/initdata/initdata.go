// Package initdata verifies mini-app init data and webhook signatures
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Conte777/TrackFlow/internal/domain"
)

// webAppDataKey is the constant HMAC message used to derive the secret from a bot token
const webAppDataKey = "WebAppData"

// Verify checks the hash of raw init data against botToken and rejects
// payloads whose auth_date is older than maxAge at now.
func Verify(raw, botToken string, maxAge time.Duration, now time.Time) (*domain.SessionUser, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse init data: %v", domain.ErrInvalidSignature, err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("%w: hash is missing", domain.ErrInvalidSignature)
	}

	expected := Sign(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(hash))) {
		return nil, domain.ErrInvalidSignature
	}

	authDate, err := parseAuthDate(values)
	if err != nil {
		return nil, err
	}
	if now.Sub(authDate) > maxAge {
		return nil, fmt.Errorf("%w: auth_date %s", domain.ErrStalePayload, authDate.UTC().Format(time.RFC3339))
	}

	return parseUser(values)
}

// Parse validates the shape of init data without checking its signature
func Parse(raw string) (*domain.SessionUser, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse init data: %v", domain.ErrInvalidSignature, err)
	}
	return parseUser(values)
}

// Sign returns the hex hash of values, ignoring any "hash" pair
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmacSHA256([]byte(webAppDataKey), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(strings.Join(pairs, "\n"))))
}

// SignBody returns hex(HMAC_SHA256(secret, body))
func SignBody(secret string, body []byte) string {
	return hex.EncodeToString(hmacSHA256([]byte(secret), body))
}

// VerifyBody checks a hex body signature in constant time
func VerifyBody(secret string, body []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("%w: signature is missing", domain.ErrInvalidSignature)
	}
	if !hmac.Equal([]byte(SignBody(secret, body)), []byte(strings.ToLower(signature))) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// VerifyToken compares a shared secret token in constant time
func VerifyToken(expected, got string) error {
	if expected == "" || !hmac.Equal([]byte(expected), []byte(got)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

func parseAuthDate(values url.Values) (time.Time, error) {
	raw := values.Get("auth_date")
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: auth_date is missing", domain.ErrInvalidSignature)
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad auth_date %q", domain.ErrInvalidSignature, raw)
	}
	return time.Unix(sec, 0), nil
}

func parseUser(values url.Values) (*domain.SessionUser, error) {
	raw := values.Get("user")
	if raw == "" {
		return nil, fmt.Errorf("%w: user is missing", domain.ErrInvalidSignature)
	}

	var user domain.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: bad user json: %v", domain.ErrInvalidSignature, err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: user id is missing", domain.ErrInvalidSignature)
	}

	return &user, nil
}

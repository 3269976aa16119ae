// Package cache holds the Redis read-through cache for link resolutions
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Conte777/TrackFlow/internal/domain/link/deps"
	"github.com/Conte777/TrackFlow/internal/domain/link/entities"
)

const (
	codeKeyPrefix    = "link:code:"
	channelKeyPrefix = "link:channel:"
)

type linkCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLinkCache returns a Redis-backed cache, or a no-op cache when client is nil
func NewLinkCache(client *redis.Client, ttl time.Duration) deps.LinkCache {
	if client == nil {
		return noopCache{}
	}
	return &linkCache{client: client, ttl: ttl}
}

func codeKey(code string) string {
	return codeKeyPrefix + code
}

func channelKey(channelID int64) string {
	return channelKeyPrefix + strconv.FormatInt(channelID, 10)
}

func (c *linkCache) Get(ctx context.Context, shortCode string) (*entities.Resolution, error) {
	data, err := c.client.Get(ctx, codeKey(shortCode)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read link cache: %w", err)
	}

	var res entities.Resolution
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode cached link: %w", err)
	}
	return &res, nil
}

// Set stores the resolution and indexes it under its channel for invalidation
func (c *linkCache) Set(ctx context.Context, res *entities.Resolution) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}

	chKey := channelKey(res.ChannelID)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKey(res.ShortCode), data, c.ttl)
		pipe.SAdd(ctx, chKey, res.ShortCode)
		pipe.Expire(ctx, chKey, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write link cache: %w", err)
	}
	return nil
}

func (c *linkCache) Delete(ctx context.Context, shortCode string) error {
	if err := c.client.Del(ctx, codeKey(shortCode)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached link: %w", err)
	}
	return nil
}

// InvalidateChannel drops every cached link of the channel
func (c *linkCache) InvalidateChannel(ctx context.Context, channelID int64) error {
	chKey := channelKey(channelID)
	codes, err := c.client.SMembers(ctx, chKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list cached links: %w", err)
	}

	keys := make([]string, 0, len(codes)+1)
	for _, code := range codes {
		keys = append(keys, codeKey(code))
	}
	keys = append(keys, chKey)

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate channel links: %w", err)
	}
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*entities.Resolution, error) { return nil, nil }
func (noopCache) Set(context.Context, *entities.Resolution) error           { return nil }
func (noopCache) Delete(context.Context, string) error                      { return nil }
func (noopCache) InvalidateChannel(context.Context, int64) error            { return nil }

package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/lyricsync/internal/lrc"
	"github.com/sukalov/lyricsync/internal/utils"
)

// ErrMiss is returned when a timeline is not cached.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "lyrics"

// Cache stores parsed timelines as JSON.
type Cache struct {
	client *redisClient.Client
}

// NewCache connects to the instance named by REDIS_URL and REDIS_PASSWORD.
func NewCache() (*Cache, error) {
	env, err := utils.LoadEnv([]string{"REDIS_URL", "REDIS_PASSWORD"})
	if err != nil {
		return nil, fmt.Errorf("failed to load cache env: %w", err)
	}
	opt, err := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", env["REDIS_PASSWORD"], env["REDIS_URL"]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewCacheWithClient(redisClient.NewClient(opt)), nil
}

func NewCacheWithClient(client *redisClient.Client) *Cache {
	return &Cache{client: client}
}

// Key derives the cache key for a song's lyric text. Editing the text
// changes the key, so stale timelines are never served.
func Key(songID, text string) string {
	sum := sha1.Sum([]byte(text))
	return fmt.Sprintf("%s:%s:%s", keyPrefix, songID, hex.EncodeToString(sum[:]))
}

func (c *Cache) GetTimeline(ctx context.Context, key string) (*lrc.Timeline, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var tl lrc.Timeline
	if err := json.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &tl, nil
}

// SetTimeline caches tl under key. A zero ttl keeps it until evicted.
func (c *Cache) SetTimeline(ctx context.Context, key string, tl *lrc.Timeline, ttl time.Duration) error {
	data, err := json.Marshal(tl)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// IncrementViews counts how often a song's lyrics were requested.
func (c *Cache) IncrementViews(ctx context.Context, songID string) error {
	err := c.client.HIncrBy(ctx, keyPrefix+":views", songID, 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment views for song %s: %v", songID, err)
	}
	return nil
}

// Views returns the request count of every song.
func (c *Cache) Views(ctx context.Context) (map[string]int64, error) {
	result := make(map[string]int64)
	raw, err := c.client.HGetAll(ctx, keyPrefix+":views").Result()
	if err != nil {
		if err == redisClient.Nil {
			return result, nil
		}
		return nil, err
	}
	for songID, count := range raw {
		n, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			continue // skip invalid counts
		}
		result[songID] = n
	}
	return result, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

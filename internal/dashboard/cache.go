package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	summaryKeyPrefix = "dash:summary:" // dash:summary:{user_id}
	summaryTTL       = 5 * time.Minute
)

// Cache is a read-through redis cache in front of a Source. Writes to a
// user's resources call Invalidate so the next read recomputes.
type Cache struct {
	client *redis.Client
	src    Source
}

func NewCache(client *redis.Client, src Source) *Cache {
	return &Cache{client: client, src: src}
}

func (c *Cache) key(userID string) string {
	return summaryKeyPrefix + userID
}

func (c *Cache) Summary(ctx context.Context, userID string) (*Summary, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == nil {
		var s Summary
		if err := json.Unmarshal([]byte(data), &s); err == nil {
			return &s, nil
		}
		// undecodable entry: fall through and recompute
	} else if err != redis.Nil {
		log.Printf("dashboard cache read: %v", err)
	}

	s, err := c.src.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := c.client.Set(ctx, c.key(userID), data, summaryTTL).Err(); err != nil {
			log.Printf("dashboard cache write: %v", err)
		}
	}

	return s, nil
}

// Invalidate drops the cached summary. Best effort: a failed delete only
// means a stale summary until the TTL runs out.
func (c *Cache) Invalidate(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		log.Printf("dashboard cache invalidate: %v", err)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const modelListKey = "ai:models"

// ModelCache keeps the Ollama installed-model list in redis for a short
// TTL so the models endpoint doesn't hit the LLM host on every call.
type ModelCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewModelCache(client *redisv9.Client, ttl time.Duration) *ModelCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ModelCache{client: client, ttl: ttl}
}

func (c *ModelCache) Get(ctx context.Context) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, modelListKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get model list failed: %w", err)
	}

	var models []string
	if err := json.Unmarshal([]byte(raw), &models); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached model list failed: %w", err)
	}
	return models, true, nil
}

func (c *ModelCache) Set(ctx context.Context, models []string) error {
	payload, err := json.Marshal(models)
	if err != nil {
		return fmt.Errorf("marshal model list failed: %w", err)
	}
	if err := c.client.Set(ctx, modelListKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set model list failed: %w", err)
	}
	return nil
}

package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

// History is the ordered per-user sequence of chat turns. The first turn, if
// any, is the persona system turn; turns are append-only within a session.
type History struct {
	Messages []*schema.Message `json:"messages"`
}

// Repository persists one History per user identifier.
type Repository interface {
	Load(ctx context.Context, userID string) (*History, error)
	Save(ctx context.Context, userID string, history *History) error
}

const keyPrefix = "conversation:"

// RedisRepository stores each history as a JSON value with a TTL that is
// refreshed on every access.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(ctx context.Context, redisURL string, ttl time.Duration) (*RedisRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}, nil
}

func (r *RedisRepository) Load(ctx context.Context, userID string) (*History, error) {
	key := keyPrefix + userID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return &History{Messages: []*schema.Message{}}, nil
		}
		return nil, err
	}

	var history History
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, err
	}

	// Refresh TTL
	r.client.Expire(ctx, key, r.ttl)
	return &history, nil
}

func (r *RedisRepository) Save(ctx context.Context, userID string, history *History) error {
	data, err := json.Marshal(history)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, keyPrefix+userID, data, r.ttl).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

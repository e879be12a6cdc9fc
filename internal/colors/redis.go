package colors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amaumene/cinescope/internal/models"
)

const (
	redisKeyPrefix  = "cinescope:colors:"
	DefaultRedisTTL = 7 * 24 * time.Hour
)

// SharedStore is a second cache tier shared between processes.
type SharedStore interface {
	Get(ctx context.Context, url string) (*models.DominantColors, error)
	Set(ctx context.Context, url string, colors models.DominantColors) error
}

// RedisStore keeps computed colors in Redis, keyed by a hash of the URL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and pings it.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (s *RedisStore) Get(ctx context.Context, url string) (*models.DominantColors, error) {
	val, err := s.client.Get(ctx, redisKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var colors models.DominantColors
	if err := json.Unmarshal(val, &colors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached colors: %w", err)
	}
	return &colors, nil
}

func (s *RedisStore) Set(ctx context.Context, url string, colors models.DominantColors) error {
	data, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("failed to marshal colors: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(url), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}

package codes

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultSequenceKey is the Redis key backing the shared code sequence.
const DefaultSequenceKey = "gaia:codes:sequence"

// RedisSequence shares one counter between every process using the same Redis.
type RedisSequence struct {
	client *redis.Client
	key    string
}

// NewRedisSequence constructs a RedisSequence. An empty key uses DefaultSequenceKey.
func NewRedisSequence(client *redis.Client, key string) *RedisSequence {
	if key == "" {
		key = DefaultSequenceKey
	}
	return &RedisSequence{client: client, key: key}
}

// Next implements Sequence.
func (s *RedisSequence) Next(ctx context.Context) (int64, error) {
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("codes: incr %s: %w", s.key, err)
	}
	return n, nil
}

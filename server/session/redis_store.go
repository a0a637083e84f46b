package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vitahq/vita/shared"
)

const (
	redisKeyPrefix     = "vita:session:"
	redisUserKeyPrefix = "vita:user-sessions:"
)

// RedisStore keeps sessions in redis, relying on key expiry for the TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a redis client & checks the connection
func NewRedisClient(ctx context.Context, config shared.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: 10,
	})

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, userID uint) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	// The per-user set lets DeleteForUser find every session of a user
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKey(id), strconv.FormatUint(uint64(userID), 10), s.ttl)
	pipe.SAdd(ctx, redisUserKey(userID), id)
	pipe.Expire(ctx, redisUserKey(userID), s.ttl)

	if _, err = pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return id, nil
}

func (s *RedisStore) UserID(ctx context.Context, sessionID string) (uint, error) {
	if sessionID == "" {
		return 0, ErrNotFound
	}

	value, err := s.client.Get(ctx, redisKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed session value: %w", err)
	}

	return uint(userID), nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, redisKey(sessionID)).Err()
}

func (s *RedisStore) DeleteForUser(ctx context.Context, userID uint) error {
	sessionIDs, err := s.client.SMembers(ctx, redisUserKey(userID)).Result()
	if err != nil {
		return err
	}

	keys := []string{redisUserKey(userID)}
	for _, sessionID := range sessionIDs {
		keys = append(keys, redisKey(sessionID))
	}

	return s.client.Del(ctx, keys...).Err()
}

// DeleteExpired is a no-op, redis expires session keys on its own
func (s *RedisStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func redisUserKey(userID uint) string {
	return fmt.Sprintf("%v%v", redisUserKeyPrefix, userID)
}

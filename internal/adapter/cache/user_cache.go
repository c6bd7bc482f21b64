package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-sync/internal/domain/user"
)

// listKey holds the JSON of every user in list order.
const listKey = "users:list"

// UserMirror defines the operations on the redis copy of the store's list.
type UserMirror interface {
	// ReplaceAll overwrites the mirrored list with users, keeping their order.
	ReplaceAll(ctx context.Context, users []domain.User) error

	// Get retrieves a mirrored user by ID.
	// Returns nil if the user is not mirrored.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// List returns the mirrored users in list order.
	List(ctx context.Context) ([]domain.User, error)
}

// RedisUserMirror implements UserMirror using Redis as the backing store.
type RedisUserMirror struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserMirror creates a new Redis-backed user mirror.
func NewRedisUserMirror(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserMirror {
	return &RedisUserMirror{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key for a user ID.
func cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// ReplaceAll rewrites the ordered list of user payloads and the per-ID index
// in one transaction. The index holds the first user with each ID; index keys
// of IDs no longer present are removed.
func (m *RedisUserMirror) ReplaceAll(ctx context.Context, users []domain.User) error {
	previous, err := m.client.LRange(ctx, listKey, 0, -1).Result()
	if err != nil {
		m.log.Error("failed to read mirror list", zap.Error(err))
		return fmt.Errorf("failed to read mirror list: %w", err)
	}

	payloads := make([]any, len(users))
	index := make(map[string][]byte, len(users))
	for i, u := range users {
		data, err := json.Marshal(u)
		if err != nil {
			m.log.Error("failed to marshal user for mirror", zap.Int64("user_id", u.ID), zap.Error(err))
			return err
		}
		payloads[i] = data
		if key := cacheKey(u.ID); index[key] == nil {
			index[key] = data
		}
	}

	var stale []string
	for _, raw := range previous {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			continue
		}
		key := cacheKey(u.ID)
		if _, ok := index[key]; !ok && !slices.Contains(stale, key) {
			stale = append(stale, key)
		}
	}

	_, err = m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		for key, data := range index {
			pipe.Set(ctx, key, data, m.ttl)
		}
		pipe.Del(ctx, listKey)
		if len(payloads) > 0 {
			pipe.RPush(ctx, listKey, payloads...)
			if m.ttl > 0 {
				pipe.Expire(ctx, listKey, m.ttl)
			}
		}
		return nil
	})
	if err != nil {
		m.log.Error("failed to write mirror", zap.Int("count", len(users)), zap.Error(err))
		return fmt.Errorf("failed to write mirror: %w", err)
	}

	m.log.Debug("mirror replaced", zap.Int("count", len(users)), zap.Int("stale", len(stale)), zap.Duration("ttl", m.ttl))
	return nil
}

// Get retrieves the first mirrored user with the given ID.
func (m *RedisUserMirror) Get(ctx context.Context, id int64) (*domain.User, error) {
	data, err := m.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		m.log.Debug("mirror miss", zap.Int64("user_id", id))
		return nil, nil
	}
	if err != nil {
		m.log.Error("failed to get from mirror", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		m.log.Error("failed to unmarshal mirrored user", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}

	return &user, nil
}

// List returns the mirrored users in list order, duplicates included.
func (m *RedisUserMirror) List(ctx context.Context) ([]domain.User, error) {
	values, err := m.client.LRange(ctx, listKey, 0, -1).Result()
	if err != nil {
		m.log.Error("failed to read mirror list", zap.Error(err))
		return nil, err
	}

	users := make([]domain.User, 0, len(values))
	for i, raw := range values {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			m.log.Error("failed to unmarshal mirrored user", zap.Int("position", i), zap.Error(err))
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

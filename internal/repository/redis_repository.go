package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore holds the small pieces of shared state kept in redis: revoked
// token ids, failed sign-in counters and cached teacher views. A nil client
// turns every method into a no-op so the service runs without redis.
type RedisStore struct {
	Redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{Redis: rdb}
}

func (r *RedisStore) Enabled() bool {
	return r != nil && r.Redis != nil
}

func revokedKey(jti string) string { return fmt.Sprintf("auth:revoked:%s", jti) }

func failedLoginKey(email string) string { return fmt.Sprintf("auth:failed:%s", email) }

// RevokeToken deny-lists a token id until its natural expiry.
func (r *RedisStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if !r.Enabled() || jti == "" || ttl <= 0 {
		return nil
	}
	return r.Redis.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (r *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if !r.Enabled() || jti == "" {
		return false, nil
	}
	n, err := r.Redis.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordFailedLogin bumps the failure counter for email. The window starts at
// the first failure. A counter found without an expiry gets one, so it can
// never lock the account for good.
func (r *RedisStore) RecordFailedLogin(ctx context.Context, email string, window time.Duration) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}
	key := failedLoginKey(email)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if ttl.Val() < 0 {
		if err := r.Redis.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return incr.Val(), nil
}

func (r *RedisStore) FailedLogins(ctx context.Context, email string) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}
	n, err := r.Redis.Get(ctx, failedLoginKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (r *RedisStore) ResetFailedLogins(ctx context.Context, email string) error {
	if !r.Enabled() {
		return nil
	}
	return r.Redis.Del(ctx, failedLoginKey(email)).Err()
}

// GetJSON decodes the cached value at key into out. The boolean is false on a
// miss.
func (r *RedisStore) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	data, err := r.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisStore) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, key, data, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if !r.Enabled() || len(keys) == 0 {
		return nil
	}
	return r.Redis.Del(ctx, keys...).Err()
}

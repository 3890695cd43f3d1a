package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"eduplatform/backend/internal/otc/domain"
)

// keyPrefix namespaces verification-code keys in Redis.
const keyPrefix = "otc:"

// expiredRetention is how long past its TTL an entry stays in Redis so the lazy
// expiry path can still answer Expired instead of NotFound. After the retention
// window Redis reclaims the key and the entry reads as NotFound, which the outer
// layers render the same way.
const expiredRetention = time.Hour

// consumeScript runs the check-compare-delete sequence server-side so consumption
// stays exactly-once even across processes. ARGV[1] is the supplied code, ARGV[2]
// the current unix time. Returns {status, payload_b64}.
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
  return {'notfound', ''}
end
local e = cjson.decode(raw)
if tonumber(ARGV[2]) > tonumber(e.expires_at) then
  redis.call('DEL', KEYS[1])
  return {'expired', ''}
end
if e.code ~= ARGV[1] then
  return {'mismatch', ''}
end
redis.call('DEL', KEYS[1])
return {'ok', e.payload}
`)

// redisEntry is the stored JSON shape. Payload is base64 inside the JSON document
// so the Lua script can hand it back as a plain string.
type redisEntry struct {
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
	Payload   string `json:"payload"`
}

// RedisStore is the Redis-backed Store implementation, for deployments where the
// pending codes must survive process restarts or be shared across instances.
type RedisStore struct {
	client *redis.Client
	nowF   func() time.Time
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		nowF:   func() time.Time { return time.Now().UTC() },
	}
}

// NewRedisStoreWithClock returns a RedisStore that reads time from nowF. For tests.
func NewRedisStoreWithClock(client *redis.Client, nowF func() time.Time) *RedisStore {
	return &RedisStore{client: client, nowF: nowF}
}

// Issue stores a fresh code under otc:<identity>, replacing any pending entry. The
// Redis key TTL is the entry TTL plus a retention window (see expiredRetention).
func (s *RedisStore) Issue(ctx context.Context, identity string, payload []byte, ttl time.Duration) (string, error) {
	code, err := domain.GenerateCode()
	if err != nil {
		return "", err
	}
	e := redisEntry{
		Code:      code,
		ExpiresAt: s.nowF().Add(ttl).Unix(),
		Payload:   base64.StdEncoding.EncodeToString(payload),
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("otc: marshal entry: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+identity, raw, ttl+expiredRetention).Err(); err != nil {
		return "", fmt.Errorf("otc: redis set: %w", err)
	}
	return code, nil
}

// Consume resolves code for identity via the atomic Lua script.
func (s *RedisStore) Consume(ctx context.Context, identity, code string) ([]byte, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + identity}, code, s.nowF().Unix()).Result()
	if err != nil {
		return nil, fmt.Errorf("otc: redis consume: %w", err)
	}
	parts, ok := res.([]interface{})
	if !ok || len(parts) != 2 {
		return nil, fmt.Errorf("otc: unexpected script result %v", res)
	}
	status, _ := parts[0].(string)
	switch status {
	case "notfound":
		return nil, domain.ErrNotFound
	case "expired":
		return nil, domain.ErrExpired
	case "mismatch":
		return nil, domain.ErrCodeMismatch
	case "ok":
		b64, _ := parts[1].(string)
		payload, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("otc: decode payload: %w", err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("otc: unexpected script status %q", status)
	}
}

// Delete removes any pending entry for identity.
func (s *RedisStore) Delete(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx, keyPrefix+identity).Err(); err != nil {
		return fmt.Errorf("otc: redis del: %w", err)
	}
	return nil
}

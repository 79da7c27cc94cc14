package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix    = "lal"
	defaultRetention = 30 * 24 * time.Hour
)

// Config holds Redis ledger parameters.
type Config struct {
	// Prefix namespaces all ledger keys. Defaults to "lal".
	Prefix string
	// Retention is how long a record outlives its own ExpiresAt before
	// Redis evicts it. The window must be non-zero: the rotation
	// protocol distinguishes "expired" from "not found", so expired
	// rows have to stay readable until garbage collection.
	Retention time.Duration
}

// Record hashes are updated to revoked in a single script so exactly
// one caller observes the transition.
const revokeScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
if redis.call("HGET", KEYS[1], "revoked") == "1" then
  return 0
end
redis.call("HSET", KEYS[1], "revoked", "1", "revoked_at", ARGV[1], "updated", ARGV[1])
return 1
`

var revokeLua = redis.NewScript(revokeScript)

// RedisStore is a [Store] backed by Redis. Each record lives in a hash
// keyed by the SHA-256 of its token string; a per-user set indexes the
// record keys for bulk revocation and garbage collection.
type RedisStore struct {
	redis     redis.UniversalClient
	prefix    string
	retention time.Duration
}

// NewRedisStore creates a Redis-backed ledger.
func NewRedisStore(client redis.UniversalClient, cfg Config) *RedisStore {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	return &RedisStore{
		redis:     client,
		prefix:    cfg.Prefix,
		retention: cfg.Retention,
	}
}

func (s *RedisStore) recordKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + ":rec:" + hex.EncodeToString(sum[:])
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + ":usr:" + userID
}

// Create persists rec, assigning an ID and creation timestamps when
// absent.
func (s *RedisStore) Create(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	key := s.recordKey(rec.Token)

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, key, recordFields(rec))
	pipe.SAdd(ctx, s.userKey(rec.UserID), key)
	pipe.PExpireAt(ctx, key, rec.ExpiresAt.Add(s.retention))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Find returns the non-revoked record for token, or (nil, nil) when the
// token is unknown or already revoked.
func (s *RedisStore) Find(ctx context.Context, token string) (*Record, error) {
	rec, err := s.FindAny(ctx, token)
	if err != nil || rec == nil {
		return rec, err
	}
	if rec.Revoked {
		return nil, nil
	}
	return rec, nil
}

// FindAny returns the record for token regardless of revocation state.
func (s *RedisStore) FindAny(ctx context.Context, token string) (*Record, error) {
	fields, err := s.redis.HGetAll(ctx, s.recordKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return parseRecord(fields)
}

// Revoke conditionally marks the record revoked. It reports true only
// when this call performed the transition; revoking an absent or
// already-revoked record is a no-op.
func (s *RedisStore) Revoke(ctx context.Context, token string, at time.Time) (bool, error) {
	return s.revokeKey(ctx, s.recordKey(token), at)
}

func (s *RedisStore) revokeKey(ctx context.Context, key string, at time.Time) (bool, error) {
	status, err := revokeLua.Run(ctx, s.redis, []string{key}, at.UnixMilli()).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return status == 1, nil
}

// RevokeAllForUser revokes every non-revoked record of userID and
// returns how many rows transitioned.
func (s *RedisStore) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int, error) {
	keys, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	revoked := 0
	for _, key := range keys {
		changed, err := s.revokeKey(ctx, key, at)
		if err != nil {
			return revoked, err
		}
		if changed {
			revoked++
		}
	}
	return revoked, nil
}

// DeleteExpiredForUser removes userID's records whose ExpiresAt is in
// the past, pruning the user index as it goes. Records that are still
// valid are never touched.
func (s *RedisStore) DeleteExpiredForUser(ctx context.Context, userID string, now time.Time) (int, error) {
	userKey := s.userKey(userID)
	keys, err := s.redis.SMembers(ctx, userKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	deleted := 0
	for _, key := range keys {
		expStr, err := s.redis.HGet(ctx, key, "exp").Result()
		if err == redis.Nil {
			// Row already evicted by Redis; drop the dangling index entry.
			if err := s.redis.SRem(ctx, userKey, key).Err(); err != nil {
				return deleted, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		expMs, err := strconv.ParseInt(expStr, 10, 64)
		if err != nil {
			return deleted, fmt.Errorf("corrupt ledger record %s: %v", key, err)
		}
		if time.UnixMilli(expMs).After(now) || time.UnixMilli(expMs).Equal(now) {
			continue
		}

		pipe := s.redis.TxPipeline()
		pipe.Del(ctx, key)
		pipe.SRem(ctx, userKey, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return deleted, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		deleted++
	}
	return deleted, nil
}

func recordFields(rec *Record) map[string]interface{} {
	revoked := "0"
	revokedAt := int64(0)
	if rec.Revoked {
		revoked = "1"
		revokedAt = rec.RevokedAt.UnixMilli()
	}

	return map[string]interface{}{
		"id":         rec.ID,
		"token":      rec.Token,
		"user":       rec.UserID,
		"exp":        rec.ExpiresAt.UnixMilli(),
		"revoked":    revoked,
		"revoked_at": revokedAt,
		"ua":         rec.UserAgent,
		"ip":         rec.IPAddress,
		"created":    rec.CreatedAt.UnixMilli(),
		"updated":    rec.UpdatedAt.UnixMilli(),
	}
}

func parseRecord(fields map[string]string) (*Record, error) {
	ms := func(name string) (int64, error) {
		v, ok := fields[name]
		if !ok || v == "" {
			return 0, nil
		}
		return strconv.ParseInt(v, 10, 64)
	}

	exp, err := ms("exp")
	if err != nil {
		return nil, fmt.Errorf("corrupt ledger record: %v", err)
	}
	revokedAt, err := ms("revoked_at")
	if err != nil {
		return nil, fmt.Errorf("corrupt ledger record: %v", err)
	}
	created, err := ms("created")
	if err != nil {
		return nil, fmt.Errorf("corrupt ledger record: %v", err)
	}
	updated, err := ms("updated")
	if err != nil {
		return nil, fmt.Errorf("corrupt ledger record: %v", err)
	}

	rec := &Record{
		ID:        fields["id"],
		Token:     fields["token"],
		UserID:    fields["user"],
		ExpiresAt: time.UnixMilli(exp),
		Revoked:   fields["revoked"] == "1",
		UserAgent: fields["ua"],
		IPAddress: fields["ip"],
		CreatedAt: time.UnixMilli(created),
		UpdatedAt: time.UnixMilli(updated),
	}
	if rec.Revoked && revokedAt != 0 {
		rec.RevokedAt = time.UnixMilli(revokedAt)
	}
	return rec, nil
}

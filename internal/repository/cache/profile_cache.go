package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"devconnector-api/internal/domain"
	"devconnector-api/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	keyProfileList    = "profile:all"
	keyProfilePrefix  = "profile:user:"
	keyGenList        = "profile:gen:all"
	keyGenPrefix      = "profile:gen:user:"
	defaultProfileTTL = time.Minute
	// Generations only need to outlive a single store read.
	generationTTL = 24 * time.Hour
)

// fillScript stores ARGV[2] under KEYS[2] only while the generation in KEYS[1]
// still equals the token the caller read before going to the store.
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[1])
if not gen then gen = '0' end
if gen ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ProfileCache is a cache-aside store for the public profile reads. A nil
// client turns every call into a miss.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(userID string) string {
	return keyProfilePrefix + userID
}

func generationKey(userID string) string {
	return keyGenPrefix + userID
}

func (c *ProfileCache) GetProfile(ctx context.Context, userID string) (*domain.Profile, domain.CacheToken, bool) {
	var p domain.Profile
	token, ok := c.getJSON(ctx, generationKey(userID), profileKey(userID), &p)
	if !ok {
		return nil, token, false
	}
	restoreOwner(&p)
	return &p, token, true
}

func (c *ProfileCache) SetProfile(ctx context.Context, userID string, token domain.CacheToken, profile *domain.Profile) {
	if profile == nil {
		return
	}
	c.fill(ctx, generationKey(userID), profileKey(userID), token, profile)
}

func (c *ProfileCache) GetList(ctx context.Context) ([]domain.Profile, domain.CacheToken, bool) {
	var profiles []domain.Profile
	token, ok := c.getJSON(ctx, keyGenList, keyProfileList, &profiles)
	if !ok {
		return nil, token, false
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	for i := range profiles {
		restoreOwner(&profiles[i])
	}
	return profiles, token, true
}

func (c *ProfileCache) SetList(ctx context.Context, token domain.CacheToken, profiles []domain.Profile) {
	c.fill(ctx, keyGenList, keyProfileList, token, profiles)
}

// Invalidate bumps the owner's and the list's generations and drops both
// entries in one transaction, so fills started before it are rejected.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if c.unavailable() {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userID))
		pipe.Expire(ctx, generationKey(userID), generationTTL)
		pipe.Incr(ctx, keyGenList)
		pipe.Expire(ctx, keyGenList, generationTTL)
		pipe.Del(ctx, profileKey(userID), keyProfileList)
		return nil
	})
	if err != nil {
		logger.Log.Warn("Profile cache invalidation failed",
			"user_id", userID,
			"error", err,
		)
	}
}

func (c *ProfileCache) unavailable() bool {
	return c == nil || c.client == nil
}

// getJSON reads the generation and the entry in one MGET. The token is
// returned on misses too; it is what a later fill must present.
func (c *ProfileCache) getJSON(ctx context.Context, genKey, key string, out any) (domain.CacheToken, bool) {
	if c.unavailable() {
		return "", false
	}
	vals, err := c.client.MGet(ctx, genKey, key).Result()
	if err != nil {
		c.warnOnce(err)
		return "", false
	}

	token := domain.CacheToken("0")
	if gen, ok := vals[0].(string); ok {
		token = domain.CacheToken(gen)
	}

	raw, ok := vals[1].(string)
	if !ok {
		return token, false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Log.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		_ = c.client.Del(ctx, key).Err()
		return token, false
	}
	return token, true
}

func (c *ProfileCache) fill(ctx context.Context, genKey, key string, token domain.CacheToken, value any) {
	if c.unavailable() || token == "" {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn("Failed to encode cache entry", "key", key, "error", err)
		return
	}
	err = fillScript.Run(ctx, c.client, []string{genKey, key}, string(token), b, c.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.warnOnce(err)
	}
}

func (c *ProfileCache) warnOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		logger.Log.Warn("Redis unavailable, bypassing profile cache", "error", err)
	}
}

// The owner id is not part of the wire shape; it comes back from the joined user.
func restoreOwner(p *domain.Profile) {
	if p.UserID == "" && p.User != nil {
		p.UserID = p.User.ID
	}
}

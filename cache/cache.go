package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

var errNotInitialized = errors.New("Redis client is not initialized")

// Cache is a thin JSON layer over Redis used for read-through caching and
// short-lived markers such as revoked token ids.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps client. ttl is the default expiry used by SetJSON.
func NewCache(client *redis.Client, ttl time.Duration) (*Cache, error) {
	if client == nil {
		return nil, errNotInitialized
	}
	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return errNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeleteAll removes every key matching pattern.
func (c *Cache) DeleteAll(ctx context.Context, pattern string) error {
	if c.client == nil {
		return errNotInitialized
	}
	// SCAN instead of KEYS so large keyspaces don't block the server
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.client == nil {
		return errNotInitialized
	}
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Get returns the stored value, or "" when the key does not exist.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c.client == nil {
		return "", errNotInitialized
	}
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Exists reports whether key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, errNotInitialized
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// SetJSON stores value encoded as JSON under key with the default expiry.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, payload, c.ttl)
}

// fillScript writes KEYS[2] only while the generation counter KEYS[1] still
// holds ARGV[1].
var fillScript = redis.NewScript(`
if (redis.call("GET", KEYS[1]) or "0") == ARGV[1] then
	if ARGV[3] == "0" then
		return redis.call("SET", KEYS[2], ARGV[2])
	end
	return redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
end
return false
`)

// Generation returns the current value of the counter stored at genKey, 0
// when it has never been bumped.
func (c *Cache) Generation(ctx context.Context, genKey string) (int64, error) {
	if c.client == nil {
		return 0, errNotInitialized
	}
	n, err := c.client.Get(ctx, genKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// Bump advances the counter at genKey so fills started earlier are dropped.
func (c *Cache) Bump(ctx context.Context, genKey string) error {
	if c.client == nil {
		return errNotInitialized
	}
	return c.client.Incr(ctx, genKey).Err()
}

// SetJSONIfGeneration stores value under key only if genKey still holds gen.
// It reports whether the value was written.
func (c *Cache) SetJSONIfGeneration(ctx context.Context, genKey string, gen int64, key string, value interface{}) (bool, error) {
	if c.client == nil {
		return false, errNotInitialized
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	err = fillScript.Run(ctx, c.client,
		[]string{genKey, key},
		strconv.FormatInt(gen, 10), payload, c.ttl.Milliseconds(),
	).Err()
	if err == redis.Nil {
		return false, nil
	}
	return err == nil, err
}

// GetJSON decodes the value stored under key into dest. It reports false on a
// miss or when the stored payload no longer decodes.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.Get(ctx, key)
	if err != nil || val == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, nil
	}
	return true, nil
}

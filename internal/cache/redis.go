package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agrimarket-delivery/internal/domain"
)

const keyPrefix = "delivery:by-order:"

// entry is the stored value; V is the delivery's updated_at in microseconds.
type entry struct {
	V        int64            `json:"v"`
	Delivery *domain.Delivery `json:"d"`
}

// setIfNotOlder keeps a cached entry whose version is newer than ARGV[2].
// A read that loaded the row before a commit cannot overwrite the committed state.
var setIfNotOlder = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local ok, doc = pcall(cjson.decode, cur)
	if ok and type(doc) == 'table' and tonumber(doc['v']) and tonumber(doc['v']) > tonumber(ARGV[2]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// DeliveryCache caches deliveries in Redis keyed by order ID.
type DeliveryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDeliveryCache creates a new DeliveryCache.
func NewDeliveryCache(rdb *redis.Client, ttl time.Duration) *DeliveryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DeliveryCache{rdb: rdb, ttl: ttl}
}

func redisKey(orderID string) string {
	return keyPrefix + orderID
}

// Get returns the cached delivery of orderID, or (nil, nil) on a miss.
func (c *DeliveryCache) Get(ctx context.Context, orderID string) (*domain.Delivery, error) {
	raw, err := c.rdb.Get(ctx, redisKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", orderID, err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Delivery == nil {
		// a corrupt entry is a miss; drop it
		_ = c.rdb.Del(ctx, redisKey(orderID)).Err()
		return nil, nil
	}
	return e.Delivery, nil
}

// Set stores d under its order ID unless a newer version of it is cached.
func (c *DeliveryCache) Set(ctx context.Context, d *domain.Delivery) error {
	_, err := c.set(ctx, d)
	return err
}

func (c *DeliveryCache) set(ctx context.Context, d *domain.Delivery) (bool, error) {
	version := d.UpdatedAt.UnixMicro()
	raw, err := json.Marshal(entry{V: version, Delivery: d})
	if err != nil {
		return false, fmt.Errorf("marshal delivery: %w", err)
	}
	stored, err := setIfNotOlder.Run(ctx, c.rdb,
		[]string{redisKey(d.OrderID)},
		raw, version, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis set %s: %w", d.OrderID, err)
	}
	return stored == 1, nil
}

// Delete drops the cached delivery of orderID.
func (c *DeliveryCache) Delete(ctx context.Context, orderID string) error {
	if err := c.rdb.Del(ctx, redisKey(orderID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", orderID, err)
	}
	return nil
}

// NewClient creates and pings a Redis client.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

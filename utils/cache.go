package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"labreserve/config"
	"labreserve/models"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the shared Redis client for booking snapshots.
var CacheClient *redis.Client

// InitCache initializes the Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the shared cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// SnapshotCache caches per-tool booking snapshots with a short TTL so that
// calendar views and drag validation read a recent, consistent list without
// hitting Mongo on every poll. Staleness is resolved at commit time by a
// fresh collision re-check against the repository.
type SnapshotCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{Client: client, TTL: ttl}
}

func snapshotKey(toolID int, weekStart string) string {
	return fmt.Sprintf("bookings:tool:%d:week:%s", toolID, weekStart)
}

// Get returns the cached snapshot, or (nil, false) on a miss.
func (c *SnapshotCache) Get(ctx context.Context, toolID int, weekStart string) ([]models.BookingRecord, bool) {
	raw, err := c.Client.Get(ctx, snapshotKey(toolID, weekStart)).Bytes()
	if err != nil {
		return nil, false
	}
	var records []models.BookingRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false
	}
	return records, true
}

// Set stores a snapshot for the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, toolID int, weekStart string, records []models.BookingRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, snapshotKey(toolID, weekStart), raw, c.TTL).Err()
}

// InvalidateTool drops every cached week for the tool after a mutation.
func (c *SnapshotCache) InvalidateTool(ctx context.Context, toolID int) error {
	pattern := fmt.Sprintf("bookings:tool:%d:week:*", toolID)
	iter := c.Client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

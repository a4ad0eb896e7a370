package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// ReportCache stores aggregated attendance reports per teacher. A cold or
// unreachable Redis degrades to cache misses, never to errors.
type ReportCache struct {
	redis *Redis
	ttl   time.Duration
}

// NewReportCache creates a cache with the given entry TTL.
func NewReportCache(r *Redis, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{redis: r, ttl: ttl}
}

func reportKey(teacherID string) string { return "classtrack:report:" + teacherID }

// Get unmarshals a cached report into dst; ok is false on miss or any
// redis/decoding failure.
func (c *ReportCache) Get(ctx context.Context, teacherID string, dst any) bool {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return false
	}
	raw, err := c.redis.Client.Get(ctx, reportKey(teacherID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set caches a report; failures are ignored.
func (c *ReportCache) Set(ctx context.Context, teacherID string, report any) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	c.redis.Client.Set(ctx, reportKey(teacherID), raw, c.ttl)
}

// Invalidate drops a teacher's cached report after a roster or attendance
// write.
func (c *ReportCache) Invalidate(ctx context.Context, teacherID string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	c.redis.Client.Del(ctx, reportKey(teacherID))
}

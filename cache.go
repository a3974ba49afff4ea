package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var appCache *Cache

// Cache is a thin JSON read-through cache on Redis. A nil *Cache is a
// no-op so code paths stay identical when Redis is not wired (tests).
// Cache errors are logged and treated as misses; they never fail a request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func initRedis() {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse Redis URL")
	}
	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to ping redis")
	}
	appCache = &Cache{client: client, ttl: cfg.CacheTTL}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (c *Cache) Delete(keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Warn("cache delete failed")
	}
}

// DeletePattern removes all keys matching a glob pattern via SCAN so large
// keyspaces are not blocked the way KEYS would.
func (c *Cache) DeletePattern(pattern string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			logrus.WithError(err).WithField("pattern", pattern).Warn("cache scan failed")
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				logrus.WithError(err).Warn("cache delete failed")
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return
		}
	}
}

func taskCacheKey(userID, taskID uint) string {
	return fmt.Sprintf("task:%d:%d", userID, taskID)
}

// taskListCacheKey includes the filter set so a filtered page can never be
// served for a different filter. Invalidation uses taskListPattern.
func taskListCacheKey(userID uint, page, pageSize int, f taskFilters) string {
	completed := "any"
	if f.IsCompleted != nil {
		completed = fmt.Sprintf("%t", *f.IsCompleted)
	}
	return fmt.Sprintf("tasks:%d:p%d:s%d:st=%s:pr=%s:c=%s:q=%s",
		userID, page, pageSize, f.Status, f.Priority, completed, f.Search)
}

func taskListPattern(userID uint) string {
	return fmt.Sprintf("tasks:%d:*", userID)
}

func taskPattern(userID uint) string {
	return fmt.Sprintf("task:%d:*", userID)
}

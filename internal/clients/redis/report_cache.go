package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/habitflow/habitflow-backend/internal/logger"
)

// ReportCache keeps generated reports warm between mutations. A nil
// *ReportCache is valid and degrades every call to a no-op, so callers do
// not have to guard on whether redis is configured.
type ReportCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewReportCache(log *logger.Logger) (*ReportCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ReportCache{
		log: log.With("service", "ReportCache"),
		rdb: rdb,
		ttl: 10 * time.Minute,
	}, nil
}

func ReportKey(userID uuid.UUID, start, end string, categoryID *uuid.UUID) string {
	cat := "all"
	if categoryID != nil {
		cat = categoryID.String()
	}
	return fmt.Sprintf("report:%s:%s:%s:%s", userID, start, end, cat)
}

func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Report cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *ReportCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Report cache write failed", "key", key, "error", err)
	}
}

// InvalidateUser drops every cached report for the user. Called after any
// completion-log or habit mutation.
func (c *ReportCache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	pattern := fmt.Sprintf("report:%s:*", userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Report cache scan failed", "pattern", pattern, "error", err)
		return
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn("Report cache invalidation failed", "error", err)
		}
	}
}

func (c *ReportCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

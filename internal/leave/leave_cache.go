package leave

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	LeaveDetailKeyPrefix = "leaves:detail:"
	DefaultCacheTTL      = 10 * time.Minute
)

func GetLeaveDetailKey(id string) string {
	return LeaveDetailKeyPrefix + id
}

// detailCache stores rendered LeaveResponse values. A nil client disables it.
type detailCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func newDetailCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *detailCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &detailCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *detailCache) get(ctx context.Context, id string) (LeaveResponse, bool) {
	if c.rdb == nil {
		return LeaveResponse{}, false
	}
	cached, err := c.rdb.Get(ctx, GetLeaveDetailKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("leave detail cache read failed", zap.String("leave_id", id), zap.Error(err))
		}
		return LeaveResponse{}, false
	}

	var resp LeaveResponse
	if err := json.Unmarshal([]byte(cached), &resp); err != nil {
		return LeaveResponse{}, false
	}
	return resp, true
}

func (c *detailCache) set(ctx context.Context, resp LeaveResponse) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, GetLeaveDetailKey(resp.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("leave detail cache write failed", zap.String("leave_id", resp.ID), zap.Error(err))
	}
}

func (c *detailCache) invalidate(ctx context.Context, id string) {
	if c.rdb == nil {
		return
	}
	key := GetLeaveDetailKey(id)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.logger.Error("failed to invalidate leave detail cache",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}

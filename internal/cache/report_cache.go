package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mekarlab/billing-api/internal/models"
)

// summaryTTL bounds how long a cached analytics summary may be served.
const summaryTTL = 5 * time.Minute

// ReportCache caches analytics summaries in Redis. Cached entries are keyed
// by a generation counter that every committed bill bumps, so a summary never
// survives a write to the bills table. A nil *ReportCache is valid and
// disables caching entirely.
type ReportCache struct {
	redis *RedisClient
}

// NewReportCache creates a ReportCache on top of a Redis client.
func NewReportCache(redis *RedisClient) *ReportCache {
	return &ReportCache{redis: redis}
}

func (c *ReportCache) generation(ctx context.Context) int64 {
	v, err := c.redis.Get(ctx, "analytics:gen")
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (c *ReportCache) summaryKey(ctx context.Context, start, end string) string {
	return fmt.Sprintf("analytics:summary:v%d:%s:%s", c.generation(ctx), start, end)
}

// GetSummary returns a cached summary for the date range, or nil on miss.
func (c *ReportCache) GetSummary(ctx context.Context, start, end string) *models.SalesSummary {
	if c == nil {
		return nil
	}
	raw, err := c.redis.Get(ctx, c.summaryKey(ctx, start, end))
	if err != nil {
		if !IsMiss(err) {
			log.Warn().Err(err).Msg("analytics cache read failed")
		}
		return nil
	}
	var s models.SalesSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	return &s
}

// SetSummary stores a summary for the date range.
func (c *ReportCache) SetSummary(ctx context.Context, start, end string, s *models.SalesSummary) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.summaryKey(ctx, start, end), string(raw), summaryTTL); err != nil {
		log.Warn().Err(err).Msg("analytics cache write failed")
	}
}

// BumpGeneration invalidates all cached summaries. Called after each
// committed bill; best-effort.
func (c *ReportCache) BumpGeneration(ctx context.Context) {
	if c == nil {
		return
	}
	if _, err := c.redis.Incr(ctx, "analytics:gen"); err != nil {
		log.Warn().Err(err).Msg("analytics cache invalidation failed")
	}
}

package cache

import (
	"strings"
	"time"

	resumedomain "github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
)

const defaultStatsTTL = 45 * time.Second

// DashboardCache stores hot-path dashboard lookups. Stats are cheap to
// recompute, so a short TTL is enough to absorb page-load bursts.
type DashboardCache interface {
	GetStats(userID string) (*resumedomain.Stats, bool)
	SetStats(userID string, stats *resumedomain.Stats)
	InvalidateStats(userID string)
}

type dashboardCache struct {
	stats    Cache[string, *resumedomain.Stats]
	statsTTL time.Duration
}

func NewDashboardCache() DashboardCache {
	return &dashboardCache{
		stats:    NewTTLCache[string, *resumedomain.Stats](),
		statsTTL: defaultStatsTTL,
	}
}

func (c *dashboardCache) GetStats(userID string) (*resumedomain.Stats, bool) {
	return c.stats.Get(cacheKey(userID))
}

func (c *dashboardCache) SetStats(userID string, stats *resumedomain.Stats) {
	if stats == nil {
		return
	}
	c.stats.Set(cacheKey(userID), stats, c.statsTTL)
}

func (c *dashboardCache) InvalidateStats(userID string) {
	c.stats.Delete(cacheKey(userID))
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}

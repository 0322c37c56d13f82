package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyAnalysisUser = "analysis:user:%s"

// AnalysisLimiter throttles analysis calls per user. A nil limiter is
// valid and admits everything; it is what gets wired when rate limiting
// is disabled in config.
type AnalysisLimiter struct {
	enabled bool

	bucket *TokenBucket

	userRate  float64
	userBurst int
}

func NewAnalysisLimiter(cfg config.Config) (*AnalysisLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.UserRate <= 0 || limitCfg.UserBurst <= 0 {
		return nil, errors.New("analysis user rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &AnalysisLimiter{
		enabled:   true,
		bucket:    NewTokenBucket(client),
		userRate:  limitCfg.UserRate,
		userBurst: limitCfg.UserBurst,
	}, nil
}

func (l *AnalysisLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *AnalysisLimiter) AllowUser(ctx context.Context, userID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyAnalysisUser, strings.TrimSpace(userID)), l.userRate, l.userBurst)
}

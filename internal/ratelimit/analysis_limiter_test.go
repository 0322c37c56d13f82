package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/config"
)

func TestDisabledLimiterAdmitsEverything(t *testing.T) {
	cfg := config.Config{}
	limiter, err := NewAnalysisLimiter(cfg)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	if limiter.Enabled() {
		t.Fatal("expected disabled limiter")
	}
	res, err := limiter.AllowUser(context.Background(), "user_abc")
	if err != nil {
		t.Fatalf("allow user: %v", err)
	}
	if !res.Allowed {
		t.Fatal("disabled limiter must admit")
	}
}

func TestEnabledLimiterRequiresRedisAddr(t *testing.T) {
	cfg := config.Config{}
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.UserRate = 1
	cfg.RateLimit.UserBurst = 5
	if _, err := NewAnalysisLimiter(cfg); err == nil {
		t.Fatal("expected error for missing redis addr")
	}
}

func TestBucketTTL(t *testing.T) {
	if got := bucketTTL(1, 5); got != 10*time.Second {
		t.Fatalf("expected 10s, got %v", got)
	}
	if got := bucketTTL(100, 1); got != time.Second {
		t.Fatalf("expected floor of 1s, got %v", got)
	}
}

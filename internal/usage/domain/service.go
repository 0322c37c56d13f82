package domain

import (
	"context"
	"errors"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
)

var (
	ErrInvalidUserID    = errors.New("invalid_user_id")
	ErrInvalidPeriodKey = errors.New("invalid_period_key")
)

type IncrementRequest struct {
	UserID    string         `json:"user_id"`
	Feature   tier.Feature   `json:"feature"`
	PeriodKey string         `json:"period_key"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Service is the append-only usage ledger. Increment bumps the counter
// for the current period by exactly one; Count and Summary read it back.
type Service interface {
	Increment(ctx context.Context, req IncrementRequest) (*FeatureUsage, error)
	Count(ctx context.Context, userID string, feature tier.Feature, periodKey string) (int64, error)
	Summary(ctx context.Context, userID string, periodKey string) (map[tier.Feature]int64, error)
}

package domain

import (
	"context"
	"errors"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
)

var (
	ErrInvalidUserID = errors.New("invalid_user_id")
	ErrNotFound      = errors.New("subscription_not_found")
)

// Service owns the one-subscription-per-user lifecycle. GetOrCreate is
// idempotent: the first caller wins the insert, later callers read the
// same row back.
type Service interface {
	GetOrCreate(ctx context.Context, userID string) (*Subscription, error)
	Get(ctx context.Context, userID string) (*Subscription, error)
	SetTier(ctx context.Context, userID string, id tier.ID) (*Subscription, error)
}

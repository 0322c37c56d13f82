package domain

import (
	"context"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"gorm.io/gorm"
)

type Repository interface {
	IncrementOrInsert(ctx context.Context, db *gorm.DB, row *FeatureUsage) error
	Find(ctx context.Context, db *gorm.DB, userID string, feature tier.Feature, periodKey string) (*FeatureUsage, error)
	ListForPeriod(ctx context.Context, db *gorm.DB, userID string, periodKey string) ([]FeatureUsage, error)
}

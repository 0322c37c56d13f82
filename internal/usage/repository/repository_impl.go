package repository

import (
	"context"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"github.com/DevVaradPatil/resume-analyzer/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// IncrementOrInsert bumps the counter in a single statement so that
// concurrent callers never lose an increment. The first writer for a
// (user, feature, period) triple creates the row with count 1.
func (r *repo) IncrementOrInsert(ctx context.Context, db *gorm.DB, row *domain.FeatureUsage) error {
	return db.WithContext(ctx).Exec(`
		INSERT INTO feature_usage (id, user_id, feature, period_key, usage_count, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?, ?)
		ON CONFLICT (user_id, feature, period_key)
		DO UPDATE SET
			usage_count = feature_usage.usage_count + 1,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, row.ID, row.UserID, row.Feature, row.PeriodKey, row.Metadata, row.CreatedAt, row.UpdatedAt).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, userID string, feature tier.Feature, periodKey string) (*domain.FeatureUsage, error) {
	var row domain.FeatureUsage
	err := db.WithContext(ctx).Raw(`
		SELECT id, user_id, feature, period_key, usage_count, metadata, created_at, updated_at
		FROM feature_usage
		WHERE user_id = ? AND feature = ? AND period_key = ?
	`, userID, feature, periodKey).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) ListForPeriod(ctx context.Context, db *gorm.DB, userID string, periodKey string) ([]domain.FeatureUsage, error) {
	var rows []domain.FeatureUsage
	err := db.WithContext(ctx).Raw(`
		SELECT id, user_id, feature, period_key, usage_count, metadata, created_at, updated_at
		FROM feature_usage
		WHERE user_id = ? AND period_key = ?
		ORDER BY feature
	`, userID, periodKey).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

package repository

import (
	"context"

	"github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(`
		INSERT INTO subscriptions (id, user_id, tier, status, current_period_start, current_period_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.UserID, sub.Tier, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.CreatedAt, sub.UpdatedAt).Error
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).Raw(`
		SELECT id, user_id, tier, status, current_period_start, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = ?
	`, userID).Scan(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) UpdateTier(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(`
		UPDATE subscriptions
		SET tier = ?, status = ?, current_period_start = ?, current_period_end = ?, updated_at = ?
		WHERE user_id = ?
	`, sub.Tier, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.UpdatedAt, sub.UserID).Error
}

package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*Subscription, error)
	UpdateTier(ctx context.Context, db *gorm.DB, sub *Subscription) error
}

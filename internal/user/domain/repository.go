package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, user *User) (*User, error)
	FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*User, error)
	DeleteByExternalID(ctx context.Context, db *gorm.DB, externalID string) error
}

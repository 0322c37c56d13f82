package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	InsertResume(ctx context.Context, db *gorm.DB, resume *Resume) error
	InsertLog(ctx context.Context, db *gorm.DB, entry *AnalysisLog) error
	ListByUser(ctx context.Context, db *gorm.DB, userID string, limit, offset int) ([]ResumeSummary, error)
	FindByID(ctx context.Context, db *gorm.DB, userID string, id int64) (*Resume, error)
	DeleteByID(ctx context.Context, db *gorm.DB, userID string, id int64) (int64, error)
	StatsByUser(ctx context.Context, db *gorm.DB, userID string) (*Stats, error)
}

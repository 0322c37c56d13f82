package domain

import (
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"gorm.io/datatypes"
)

// FeatureUsage is one ledger row: how many times a user exercised a
// feature inside one billing period. Rows are unique per
// (user_id, feature, period_key) and never reset; a new period key
// simply starts a fresh row.
type FeatureUsage struct {
	ID         int64             `gorm:"primaryKey" json:"id,string"`
	UserID     string            `json:"user_id"`
	Feature    tier.Feature      `json:"feature"`
	PeriodKey  string            `json:"period_key"`
	UsageCount int64             `json:"usage_count"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (FeatureUsage) TableName() string {
	return "feature_usage"
}

package domain

import (
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// Subscription is the single billing record a user owns. One row per
// user, keyed by the external identity id.
type Subscription struct {
	ID                 int64     `gorm:"primaryKey" json:"id,string"`
	UserID             string    `gorm:"uniqueIndex" json:"user_id"`
	Tier               tier.ID   `json:"tier"`
	Status             Status    `json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

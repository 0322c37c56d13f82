package domain

import (
	"context"
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
)

// Denial reasons surfaced to clients. The HTTP layer maps them to
// status codes; the mobile and web clients branch on them verbatim.
const (
	ReasonLimitReached = "LIMIT_REACHED"
	ReasonInvalidTier  = "INVALID_TIER"
	ReasonFileTooLarge = "FILE_TOO_LARGE"
	ReasonNotSignedIn  = "NOT_SIGNED_IN"
)

// FeatureCheck is the verdict for one feature under the caller's
// current subscription and billing period. A denial is a verdict, not
// an error: errors mean the check itself could not run.
type FeatureCheck struct {
	Allowed      bool       `json:"allowed"`
	Reason       string     `json:"reason,omitempty"`
	Message      string     `json:"message,omitempty"`
	Tier         tier.ID    `json:"tier,omitempty"`
	CurrentUsage int64      `json:"current_usage"`
	Limit        int64      `json:"limit"`
	Remaining    int64      `json:"remaining"`
	Unlimited    bool       `json:"unlimited"`
	ResetDate    *time.Time `json:"reset_date,omitempty"`
}

type FileSizeCheck struct {
	Allowed      bool    `json:"allowed"`
	Reason       string  `json:"reason,omitempty"`
	Message      string  `json:"message,omitempty"`
	Tier         tier.ID `json:"tier,omitempty"`
	MaxBytes     int64   `json:"max_bytes"`
	CurrentBytes int64   `json:"current_bytes"`
}

type RecordRequest struct {
	UserID   string         `json:"user_id"`
	Feature  tier.Feature   `json:"feature"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Service answers "may this user do this right now" questions. Checks
// read the ledger without reserving anything, so two requests racing
// past the same last slot can both be admitted; the quota is a soft
// limit by one or two units, never a hard gate.
type Service interface {
	CheckFeature(ctx context.Context, userID string, feature tier.Feature) (*FeatureCheck, error)
	CheckFileSize(ctx context.Context, userID string, sizeBytes int64) (*FileSizeCheck, error)
	Record(ctx context.Context, req RecordRequest) error
}

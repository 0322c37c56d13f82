package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/entitlement/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/period"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	usagedomain "github.com/DevVaradPatil/resume-analyzer/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In
	Log     *zap.Logger
	Clock   clock.Clock
	Catalog *tier.Catalog
	SubSvc  subscriptiondomain.Service
	UsedSvc usagedomain.Service
}

type service struct {
	log     *zap.Logger
	clock   clock.Clock
	catalog *tier.Catalog
	subSvc  subscriptiondomain.Service
	usedSvc usagedomain.Service
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:     p.Log.Named("entitlement.service"),
		clock:   p.Clock,
		catalog: p.Catalog,
		subSvc:  p.SubSvc,
		usedSvc: p.UsedSvc,
	}
}

func (s *service) CheckFeature(ctx context.Context, userID string, feature tier.Feature) (*domain.FeatureCheck, error) {
	if userID == "" {
		return &domain.FeatureCheck{
			Allowed: false,
			Reason:  domain.ReasonNotSignedIn,
			Message: "Sign in to use this feature",
		}, nil
	}
	if _, err := tier.ParseFeature(string(feature)); err != nil {
		return nil, err
	}
	sub, err := s.subSvc.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits, err := s.catalog.LimitsFor(sub.Tier)
	if err != nil {
		if errors.Is(err, tier.ErrInvalidTier) {
			// Stored tier no longer exists in the catalog. Deny rather
			// than guess at a quota.
			s.log.Warn("subscription carries unknown tier",
				zap.String("user_id", userID),
				zap.String("tier", string(sub.Tier)),
			)
			return &domain.FeatureCheck{
				Allowed: false,
				Reason:  domain.ReasonInvalidTier,
				Message: "Subscription tier is not recognized",
				Tier:    sub.Tier,
			}, nil
		}
		return nil, err
	}

	quota := int64(limits.Quotas[feature])
	if quota == tier.Unlimited {
		return &domain.FeatureCheck{
			Allowed:   true,
			Tier:      sub.Tier,
			Limit:     tier.Unlimited,
			Remaining: tier.Unlimited,
			Unlimited: true,
		}, nil
	}

	now := s.clock.Now()
	count, err := s.usedSvc.Count(ctx, userID, feature, period.Key(now))
	if err != nil {
		return nil, err
	}
	reset := period.NextStart(now)
	if count >= quota {
		return &domain.FeatureCheck{
			Allowed: false,
			Reason:  domain.ReasonLimitReached,
			Message: fmt.Sprintf("You've reached your monthly limit of %d for this feature. Upgrade your plan or wait until %s.",
				quota, reset.Format("January 2, 2006")),
			Tier:         sub.Tier,
			CurrentUsage: count,
			Limit:        quota,
			ResetDate:    &reset,
		}, nil
	}
	return &domain.FeatureCheck{
		Allowed:      true,
		Tier:         sub.Tier,
		CurrentUsage: count,
		Limit:        quota,
		Remaining:    quota - count,
		ResetDate:    &reset,
	}, nil
}

func (s *service) CheckFileSize(ctx context.Context, userID string, sizeBytes int64) (*domain.FileSizeCheck, error) {
	if userID == "" {
		return &domain.FileSizeCheck{Allowed: false, Reason: domain.ReasonNotSignedIn}, nil
	}
	sub, err := s.subSvc.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	limits, err := s.catalog.LimitsFor(sub.Tier)
	if err != nil {
		if errors.Is(err, tier.ErrInvalidTier) {
			return &domain.FileSizeCheck{Allowed: false, Reason: domain.ReasonInvalidTier}, nil
		}
		return nil, err
	}
	if sizeBytes > limits.MaxFileSize {
		return &domain.FileSizeCheck{
			Allowed: false,
			Reason:  domain.ReasonFileTooLarge,
			Message: fmt.Sprintf("File size (%.2fMB) exceeds the %dMB limit for %s tier",
				float64(sizeBytes)/(1<<20), limits.MaxFileSize/(1<<20), limits.Name),
			Tier:         sub.Tier,
			MaxBytes:     limits.MaxFileSize,
			CurrentBytes: sizeBytes,
		}, nil
	}
	return &domain.FileSizeCheck{
		Allowed:      true,
		Tier:         sub.Tier,
		MaxBytes:     limits.MaxFileSize,
		CurrentBytes: sizeBytes,
	}, nil
}

// Record appends one unit of usage. Callers treat failures as
// non-fatal: the feature already ran, so a lost increment only under-
// counts the ledger.
func (s *service) Record(ctx context.Context, req domain.RecordRequest) error {
	if _, err := s.usedSvc.Increment(ctx, usagedomain.IncrementRequest{
		UserID:   req.UserID,
		Feature:  req.Feature,
		Metadata: req.Metadata,
	}); err != nil {
		s.log.Warn("record usage failed",
			zap.String("user_id", req.UserID),
			zap.String("feature", string(req.Feature)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

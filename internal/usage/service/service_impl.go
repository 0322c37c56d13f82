package service

import (
	"context"
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/period"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"github.com/DevVaradPatil/resume-analyzer/internal/usage/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("usage.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *service) Increment(ctx context.Context, req domain.IncrementRequest) (*domain.FeatureUsage, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if _, err := tier.ParseFeature(string(req.Feature)); err != nil {
		return nil, err
	}
	if req.PeriodKey == "" {
		req.PeriodKey = period.Key(s.clock.Now())
	}
	if !period.ValidKey(req.PeriodKey) {
		return nil, domain.ErrInvalidPeriodKey
	}

	metadata, err := s.mergedMetadata(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	row := &domain.FeatureUsage{
		ID:        s.genID.Generate().Int64(),
		UserID:    req.UserID,
		Feature:   req.Feature,
		PeriodKey: req.PeriodKey,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.IncrementOrInsert(ctx, s.db, row); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, s.db, req.UserID, req.Feature, req.PeriodKey)
}

// mergedMetadata overlays the request metadata on whatever the ledger
// row already carries. Counter increments stay atomic in SQL; metadata
// is last-write-wins under contention.
func (s *service) mergedMetadata(ctx context.Context, req domain.IncrementRequest) (datatypes.JSONMap, error) {
	existing, err := s.repo.Find(ctx, s.db, req.UserID, req.Feature, req.PeriodKey)
	if err != nil {
		return nil, err
	}
	merged := datatypes.JSONMap{}
	if existing != nil {
		for k, v := range existing.Metadata {
			merged[k] = v
		}
	}
	for k, v := range req.Metadata {
		merged[k] = v
	}
	if len(merged) == 0 {
		return nil, nil
	}
	return merged, nil
}

func (s *service) Count(ctx context.Context, userID string, feature tier.Feature, periodKey string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domain.ErrInvalidUserID
	}
	if !period.ValidKey(periodKey) {
		return 0, domain.ErrInvalidPeriodKey
	}
	row, err := s.repo.Find(ctx, s.db, userID, feature, periodKey)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.UsageCount, nil
}

func (s *service) Summary(ctx context.Context, userID string, periodKey string) (map[tier.Feature]int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if !period.ValidKey(periodKey) {
		return nil, domain.ErrInvalidPeriodKey
	}
	rows, err := s.repo.ListForPeriod(ctx, s.db, userID, periodKey)
	if err != nil {
		return nil, err
	}
	summary := make(map[tier.Feature]int64, len(tier.Features()))
	for _, f := range tier.Features() {
		summary[f] = 0
	}
	for _, row := range rows {
		summary[row.Feature] = row.UsageCount
	}
	return summary, nil
}

package service

import (
	"context"
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/period"
	"github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	"github.com/DevVaradPatil/resume-analyzer/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Catalog *tier.Catalog
	Repo    domain.Repository
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	catalog *tier.Catalog
	repo    domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log.Named("subscription.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		catalog: p.Catalog,
		repo:    p.Repo,
	}
}

func (s *service) GetOrCreate(ctx context.Context, userID string) (*domain.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	existing, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.clock.Now()
	start, end := period.Bounds(now)
	sub := &domain.Subscription{
		ID:                 s.genID.Generate().Int64(),
		UserID:             userID,
		Tier:               tier.Free,
		Status:             domain.StatusActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   end,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, s.db, sub); err != nil {
		// Lost the race to a concurrent first call; the winner's row is
		// the subscription of record.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindByUserID(ctx, s.db, userID)
		}
		return nil, err
	}
	s.log.Info("subscription created", zap.String("user_id", userID), zap.String("tier", string(sub.Tier)))
	return sub, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	return s.repo.FindByUserID(ctx, s.db, userID)
}

func (s *service) SetTier(ctx context.Context, userID string, id tier.ID) (*domain.Subscription, error) {
	if !s.catalog.Has(id) {
		return nil, tier.ErrInvalidTier
	}
	sub, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}

	now := s.clock.Now()
	start, end := period.Bounds(now)
	sub.Tier = id
	sub.Status = domain.StatusActive
	sub.CurrentPeriodStart = start
	sub.CurrentPeriodEnd = end
	sub.UpdatedAt = now
	if err := s.repo.UpdateTier(ctx, s.db, sub); err != nil {
		return nil, err
	}
	s.log.Info("subscription tier changed", zap.String("user_id", userID), zap.String("tier", string(id)))
	return sub, nil
}

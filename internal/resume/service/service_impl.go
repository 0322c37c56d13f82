package service

import (
	"context"
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	"github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
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
		log:   p.Log.Named("resume.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *service) SaveAnalysis(ctx context.Context, req domain.SaveRequest) (*domain.Resume, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, domain.ErrInvalidUserID
	}

	now := s.clock.Now()
	resume := &domain.Resume{
		ID:             s.genID.Generate().Int64(),
		UserID:         req.UserID,
		FileName:       req.FileName,
		Content:        req.Content,
		AnalysisResult: datatypes.JSONMap(req.AnalysisResult),
		AnalysisType:   req.AnalysisType,
		JobDescription: req.JobDescription,
		Score:          req.Score,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.InsertResume(ctx, s.db, resume); err != nil {
		return nil, err
	}
	return resume, nil
}

// LogAnalysis is fire-and-forget from the caller's point of view: a
// failed log entry must never fail the analysis that produced it.
func (s *service) LogAnalysis(ctx context.Context, req domain.LogRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return domain.ErrInvalidUserID
	}

	entry := &domain.AnalysisLog{
		ID:           s.genID.Generate().Int64(),
		UserID:       req.UserID,
		ResumeID:     req.ResumeID,
		ModelUsed:    req.ModelUsed,
		AnalysisType: req.AnalysisType,
		SectionType:  req.SectionType,
		Success:      req.Success,
		ErrorMessage: req.ErrorMessage,
		DurationMs:   req.DurationMs,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.InsertLog(ctx, s.db, entry); err != nil {
		s.log.Warn("analysis log write failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.ResumeSummary, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}
	if req.Limit > maxListLimit {
		req.Limit = maxListLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return s.repo.ListByUser(ctx, s.db, req.UserID, req.Limit, req.Offset)
}

func (s *service) GetByID(ctx context.Context, userID string, id int64) (*domain.Resume, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	resume, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, domain.ErrNotFound
	}
	return resume, nil
}

func (s *service) Delete(ctx context.Context, userID string, id int64) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrInvalidUserID
	}
	affected, err := s.repo.DeleteByID(ctx, s.db, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *service) UserStats(ctx context.Context, userID string) (*domain.Stats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	return s.repo.StatsByUser(ctx, s.db, userID)
}

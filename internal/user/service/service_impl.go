package service

import (
	"context"
	"strings"

	"github.com/DevVaradPatil/resume-analyzer/internal/clock"
	userdomain "github.com/DevVaradPatil/resume-analyzer/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  userdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  userdomain.Repository
}

func NewService(p ServiceParam) userdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Sync(ctx context.Context, identity userdomain.IdentityUser) (*userdomain.User, error) {
	externalID := strings.TrimSpace(identity.ExternalID)
	if externalID == "" {
		return nil, userdomain.ErrInvalidExternalID
	}
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, userdomain.ErrInvalidEmail
	}

	now := s.clock.Now()
	user := &userdomain.User{
		ID:         s.genID.Generate(),
		ExternalID: externalID,
		Email:      email,
		Name:       displayName(identity),
		AvatarURL:  optional(identity.AvatarURL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	synced, err := s.repo.Upsert(ctx, s.db, user)
	if err != nil {
		return nil, err
	}
	return synced, nil
}

func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*userdomain.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, userdomain.ErrInvalidExternalID
	}

	user, err := s.repo.FindByExternalID(ctx, s.db, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userdomain.ErrNotFound
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, externalID string) error {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return userdomain.ErrInvalidExternalID
	}
	return s.repo.DeleteByExternalID(ctx, s.db, externalID)
}

func displayName(identity userdomain.IdentityUser) *string {
	name := strings.TrimSpace(strings.TrimSpace(identity.FirstName) + " " + strings.TrimSpace(identity.LastName))
	return optional(name)
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

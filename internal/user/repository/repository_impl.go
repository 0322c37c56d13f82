package repository

import (
	"context"

	userdomain "github.com/DevVaradPatil/resume-analyzer/internal/user/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() userdomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, user *userdomain.User) (*userdomain.User, error) {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO users (id, external_id, email, name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (external_id) DO UPDATE SET
		   email = excluded.email,
		   name = excluded.name,
		   avatar_url = excluded.avatar_url,
		   updated_at = excluded.updated_at`,
		user.ID,
		user.ExternalID,
		user.Email,
		user.Name,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	).Error
	if err != nil {
		return nil, err
	}
	return r.FindByExternalID(ctx, db, user.ExternalID)
}

func (r *repo) FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*userdomain.User, error) {
	var user userdomain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, external_id, email, name, avatar_url, created_at, updated_at
		 FROM users WHERE external_id = ?`,
		externalID,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) DeleteByExternalID(ctx context.Context, db *gorm.DB, externalID string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM users WHERE external_id = ?`,
		externalID,
	).Error
}

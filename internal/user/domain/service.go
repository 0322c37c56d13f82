package domain

import (
	"context"
	"errors"
)

// IdentityUser is the provider-agnostic shape of an identity event payload.
type IdentityUser struct {
	ExternalID string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	AvatarURL  string `json:"image_url"`
}

type Service interface {
	// Sync upserts the user row for an identity-provider account.
	Sync(ctx context.Context, identity IdentityUser) (*User, error)
	// GetByExternalID returns the user, or ErrNotFound.
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	// Delete removes the user row; subscriptions and usage cascade at the
	// storage layer as part of account deletion.
	Delete(ctx context.Context, externalID string) error
}

var (
	ErrInvalidExternalID = errors.New("invalid_external_id")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrNotFound          = errors.New("user_not_found")
)

// Package domain contains persistence models for synced identity users.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User mirrors an identity-provider account. Rows are created and updated
// through webhook sync or lazily on first authenticated request.
type User struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	ExternalID string       `gorm:"type:text;not null;uniqueIndex"`
	Email      string       `gorm:"type:text;not null"`
	Name       *string      `gorm:"type:text"`
	AvatarURL  *string      `gorm:"type:text"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

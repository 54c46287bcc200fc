// Package models contains domain entities for the storefront content and admin sessions
package models

import (
	"time"

	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin is a storefront administrator. RefreshToken holds the one refresh
// token currently accepted for this account; nil means no active session.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_admins_uuid" json:"uuid"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_admins_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RefreshToken *string   `gorm:"type:text" json:"-"`
	Role         string    `gorm:"size:32;not null;default:'admin'" json:"role"`

	IsActive    *bool      `gorm:"default:true;index:idx_admins_is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_admins_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_admins_last_login_at" json:"last_login_at,omitempty"`
}

func (Admin) TableName() string {
	return "admins"
}

// BeforeCreate normalizes the email and fills the UUID and role.
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	a.Email = utils.NormalizeEmail(a.Email)
	if a.Role == "" {
		a.Role = utils.AdminRole
	}
	return nil
}

// HasSession reports whether a refresh token is currently stored.
func (a *Admin) HasSession() bool {
	return a.RefreshToken != nil && *a.RefreshToken != ""
}

// AdminFilter represents filter criteria for admin queries
type AdminFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	Email    *string
	IsActive *bool
}

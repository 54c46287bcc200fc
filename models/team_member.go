package models

import (
	"time"

	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMember is a bio card on the "meet the farmers" page.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Role      string    `gorm:"type:varchar(255);not null" json:"role"`
	Bio       string    `gorm:"type:text;not null;default:''" json:"bio"`
	PhotoURL  *string   `gorm:"type:text" json:"photo_url,omitempty"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TeamMember) TableName() string { return "team_members" }

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = utils.UTCNow()
	}
	return nil
}

type TeamMemberFilter struct {
	ID   *uint
	UUID *uuid.UUID
}

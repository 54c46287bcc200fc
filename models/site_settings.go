package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirphl/farm-storefront/utils"
)

// SocialLinks maps a network name ("instagram", "facebook") to a profile URL.
type SocialLinks map[string]string

// Scan implements the sql.Scanner interface for SocialLinks (jsonb column).
func (s *SocialLinks) Scan(value any) error {
	if value == nil {
		*s = SocialLinks{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into SocialLinks", value)
	}

	links := SocialLinks{}
	if err := json.Unmarshal(raw, &links); err != nil {
		return fmt.Errorf("failed to decode social links: %w", err)
	}
	*s = links
	return nil
}

// Value implements the driver.Valuer interface for SocialLinks.
func (s SocialLinks) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// SiteSettingsID is the primary key of the singleton settings row.
const SiteSettingsID = 1

// SiteSettings is the singleton holding branding and contact details.
type SiteSettings struct {
	ID           uint        `gorm:"primaryKey" json:"-"`
	SiteName     string      `gorm:"type:varchar(255);not null" json:"site_name"`
	Tagline      *string     `gorm:"type:varchar(512)" json:"tagline,omitempty"`
	LogoURL      *string     `gorm:"type:text" json:"logo_url,omitempty"`
	ContactEmail *string     `gorm:"type:varchar(255)" json:"contact_email,omitempty"`
	ContactPhone *string     `gorm:"type:varchar(64)" json:"contact_phone,omitempty"`
	Address      *string     `gorm:"type:text" json:"address,omitempty"`
	SocialLinks  SocialLinks `gorm:"type:jsonb;not null;default:'{}'" json:"social_links"`
	UpdatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SiteSettings) TableName() string { return "site_settings" }

// DefaultSiteSettings is served until an admin saves the first version.
func DefaultSiteSettings() *SiteSettings {
	return &SiteSettings{
		ID:          SiteSettingsID,
		SiteName:    "Our Farm",
		SocialLinks: SocialLinks{},
		UpdatedAt:   utils.UTCNow(),
	}
}

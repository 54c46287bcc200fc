package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaKind distinguishes gallery images from videos.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Valid checks if the kind is known.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindImage, MediaKindVideo:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for MediaKind.
func (k *MediaKind) Scan(value any) error {
	if value == nil {
		*k = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*k = MediaKind(v)
	case []byte:
		*k = MediaKind(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MediaKind", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for MediaKind.
func (k MediaKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid MediaKind: %s", k)
	}
	return string(k), nil
}

// GalleryMedia is an uploaded photo or clip. ObjectKey addresses the blob in
// object storage; PublicURL is what the storefront renders.
type GalleryMedia struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Kind             MediaKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Caption          *string   `gorm:"type:varchar(512)" json:"caption,omitempty"`
	OriginalFilename string    `gorm:"type:varchar(255);not null" json:"original_filename"`
	ObjectKey        string    `gorm:"type:text;not null" json:"-"`
	PublicURL        string    `gorm:"type:text;not null" json:"url"`
	MimeType         string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	SizeBytes        int64     `gorm:"type:bigint;not null" json:"size_bytes"`
	Width            *int      `json:"width,omitempty"`
	Height           *int      `json:"height,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (GalleryMedia) TableName() string { return "gallery_media" }

// BeforeCreate ensures UUID and timestamps are set.
func (m *GalleryMedia) BeforeCreate(tx *gorm.DB) error {
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

type GalleryMediaFilter struct {
	ID   *uint
	UUID *uuid.UUID
	Kind *MediaKind
}

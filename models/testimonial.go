package models

import (
	"time"

	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Testimonial struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	AuthorName  string    `gorm:"type:varchar(255);not null" json:"author_name"`
	Location    *string   `gorm:"type:varchar(255)" json:"location,omitempty"`
	Quote       string    `gorm:"type:text;not null" json:"quote"`
	Rating      int       `gorm:"type:smallint;not null;default:5" json:"rating"`
	IsPublished *bool     `gorm:"not null;default:true;index" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Testimonial) TableName() string { return "testimonials" }

func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = utils.UTCNow()
	}
	return nil
}

type TestimonialFilter struct {
	ID          *uint
	UUID        *uuid.UUID
	IsPublished *bool
}

package models

import (
	"time"

	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalogue entry shown on the storefront. PriceCents is in minor units.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex:uk_products_slug" json:"slug"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Category    string    `gorm:"type:varchar(64);not null;index" json:"category"`
	PriceCents  int64     `gorm:"type:bigint;not null" json:"price_cents"`
	Unit        string    `gorm:"type:varchar(32);not null;default:'each'" json:"unit"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	InStock     *bool     `gorm:"not null;default:true" json:"in_stock"`
	Featured    *bool     `gorm:"not null;default:false;index" json:"featured"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate ensures UUID, slug and timestamps are set.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = utils.Slugify(p.Name)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// ProductFilter represents filter criteria for product queries.
type ProductFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	Slug     *string
	Category *string
	Featured *bool
	InStock  *bool
}

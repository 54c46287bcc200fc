package dto

import (
	"io"

	"github.com/amirphl/farm-storefront/models"
)

// ProductListQuery filters GET /api/products
type ProductListQuery struct {
	Category string `query:"category" validate:"omitempty,max=64"`
	Featured *bool  `query:"featured"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// UpsertProductRequest creates or replaces a product
type UpsertProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"omitempty,max=255"`
	Description string  `json:"description" validate:"max=10000"`
	Category    string  `json:"category" validate:"required,max=64"`
	PriceCents  int64   `json:"price_cents" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"omitempty,max=32"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	InStock     *bool   `json:"in_stock"`
	Featured    *bool   `json:"featured"`
	SortOrder   int     `json:"sort_order"`
}

// UpsertTestimonialRequest creates or replaces a testimonial
type UpsertTestimonialRequest struct {
	AuthorName  string  `json:"author_name" validate:"required,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Quote       string  `json:"quote" validate:"required,max=2000"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	IsPublished *bool   `json:"is_published"`
}

// UpsertTeamMemberRequest creates or replaces a team member
type UpsertTeamMemberRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Role      string  `json:"role" validate:"required,max=255"`
	Bio       string  `json:"bio" validate:"max=5000"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url"`
	SortOrder int     `json:"sort_order"`
}

// UpdateSiteSettingsRequest replaces the site configuration
type UpdateSiteSettingsRequest struct {
	SiteName     string            `json:"site_name" validate:"required,max=255"`
	Tagline      *string           `json:"tagline" validate:"omitempty,max=512"`
	LogoURL      *string           `json:"logo_url" validate:"omitempty,url"`
	ContactEmail *string           `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string           `json:"contact_phone" validate:"omitempty,max=64"`
	Address      *string           `json:"address" validate:"omitempty,max=1000"`
	SocialLinks  map[string]string `json:"social_links" validate:"omitempty,dive,keys,max=32,endkeys,url"`
}

// GalleryUploadRequest carries an uploaded file from the multipart form
type GalleryUploadRequest struct {
	Filename string
	Size     int64
	Caption  *string
	File     io.ReadSeeker
}

type ProductListResponse = ListResponse[*models.Product]
type TestimonialListResponse = ListResponse[*models.Testimonial]
type TeamMemberListResponse = ListResponse[*models.TeamMember]
type GalleryListResponse = ListResponse[*models.GalleryMedia]

// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/farm-storefront/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// ContentRepository adds the UUID-addressed update and delete used by admin CRUD
type ContentRepository[T any, F any] interface {
	Repository[T, F]
	ByUUID(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, entity *T) error
	DeleteByUUID(ctx context.Context, id uuid.UUID) (bool, error)
}

// AdminRepository is the credential store behind admin sessions
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByEmail(ctx context.Context, email string) (*models.Admin, error)
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Admin, error)

	// StoreRefreshToken overwrites the stored refresh token and stamps the login time.
	StoreRefreshToken(ctx context.Context, adminID uint, token string, loginAt time.Time) error

	// SwapRefreshToken replaces the stored refresh token with next only while it
	// still equals expected. An empty next clears it. Reports whether the swap happened.
	SwapRefreshToken(ctx context.Context, adminID uint, expected, next string) (bool, error)
}

type ProductRepository interface {
	ContentRepository[models.Product, models.ProductFilter]
	BySlug(ctx context.Context, slug string) (*models.Product, error)
}

type TestimonialRepository interface {
	ContentRepository[models.Testimonial, models.TestimonialFilter]
}

type TeamMemberRepository interface {
	ContentRepository[models.TeamMember, models.TeamMemberFilter]
}

type GalleryMediaRepository interface {
	ContentRepository[models.GalleryMedia, models.GalleryMediaFilter]

	// DeleteWithObject deletes the row in a transaction that commits only when
	// removeObject succeeds. Reports whether a row existed.
	DeleteWithObject(ctx context.Context, id uuid.UUID, removeObject func(context.Context) error) (bool, error)
}

// SiteSettingsRepository reads and writes the singleton settings row
type SiteSettingsRepository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Upsert(ctx context.Context, settings *models.SiteSettings) error
}

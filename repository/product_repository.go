package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/farm-storefront/models"
	"gorm.io/gorm"
)

// ProductRepositoryImpl implements ProductRepository interface
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// BySlug retrieves a product by its slug
func (r *ProductRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.getDB(ctx).Where("slug = ?", slug).Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) applyFilter(filter models.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.ID != nil {
			query = query.Where("id = ?", *filter.ID)
		}
		if filter.UUID != nil {
			query = query.Where("uuid = ?", *filter.UUID)
		}
		if filter.Slug != nil {
			query = query.Where("slug = ?", *filter.Slug)
		}
		if filter.Category != nil {
			query = query.Where("category = ?", *filter.Category)
		}
		if filter.Featured != nil {
			query = query.Where("featured = ?", *filter.Featured)
		}
		if filter.InStock != nil {
			query = query.Where("in_stock = ?", *filter.InStock)
		}
		return query
	}
}

// ByFilter retrieves products based on filter criteria
func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	return r.findByFilter(ctx, r.applyFilter(filter), orderBy, limit, offset)
}

// Count returns the number of products matching the filter
func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	return r.countByFilter(ctx, r.applyFilter(filter))
}

// Exists checks if any product matching the filter exists
func (r *ProductRepositoryImpl) Exists(ctx context.Context, filter models.ProductFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

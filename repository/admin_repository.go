package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/utils"
	"gorm.io/gorm"
)

// AdminRepositoryImpl implements AdminRepository interface
type AdminRepositoryImpl struct {
	*BaseRepository[models.Admin, models.AdminFilter]
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &AdminRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Admin, models.AdminFilter](db),
	}
}

// ByEmail retrieves an admin by normalized email
func (r *AdminRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.getDB(ctx).Where("email = ?", utils.NormalizeEmail(email)).Take(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}

	return &admin, nil
}

// StoreRefreshToken unconditionally records a fresh session for the admin
func (r *AdminRepositoryImpl) StoreRefreshToken(ctx context.Context, adminID uint, token string, loginAt time.Time) error {
	res := r.getDB(ctx).Model(&models.Admin{}).
		Where("id = ?", adminID).
		Updates(map[string]any{
			"refresh_token": token,
			"last_login_at": loginAt,
			"updated_at":    utils.UTCNow(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to store refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to store refresh token: admin %d not found", adminID)
	}
	return nil
}

// SwapRefreshToken is a compare-and-set on admins.refresh_token. Two callers
// presenting the same expected value cannot both succeed.
func (r *AdminRepositoryImpl) SwapRefreshToken(ctx context.Context, adminID uint, expected, next string) (bool, error) {
	if expected == "" {
		return false, nil
	}

	var value any
	if next != "" {
		value = next
	}

	res := r.getDB(ctx).Model(&models.Admin{}).
		Where("id = ? AND refresh_token = ?", adminID, expected).
		Updates(map[string]any{
			"refresh_token": value,
			"updated_at":    utils.UTCNow(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to swap refresh token: %w", res.Error)
	}

	return res.RowsAffected == 1, nil
}

func (r *AdminRepositoryImpl) applyFilter(filter models.AdminFilter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.ID != nil {
			query = query.Where("id = ?", *filter.ID)
		}
		if filter.UUID != nil {
			query = query.Where("uuid = ?", *filter.UUID)
		}
		if filter.Email != nil {
			query = query.Where("email = ?", utils.NormalizeEmail(*filter.Email))
		}
		if filter.IsActive != nil {
			query = query.Where("is_active = ?", *filter.IsActive)
		}
		return query
	}
}

// ByFilter retrieves admins based on filter criteria
func (r *AdminRepositoryImpl) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	return r.findByFilter(ctx, r.applyFilter(filter), orderBy, limit, offset)
}

// Count returns the number of admins matching the filter
func (r *AdminRepositoryImpl) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	return r.countByFilter(ctx, r.applyFilter(filter))
}

// Exists checks if any admin matching the filter exists
func (r *AdminRepositoryImpl) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

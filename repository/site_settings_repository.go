package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SiteSettingsRepositoryImpl struct {
	db *gorm.DB
}

func NewSiteSettingsRepository(db *gorm.DB) SiteSettingsRepository {
	return &SiteSettingsRepositoryImpl{db: db}
}

func (r *SiteSettingsRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Get returns the stored settings, or nil when none were saved yet
func (r *SiteSettingsRepositoryImpl) Get(ctx context.Context) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := r.getDB(ctx).Take(&settings, models.SiteSettingsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load site settings: %w", err)
	}
	return &settings, nil
}

// Upsert writes the singleton row
func (r *SiteSettingsRepositoryImpl) Upsert(ctx context.Context, settings *models.SiteSettings) error {
	settings.ID = models.SiteSettingsID
	settings.UpdatedAt = utils.UTCNow()
	if settings.SocialLinks == nil {
		settings.SocialLinks = models.SocialLinks{}
	}

	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to save site settings: %w", err)
	}
	return nil
}

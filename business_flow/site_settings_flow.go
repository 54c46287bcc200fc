package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/services"
	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/repository"
	"github.com/amirphl/farm-storefront/utils"
)

const siteConfigCacheResource = "site-config"

// SiteSettingsFlow reads and replaces the singleton site configuration
type SiteSettingsFlow interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, req *dto.UpdateSiteSettingsRequest, metadata *ClientMetadata) (*models.SiteSettings, error)
}

// SiteSettingsFlowImpl implements SiteSettingsFlow
type SiteSettingsFlowImpl struct {
	settingsRepo repository.SiteSettingsRepository
	cache        services.ContentCache
}

// NewSiteSettingsFlow creates a new site settings flow instance
func NewSiteSettingsFlow(settingsRepo repository.SiteSettingsRepository, cache services.ContentCache) SiteSettingsFlow {
	return &SiteSettingsFlowImpl{
		settingsRepo: settingsRepo,
		cache:        cache,
	}
}

// Get returns the stored settings, or the defaults when none were saved yet
func (f *SiteSettingsFlowImpl) Get(ctx context.Context) (*models.SiteSettings, error) {
	var cached models.SiteSettings
	if f.cache.GetJSON(ctx, siteConfigCacheResource, "", &cached) {
		return &cached, nil
	}

	settings, err := f.settingsRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("SITE_CONFIG_LOOKUP_FAILED", "Failed to load site configuration", err)
	}
	if settings == nil {
		settings = models.DefaultSiteSettings()
	}
	if settings.SocialLinks == nil {
		settings.SocialLinks = models.SocialLinks{}
	}

	f.cache.SetJSON(ctx, siteConfigCacheResource, "", settings)
	return settings, nil
}

func (f *SiteSettingsFlowImpl) Update(ctx context.Context, req *dto.UpdateSiteSettingsRequest, metadata *ClientMetadata) (*models.SiteSettings, error) {
	links := models.SocialLinks{}
	for network, url := range req.SocialLinks {
		network = strings.ToLower(strings.TrimSpace(network))
		if network == "" || strings.TrimSpace(url) == "" {
			continue
		}
		links[network] = strings.TrimSpace(url)
	}

	settings := &models.SiteSettings{
		ID:           models.SiteSettingsID,
		SiteName:     strings.TrimSpace(req.SiteName),
		Tagline:      req.Tagline,
		LogoURL:      req.LogoURL,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		SocialLinks:  links,
		UpdatedAt:    utils.UTCNow(),
	}
	if settings.ContactEmail != nil {
		settings.ContactEmail = utils.ToPtr(utils.NormalizeEmail(*settings.ContactEmail))
	}

	if err := f.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, NewBusinessError("SITE_CONFIG_UPDATE_FAILED", "Failed to save site configuration", err)
	}

	f.cache.Invalidate(ctx, siteConfigCacheResource)
	log.Printf("site configuration updated %s", metadata)
	return settings, nil
}

package handlers

import (
	"github.com/amirphl/farm-storefront/app/dto"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SiteSettingsHandler serves the site configuration
type SiteSettingsHandler struct {
	flow      businessflow.SiteSettingsFlow
	validator *validator.Validate
}

// NewSiteSettingsHandler creates a new site settings handler
func NewSiteSettingsHandler(flow businessflow.SiteSettingsFlow) *SiteSettingsHandler {
	return &SiteSettingsHandler{flow: flow, validator: validator.New()}
}

// Get returns the site configuration
// @Summary Get site configuration
// @Tags Site Config
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.SiteSettings} "Site configuration"
// @Router /api/site-config [get]
func (h *SiteSettingsHandler) Get(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	settings, err := h.flow.Get(ctx)
	if err != nil {
		return contentErrorResponse(c, err, "Failed to load site configuration")
	}
	return SuccessResponse(c, fiber.StatusOK, "Site configuration retrieved", settings)
}

// Update replaces the site configuration
// @Summary Update site configuration
// @Tags Site Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSiteSettingsRequest true "Site configuration"
// @Success 200 {object} dto.APIResponse{data=models.SiteSettings} "Updated"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /api/site-config [put]
func (h *SiteSettingsHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateSiteSettingsRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	settings, err := h.flow.Update(ctx, &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to save site configuration")
	}
	return SuccessResponse(c, fiber.StatusOK, "Site configuration updated", settings)
}

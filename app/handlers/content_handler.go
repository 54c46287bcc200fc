package handlers

import (
	"github.com/amirphl/farm-storefront/app/dto"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TestimonialHandler serves customer testimonials
type TestimonialHandler struct {
	flow      businessflow.TestimonialFlow
	validator *validator.Validate
}

// NewTestimonialHandler creates a new testimonial handler
func NewTestimonialHandler(flow businessflow.TestimonialFlow) *TestimonialHandler {
	return &TestimonialHandler{flow: flow, validator: validator.New()}
}

// List returns published testimonials
// @Summary List testimonials
// @Tags Testimonials
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.TestimonialListResponse} "Testimonials"
// @Router /api/testimonials [get]
func (h *TestimonialHandler) List(c fiber.Ctx) error {
	return h.list(c, false)
}

// ListAll returns every testimonial including drafts
// @Summary List all testimonials
// @Tags Testimonials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TestimonialListResponse} "Testimonials"
// @Router /api/admin/testimonials [get]
func (h *TestimonialHandler) ListAll(c fiber.Ctx) error {
	return h.list(c, true)
}

func (h *TestimonialHandler) list(c fiber.Ctx, includeUnpublished bool) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	result, err := h.flow.List(ctx, includeUnpublished)
	if err != nil {
		return contentErrorResponse(c, err, "Failed to list testimonials")
	}
	return SuccessResponse(c, fiber.StatusOK, "Testimonials retrieved", result)
}

// Create adds a testimonial
// @Summary Create testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertTestimonialRequest true "Testimonial"
// @Success 201 {object} dto.APIResponse{data=models.Testimonial} "Created"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /api/testimonials [post]
func (h *TestimonialHandler) Create(c fiber.Ctx) error {
	var req dto.UpsertTestimonialRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	testimonial, err := h.flow.Create(ctx, &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to create testimonial")
	}
	return SuccessResponse(c, fiber.StatusCreated, "Testimonial created", testimonial)
}

// Update replaces a testimonial
// @Summary Update testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Testimonial UUID"
// @Param request body dto.UpsertTestimonialRequest true "Testimonial"
// @Success 200 {object} dto.APIResponse{data=models.Testimonial} "Updated"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/testimonials/{uuid} [put]
func (h *TestimonialHandler) Update(c fiber.Ctx) error {
	var req dto.UpsertTestimonialRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	testimonial, err := h.flow.Update(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to update testimonial")
	}
	return SuccessResponse(c, fiber.StatusOK, "Testimonial updated", testimonial)
}

// Delete removes a testimonial
// @Summary Delete testimonial
// @Tags Testimonials
// @Security BearerAuth
// @Param uuid path string true "Testimonial UUID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/testimonials/{uuid} [delete]
func (h *TestimonialHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	if err := h.flow.Delete(ctx, c.Params("uuid"), clientMetadata(c)); err != nil {
		return contentErrorResponse(c, err, "Failed to delete testimonial")
	}
	return SuccessResponse(c, fiber.StatusOK, "Testimonial deleted", nil)
}

// TeamHandler serves the team page
type TeamHandler struct {
	flow      businessflow.TeamFlow
	validator *validator.Validate
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(flow businessflow.TeamFlow) *TeamHandler {
	return &TeamHandler{flow: flow, validator: validator.New()}
}

// List returns team members
// @Summary List team members
// @Tags Team
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.TeamMemberListResponse} "Team"
// @Router /api/team [get]
func (h *TeamHandler) List(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	result, err := h.flow.List(ctx)
	if err != nil {
		return contentErrorResponse(c, err, "Failed to list team members")
	}
	return SuccessResponse(c, fiber.StatusOK, "Team retrieved", result)
}

// Create adds a team member
// @Summary Create team member
// @Tags Team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertTeamMemberRequest true "Team member"
// @Success 201 {object} dto.APIResponse{data=models.TeamMember} "Created"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /api/team [post]
func (h *TeamHandler) Create(c fiber.Ctx) error {
	var req dto.UpsertTeamMemberRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	member, err := h.flow.Create(ctx, &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to create team member")
	}
	return SuccessResponse(c, fiber.StatusCreated, "Team member created", member)
}

// Update replaces a team member
// @Summary Update team member
// @Tags Team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Team member UUID"
// @Param request body dto.UpsertTeamMemberRequest true "Team member"
// @Success 200 {object} dto.APIResponse{data=models.TeamMember} "Updated"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/team/{uuid} [put]
func (h *TeamHandler) Update(c fiber.Ctx) error {
	var req dto.UpsertTeamMemberRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	member, err := h.flow.Update(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to update team member")
	}
	return SuccessResponse(c, fiber.StatusOK, "Team member updated", member)
}

// Delete removes a team member
// @Summary Delete team member
// @Tags Team
// @Security BearerAuth
// @Param uuid path string true "Team member UUID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/team/{uuid} [delete]
func (h *TeamHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	if err := h.flow.Delete(ctx, c.Params("uuid"), clientMetadata(c)); err != nil {
		return contentErrorResponse(c, err, "Failed to delete team member")
	}
	return SuccessResponse(c, fiber.StatusOK, "Team member deleted", nil)
}

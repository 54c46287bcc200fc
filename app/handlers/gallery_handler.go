package handlers

import (
	"io"
	"strings"

	"github.com/amirphl/farm-storefront/app/dto"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/amirphl/farm-storefront/models"
	"github.com/gofiber/fiber/v3"
)

// GalleryHandler handles gallery listing, upload and removal
type GalleryHandler struct {
	flow businessflow.GalleryFlow
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(flow businessflow.GalleryFlow) *GalleryHandler {
	return &GalleryHandler{flow: flow}
}

// List returns gallery items
// @Summary List gallery
// @Tags Gallery
// @Produce json
// @Param kind query string false "image or video"
// @Success 200 {object} dto.APIResponse{data=dto.GalleryListResponse} "Gallery"
// @Failure 400 {object} dto.APIResponse "Unknown kind"
// @Router /api/gallery [get]
func (h *GalleryHandler) List(c fiber.Ctx) error {
	var kind *models.MediaKind
	if raw := strings.ToLower(c.Query("kind")); raw != "" {
		k := models.MediaKind(raw)
		kind = &k
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	result, err := h.flow.List(ctx, kind)
	if err != nil {
		return contentErrorResponse(c, err, "Failed to list gallery")
	}
	return SuccessResponse(c, fiber.StatusOK, "Gallery retrieved", result)
}

// Upload stores an image or video
// @Summary Upload gallery media
// @Description Upload an image or video (jpg/jpeg/png/gif/webp/mp4/mov/webm, <=25MB)
// @Tags Gallery
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Media file (<=25MB)"
// @Param caption formData string false "Caption"
// @Success 201 {object} dto.APIResponse{data=models.GalleryMedia} "Upload successful"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 413 {object} dto.APIResponse "File too large"
// @Failure 503 {object} dto.APIResponse "Storage not configured"
// @Router /api/gallery [post]
func (h *GalleryHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_FILE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", nil)
	}
	defer file.Close()

	req := dto.GalleryUploadRequest{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		File:     io.ReadSeeker(file),
	}
	if caption := strings.TrimSpace(c.FormValue("caption")); caption != "" {
		if len(caption) > 512 {
			return ErrorResponse(c, fiber.StatusBadRequest, "caption must be at most 512 characters", "VALIDATION_ERROR", nil)
		}
		req.Caption = &caption
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	media, err := h.flow.Upload(ctx, &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to upload media")
	}
	return SuccessResponse(c, fiber.StatusCreated, "Upload successful", media)
}

// Delete removes a gallery item and its stored object
// @Summary Delete gallery media
// @Tags Gallery
// @Security BearerAuth
// @Param uuid path string true "Media UUID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/gallery/{uuid} [delete]
func (h *GalleryHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	if err := h.flow.Delete(ctx, c.Params("uuid"), clientMetadata(c)); err != nil {
		return contentErrorResponse(c, err, "Failed to delete media")
	}
	return SuccessResponse(c, fiber.StatusOK, "Media deleted", nil)
}

package handlers

import (
	"strconv"

	"github.com/amirphl/farm-storefront/app/dto"
	businessflow "github.com/amirphl/farm-storefront/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ProductHandlerInterface defines the contract for product handlers
type ProductHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// ProductHandler serves the product catalogue
type ProductHandler struct {
	flow      businessflow.ProductFlow
	validator *validator.Validate
}

// NewProductHandler creates a new product handler
func NewProductHandler(flow businessflow.ProductFlow) *ProductHandler {
	return &ProductHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// List returns products
// @Summary List products
// @Tags Products
// @Produce json
// @Param category query string false "Category"
// @Param featured query bool false "Only featured (true) or only non-featured (false)"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.APIResponse{data=dto.ProductListResponse} "Products"
// @Failure 400 {object} dto.APIResponse "Invalid query"
// @Router /api/products [get]
func (h *ProductHandler) List(c fiber.Ctx) error {
	query := dto.ProductListQuery{
		Category: c.Query("category"),
		Limit:    fiber.Query[int](c, "limit"),
		Offset:   fiber.Query[int](c, "offset"),
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "featured must be true or false", "VALIDATION_ERROR", nil)
		}
		query.Featured = &featured
	}
	if err := h.validator.Struct(&query); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	result, err := h.flow.List(ctx, &query)
	if err != nil {
		return contentErrorResponse(c, err, "Failed to list products")
	}
	return SuccessResponse(c, fiber.StatusOK, "Products retrieved", result)
}

// Get returns one product
// @Summary Get product
// @Tags Products
// @Produce json
// @Param uuid path string true "Product UUID"
// @Success 200 {object} dto.APIResponse{data=models.Product} "Product"
// @Failure 400 {object} dto.APIResponse "Invalid id"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/products/{uuid} [get]
func (h *ProductHandler) Get(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	product, err := h.flow.Get(ctx, c.Params("uuid"))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to get product")
	}
	return SuccessResponse(c, fiber.StatusOK, "Product retrieved", product)
}

// Create adds a product
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertProductRequest true "Product"
// @Success 201 {object} dto.APIResponse{data=models.Product} "Created"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 401 {object} dto.AuthErrorResponse "Unauthorized"
// @Failure 409 {object} dto.APIResponse "Slug already in use"
// @Router /api/products [post]
func (h *ProductHandler) Create(c fiber.Ctx) error {
	var req dto.UpsertProductRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	product, err := h.flow.Create(ctx, &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to create product")
	}
	return SuccessResponse(c, fiber.StatusCreated, "Product created", product)
}

// Update replaces a product
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Product UUID"
// @Param request body dto.UpsertProductRequest true "Product"
// @Success 200 {object} dto.APIResponse{data=models.Product} "Updated"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Failure 409 {object} dto.APIResponse "Slug already in use"
// @Router /api/products/{uuid} [put]
func (h *ProductHandler) Update(c fiber.Ctx) error {
	var req dto.UpsertProductRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	ctx, cancel := createRequestContext()
	defer cancel()

	product, err := h.flow.Update(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		return contentErrorResponse(c, err, "Failed to update product")
	}
	return SuccessResponse(c, fiber.StatusOK, "Product updated", product)
}

// Delete removes a product
// @Summary Delete product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Product UUID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/products/{uuid} [delete]
func (h *ProductHandler) Delete(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	if err := h.flow.Delete(ctx, c.Params("uuid"), clientMetadata(c)); err != nil {
		return contentErrorResponse(c, err, "Failed to delete product")
	}
	return SuccessResponse(c, fiber.StatusOK, "Product deleted", nil)
}

// Export downloads the catalogue as a spreadsheet
// @Summary Export products
// @Tags Products
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "XLSX workbook"
// @Router /api/admin/products/export [get]
func (h *ProductHandler) Export(c fiber.Ctx) error {
	ctx, cancel := createRequestContext()
	defer cancel()

	filename, data, err := h.flow.ExportXLSX(ctx)
	if err != nil {
		return contentErrorResponse(c, err, "Failed to export products")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(data)
}

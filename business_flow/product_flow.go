package businessflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/services"
	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/repository"
	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const productsCacheResource = "products"

// ProductFlow manages the product catalogue
type ProductFlow interface {
	List(ctx context.Context, query *dto.ProductListQuery) (*dto.ProductListResponse, error)
	Get(ctx context.Context, productUUID string) (*models.Product, error)
	Create(ctx context.Context, req *dto.UpsertProductRequest, metadata *ClientMetadata) (*models.Product, error)
	Update(ctx context.Context, productUUID string, req *dto.UpsertProductRequest, metadata *ClientMetadata) (*models.Product, error)
	Delete(ctx context.Context, productUUID string, metadata *ClientMetadata) error
	ExportXLSX(ctx context.Context) (string, []byte, error)
}

// ProductFlowImpl implements ProductFlow
type ProductFlowImpl struct {
	productRepo repository.ProductRepository
	cache       services.ContentCache
}

// NewProductFlow creates a new product flow instance
func NewProductFlow(productRepo repository.ProductRepository, cache services.ContentCache) ProductFlow {
	return &ProductFlowImpl{
		productRepo: productRepo,
		cache:       cache,
	}
}

func (f *ProductFlowImpl) List(ctx context.Context, query *dto.ProductListQuery) (*dto.ProductListResponse, error) {
	if query == nil {
		query = &dto.ProductListQuery{}
	}
	limit, offset := pageBounds(query.Limit, query.Offset)

	filter := models.ProductFilter{}
	category := strings.ToLower(strings.TrimSpace(query.Category))
	if category != "" {
		filter.Category = &category
	}
	filter.Featured = query.Featured

	variant := productListVariant(category, query.Featured, limit, offset)
	var cached dto.ProductListResponse
	if f.cache.GetJSON(ctx, productsCacheResource, variant, &cached) {
		return &cached, nil
	}

	items, err := f.productRepo.ByFilter(ctx, filter, "sort_order ASC, id ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to list products", err)
	}
	total, err := f.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to count products", err)
	}
	if items == nil {
		items = []*models.Product{}
	}

	resp := &dto.ProductListResponse{Items: items, Total: total}
	f.cache.SetJSON(ctx, productsCacheResource, variant, resp)
	return resp, nil
}

func productListVariant(category string, featured *bool, limit, offset int) string {
	featuredKey := "any"
	if featured != nil {
		featuredKey = strconv.FormatBool(*featured)
	}
	return fmt.Sprintf("category=%s&featured=%s&limit=%d&offset=%d", category, featuredKey, limit, offset)
}

func (f *ProductFlowImpl) Get(ctx context.Context, productUUID string) (*models.Product, error) {
	id, err := parseContentUUID(productUUID)
	if err != nil {
		return nil, err
	}

	product, err := f.productRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LOOKUP_FAILED", "Failed to lookup product", err)
	}
	if product == nil {
		return nil, NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}
	return product, nil
}

func (f *ProductFlowImpl) Create(ctx context.Context, req *dto.UpsertProductRequest, metadata *ClientMetadata) (*models.Product, error) {
	product := &models.Product{}
	applyProductRequest(product, req)

	slug, err := f.claimSlug(ctx, req.Slug, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	product.Slug = slug

	if err := f.productRepo.Save(ctx, product); err != nil {
		return nil, NewBusinessError("PRODUCT_CREATE_FAILED", "Failed to create product", err)
	}

	f.cache.Invalidate(ctx, productsCacheResource)
	log.Printf("product %s created %s", product.UUID, metadata)
	return product, nil
}

func (f *ProductFlowImpl) Update(ctx context.Context, productUUID string, req *dto.UpsertProductRequest, metadata *ClientMetadata) (*models.Product, error) {
	product, err := f.Get(ctx, productUUID)
	if err != nil {
		return nil, err
	}

	applyProductRequest(product, req)
	slug, err := f.claimSlug(ctx, req.Slug, req.Name, product.UUID)
	if err != nil {
		return nil, err
	}
	product.Slug = slug
	product.UpdatedAt = utils.UTCNow()

	if err := f.productRepo.Update(ctx, product); err != nil {
		return nil, NewBusinessError("PRODUCT_UPDATE_FAILED", "Failed to update product", err)
	}

	f.cache.Invalidate(ctx, productsCacheResource)
	log.Printf("product %s updated %s", product.UUID, metadata)
	return product, nil
}

func (f *ProductFlowImpl) Delete(ctx context.Context, productUUID string, metadata *ClientMetadata) error {
	id, err := parseContentUUID(productUUID)
	if err != nil {
		return err
	}

	deleted, err := f.productRepo.DeleteByUUID(ctx, id)
	if err != nil {
		return NewBusinessError("PRODUCT_DELETE_FAILED", "Failed to delete product", err)
	}
	if !deleted {
		return NewBusinessError("PRODUCT_NOT_FOUND", "Product not found", ErrProductNotFound)
	}

	f.cache.Invalidate(ctx, productsCacheResource)
	log.Printf("product %s deleted %s", id, metadata)
	return nil
}

// claimSlug derives the slug from the explicit value or the name and checks
// no other product owns it.
func (f *ProductFlowImpl) claimSlug(ctx context.Context, explicit, name string, owner uuid.UUID) (string, error) {
	slug := utils.Slugify(explicit)
	if slug == "" {
		slug = utils.Slugify(name)
	}
	if slug == "" {
		return "", NewBusinessError("PRODUCT_SLUG_INVALID", "Product name must contain letters or digits", ErrInvalidSlug)
	}

	existing, err := f.productRepo.BySlug(ctx, slug)
	if err != nil {
		return "", NewBusinessError("PRODUCT_LOOKUP_FAILED", "Failed to check slug", err)
	}
	if existing != nil && existing.UUID != owner {
		return "", NewBusinessError("PRODUCT_SLUG_TAKEN", fmt.Sprintf("Slug %q is already in use", slug), ErrSlugTaken)
	}
	return slug, nil
}

func applyProductRequest(product *models.Product, req *dto.UpsertProductRequest) {
	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Category = strings.ToLower(strings.TrimSpace(req.Category))
	product.PriceCents = req.PriceCents
	product.Unit = req.Unit
	if product.Unit == "" {
		product.Unit = "each"
	}
	product.ImageURL = req.ImageURL
	product.InStock = req.InStock
	if product.InStock == nil {
		product.InStock = utils.ToPtr(true)
	}
	product.Featured = req.Featured
	if product.Featured == nil {
		product.Featured = utils.ToPtr(false)
	}
	product.SortOrder = req.SortOrder
}

// ExportXLSX writes the whole catalogue to a single-sheet workbook
func (f *ProductFlowImpl) ExportXLSX(ctx context.Context) (string, []byte, error) {
	products, err := f.productRepo.ByFilter(ctx, models.ProductFilter{}, "category ASC, sort_order ASC, id ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to list products", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Products"
	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	rows := [][]any{{"uuid", "name", "slug", "category", "price", "unit", "in_stock", "featured", "sort_order", "image_url", "updated_at"}}
	for _, p := range products {
		imageURL := ""
		if p.ImageURL != nil {
			imageURL = *p.ImageURL
		}
		rows = append(rows, []any{
			p.UUID.String(),
			p.Name,
			p.Slug,
			p.Category,
			formatPrice(p.PriceCents),
			p.Unit,
			utils.IsTrue(p.InStock),
			utils.IsTrue(p.Featured),
			p.SortOrder,
			imageURL,
			p.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := writeSheetRows(xl, sheet, rows); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("products_%s.xlsx", utils.UTCNow().Format("20060102"))
	return filename, buf.Bytes(), nil
}

// writeSheetRows writes rows starting at A1
func writeSheetRows(xl *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

func formatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func parseContentUUID(raw string) (uuid.UUID, error) {
	id, err := utils.ParseUUID(raw)
	if err != nil {
		return uuid.Nil, NewBusinessError("INVALID_UUID", "Invalid id", ErrInvalidUUID)
	}
	return id, nil
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = utils.DefaultPageSize
	}
	if limit > utils.MaxPageSize {
		limit = utils.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

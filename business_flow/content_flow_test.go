package businessflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// memoryStore is an in-memory ContentRepository keyed by UUID
type memoryStore[T any, F any] struct {
	mu     sync.Mutex
	items  []*T
	nextID uint
	uuidOf func(*T) uuid.UUID
	setID  func(*T, uint)
	match  func(*T, F) bool
}

func (s *memoryStore[T, F]) ByID(ctx context.Context, id uint) (*T, error) { return nil, nil }

func (s *memoryStore[T, F]) ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*T
	for _, item := range s.items {
		if s.match(item, filter) {
			c := *item
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *memoryStore[T, F]) Save(ctx context.Context, entity *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hook, ok := any(entity).(interface{ BeforeCreate(*gorm.DB) error }); ok {
		if err := hook.BeforeCreate(nil); err != nil {
			return err
		}
	}
	s.nextID++
	s.setID(entity, s.nextID)
	c := *entity
	s.items = append(s.items, &c)
	return nil
}

func (s *memoryStore[T, F]) Count(ctx context.Context, filter F) (int64, error) {
	items, _ := s.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(items)), nil
}

func (s *memoryStore[T, F]) Exists(ctx context.Context, filter F) (bool, error) {
	n, _ := s.Count(ctx, filter)
	return n > 0, nil
}

func (s *memoryStore[T, F]) ByUUID(ctx context.Context, id uuid.UUID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if s.uuidOf(item) == id {
			c := *item
			return &c, nil
		}
	}
	return nil, nil
}

func (s *memoryStore[T, F]) Update(ctx context.Context, entity *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if s.uuidOf(item) == s.uuidOf(entity) {
			c := *entity
			s.items[i] = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *memoryStore[T, F]) DeleteByUUID(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if s.uuidOf(item) == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memoryProductRepository struct {
	*memoryStore[models.Product, models.ProductFilter]
}

func newMemoryProductRepository() *memoryProductRepository {
	return &memoryProductRepository{&memoryStore[models.Product, models.ProductFilter]{
		uuidOf: func(p *models.Product) uuid.UUID { return p.UUID },
		setID:  func(p *models.Product, id uint) { p.ID = id },
		match: func(p *models.Product, f models.ProductFilter) bool {
			if f.Category != nil && p.Category != *f.Category {
				return false
			}
			if f.Featured != nil && utils.IsTrue(p.Featured) != *f.Featured {
				return false
			}
			return true
		},
	}}
}

func (r *memoryProductRepository) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	items, _ := r.ByFilter(ctx, models.ProductFilter{}, "", 0, 0)
	for _, p := range items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

// memoryCache is a ContentCache that records invalidations
type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(ctx context.Context, resource, variant string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[resource+":"+variant]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *memoryCache) SetJSON(ctx context.Context, resource, variant string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, _ := json.Marshal(value)
	c.entries[resource+":"+variant] = raw
}

func (c *memoryCache) Invalidate(ctx context.Context, resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, resource+":") {
			delete(c.entries, key)
		}
	}
	c.invalidated = append(c.invalidated, resource)
}

func (c *memoryCache) cached(resource string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, resource+":") {
			n++
		}
	}
	return n
}

// memoryMediaStorage keeps objects in a map
type memoryMediaStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func (s *memoryMediaStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "https://media.farm.example/" + key, nil
}

func (s *memoryMediaStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *memoryMediaStorage) EnsureBucket(ctx context.Context) error { return nil }

func productRequest(name, category string, featured bool) *dto.UpsertProductRequest {
	return &dto.UpsertProductRequest{
		Name:       name,
		Category:   category,
		PriceCents: 450,
		Featured:   utils.ToPtr(featured),
	}
}

func TestProductFlowCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProductRepository()
	cache := newMemoryCache()
	flow := NewProductFlow(repo, cache)

	eggs, err := flow.Create(ctx, productRequest("Free Range Eggs", "Dairy", true), nil)
	require.NoError(t, err)
	assert.Equal(t, "free-range-eggs", eggs.Slug)
	assert.Equal(t, "dairy", eggs.Category)
	assert.Equal(t, "each", eggs.Unit)
	assert.True(t, utils.IsTrue(eggs.InStock))

	_, err = flow.Create(ctx, productRequest("Free-Range  Eggs!", "dairy", false), nil)
	assert.True(t, IsSlugTaken(err))

	_, err = flow.Create(ctx, productRequest("!!!", "dairy", false), nil)
	assert.True(t, IsInvalidSlug(err))

	t.Run("UpdateKeepsOwnSlug", func(t *testing.T) {
		req := productRequest("Free Range Eggs", "dairy", false)
		req.PriceCents = 525
		updated, err := flow.Update(ctx, eggs.UUID.String(), req, nil)
		require.NoError(t, err)
		assert.Equal(t, "free-range-eggs", updated.Slug)
		assert.Equal(t, int64(525), updated.PriceCents)
	})

	t.Run("Get", func(t *testing.T) {
		got, err := flow.Get(ctx, eggs.UUID.String())
		require.NoError(t, err)
		assert.Equal(t, eggs.UUID, got.UUID)

		_, err = flow.Get(ctx, "not-a-uuid")
		assert.True(t, IsInvalidUUID(err))

		_, err = flow.Get(ctx, uuid.NewString())
		assert.True(t, IsNotFound(err))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, flow.Delete(ctx, eggs.UUID.String(), nil))
		err := flow.Delete(ctx, eggs.UUID.String(), nil)
		assert.True(t, IsNotFound(err))
	})
}

func TestProductListUsesCache(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProductRepository()
	cache := newMemoryCache()
	flow := NewProductFlow(repo, cache)

	_, err := flow.Create(ctx, productRequest("Raw Honey", "pantry", true), nil)
	require.NoError(t, err)
	_, err = flow.Create(ctx, productRequest("Kale", "vegetables", false), nil)
	require.NoError(t, err)

	featured, err := flow.List(ctx, &dto.ProductListQuery{Featured: utils.ToPtr(true)})
	require.NoError(t, err)
	require.Len(t, featured.Items, 1)
	assert.Equal(t, "Raw Honey", featured.Items[0].Name)

	all, err := flow.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, 2, cache.cached(productsCacheResource))

	_, err = flow.Create(ctx, productRequest("Sourdough", "bakery", false), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.cached(productsCacheResource))

	all, err = flow.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}

func TestProductExportXLSX(t *testing.T) {
	ctx := context.Background()
	flow := NewProductFlow(newMemoryProductRepository(), newMemoryCache())

	_, err := flow.Create(ctx, productRequest("Crème Fraîche", "dairy", false), nil)
	require.NoError(t, err)

	filename, data, err := flow.ExportXLSX(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "uuid", rows[0][0])
	assert.Equal(t, "Crème Fraîche", rows[1][1])
	assert.Equal(t, "creme-fraiche", rows[1][2])
	assert.Equal(t, "4.50", rows[1][4])
}

func TestWriteSheetRowsReportsErrors(t *testing.T) {
	xl := excelize.NewFile()
	defer xl.Close()

	err := writeSheetRows(xl, "Missing", [][]any{{"uuid", "name"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")

	require.NoError(t, writeSheetRows(xl, xl.GetSheetName(0), [][]any{{"a", 1}, {"b", 2}}))
	rows, err := xl.GetRows(xl.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "1"}, {"b", "2"}}, rows)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0.05", formatPrice(5))
	assert.Equal(t, "12.00", formatPrice(1200))
	assert.Equal(t, "-1.25", formatPrice(-125))
}

func TestTestimonialFlow(t *testing.T) {
	ctx := context.Background()
	repo := &memoryStore[models.Testimonial, models.TestimonialFilter]{
		uuidOf: func(m *models.Testimonial) uuid.UUID { return m.UUID },
		setID:  func(m *models.Testimonial, id uint) { m.ID = id },
		match: func(m *models.Testimonial, f models.TestimonialFilter) bool {
			return f.IsPublished == nil || utils.IsTrue(m.IsPublished) == *f.IsPublished
		},
	}
	cache := newMemoryCache()
	flow := NewTestimonialFlow(repo, cache)

	published, err := flow.Create(ctx, &dto.UpsertTestimonialRequest{AuthorName: "June", Quote: "Best eggs in the valley", Rating: 5}, nil)
	require.NoError(t, err)
	_, err = flow.Create(ctx, &dto.UpsertTestimonialRequest{AuthorName: "Sam", Quote: "Pending review", Rating: 4, IsPublished: utils.ToPtr(false)}, nil)
	require.NoError(t, err)

	public, err := flow.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	assert.Equal(t, "June", public.Items[0].AuthorName)

	everything, err := flow.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, everything.Items, 2)

	_, err = flow.Update(ctx, published.UUID.String(), &dto.UpsertTestimonialRequest{AuthorName: "June", Quote: "Still the best", Rating: 5, IsPublished: utils.ToPtr(false)}, nil)
	require.NoError(t, err)

	public, err = flow.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, public.Items)

	require.NoError(t, flow.Delete(ctx, published.UUID.String(), nil))
	_, err = flow.Update(ctx, published.UUID.String(), &dto.UpsertTestimonialRequest{AuthorName: "x", Quote: "y", Rating: 1}, nil)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, cache.invalidated, testimonialsCacheResource)
}

func TestTeamFlow(t *testing.T) {
	ctx := context.Background()
	repo := &memoryStore[models.TeamMember, models.TeamMemberFilter]{
		uuidOf: func(m *models.TeamMember) uuid.UUID { return m.UUID },
		setID:  func(m *models.TeamMember, id uint) { m.ID = id },
		match:  func(*models.TeamMember, models.TeamMemberFilter) bool { return true },
	}
	flow := NewTeamFlow(repo, newMemoryCache())

	member, err := flow.Create(ctx, &dto.UpsertTeamMemberRequest{Name: " Ada ", Role: "Head Grower"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada", member.Name)

	list, err := flow.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	updated, err := flow.Update(ctx, member.UUID.String(), &dto.UpsertTeamMemberRequest{Name: "Ada", Role: "Farm Manager", SortOrder: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Farm Manager", updated.Role)

	list, err = flow.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Farm Manager", list.Items[0].Role)

	require.NoError(t, flow.Delete(ctx, member.UUID.String(), nil))
	assert.True(t, IsNotFound(flow.Delete(ctx, member.UUID.String(), nil)))
	assert.True(t, IsInvalidUUID(flow.Delete(ctx, "", nil)))
}

type memoryGalleryRepository struct {
	*memoryStore[models.GalleryMedia, models.GalleryMediaFilter]
}

func (r *memoryGalleryRepository) DeleteWithObject(ctx context.Context, id uuid.UUID, removeObject func(context.Context) error) (bool, error) {
	found, err := r.ByUUID(ctx, id)
	if err != nil || found == nil {
		return false, err
	}
	if err := removeObject(ctx); err != nil {
		return false, err
	}
	return r.DeleteByUUID(ctx, id)
}

func newGalleryRepo() *memoryGalleryRepository {
	return &memoryGalleryRepository{&memoryStore[models.GalleryMedia, models.GalleryMediaFilter]{
		uuidOf: func(m *models.GalleryMedia) uuid.UUID { return m.UUID },
		setID:  func(m *models.GalleryMedia, id uint) { m.ID = id },
		match: func(m *models.GalleryMedia, f models.GalleryMediaFilter) bool {
			return f.Kind == nil || m.Kind == *f.Kind
		},
	}}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGalleryUpload(t *testing.T) {
	ctx := context.Background()
	repo := newGalleryRepo()
	storage := &memoryMediaStorage{objects: map[string][]byte{}}
	flow := NewGalleryFlow(repo, storage, newMemoryCache())

	data := testPNG(t, 40, 30)
	media, err := flow.Upload(ctx, &dto.GalleryUploadRequest{
		Filename: "barn.PNG",
		Size:     int64(len(data)),
		Caption:  utils.ToPtr("The red barn"),
		File:     bytes.NewReader(data),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.MediaKindImage, media.Kind)
	assert.Equal(t, "image/png", media.MimeType)
	require.NotNil(t, media.Width)
	assert.Equal(t, 40, *media.Width)
	assert.Equal(t, 30, *media.Height)
	assert.True(t, strings.HasPrefix(media.ObjectKey, "gallery/"))
	assert.True(t, strings.HasSuffix(media.ObjectKey, ".png"))
	assert.Equal(t, "https://media.farm.example/"+media.ObjectKey, media.PublicURL)
	assert.Equal(t, data, storage.objects[media.ObjectKey])

	list, err := flow.List(ctx, utils.ToPtr(models.MediaKindImage))
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, flow.Delete(ctx, media.UUID.String(), nil))
	assert.Empty(t, storage.objects)
	assert.True(t, IsNotFound(flow.Delete(ctx, media.UUID.String(), nil)))
}

func TestGalleryUploadRejections(t *testing.T) {
	ctx := context.Background()
	storage := &memoryMediaStorage{objects: map[string][]byte{}}
	flow := NewGalleryFlow(newGalleryRepo(), storage, newMemoryCache())
	text := []byte("definitely not an image, just some text")

	tests := []struct {
		name    string
		req     *dto.GalleryUploadRequest
		checkFn func(error) bool
	}{
		{"no file", &dto.GalleryUploadRequest{Filename: "a.png"}, IsUnsupportedMediaType},
		{"bad extension", &dto.GalleryUploadRequest{Filename: "a.exe", Size: 10, File: bytes.NewReader(text)}, IsUnsupportedMediaType},
		{"content mismatch", &dto.GalleryUploadRequest{Filename: "a.png", Size: int64(len(text)), File: bytes.NewReader(text)}, IsUnsupportedMediaType},
		{"too large", &dto.GalleryUploadRequest{Filename: "a.png", Size: utils.MaxUploadSize + 1, File: bytes.NewReader(text)}, IsFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.Upload(ctx, tt.req, nil)
			assert.True(t, tt.checkFn(err), "unexpected error: %v", err)
		})
	}
	assert.Empty(t, storage.objects)

	_, err := flow.List(ctx, utils.ToPtr(models.MediaKind("audio")))
	assert.True(t, IsUnsupportedMediaType(err))
}

func TestGalleryDeleteKeepsRowWhenObjectRemovalFails(t *testing.T) {
	ctx := context.Background()
	repo := newGalleryRepo()
	storage := &memoryMediaStorage{objects: map[string][]byte{}}
	flow := NewGalleryFlow(repo, storage, newMemoryCache())

	data := testPNG(t, 4, 4)
	media, err := flow.Upload(ctx, &dto.GalleryUploadRequest{Filename: "hens.png", Size: int64(len(data)), File: bytes.NewReader(data)}, nil)
	require.NoError(t, err)

	storage.deleteErr = errors.New("bucket unreachable")
	err = flow.Delete(ctx, media.UUID.String(), nil)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))

	kept, err := repo.ByUUID(ctx, media.UUID)
	require.NoError(t, err)
	require.NotNil(t, kept, "row must survive a failed object removal")
	assert.Contains(t, storage.objects, media.ObjectKey)

	storage.deleteErr = nil
	require.NoError(t, flow.Delete(ctx, media.UUID.String(), nil))
	gone, err := repo.ByUUID(ctx, media.UUID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Empty(t, storage.objects)
}

func TestGalleryWithoutStorage(t *testing.T) {
	ctx := context.Background()
	repo := newGalleryRepo()
	flow := NewGalleryFlow(repo, nil, newMemoryCache())
	data := testPNG(t, 2, 2)

	_, err := flow.Upload(ctx, &dto.GalleryUploadRequest{
		Filename: "a.png",
		Size:     int64(len(data)),
		File:     bytes.NewReader(data),
	}, nil)
	assert.True(t, IsStorageUnavailable(err))

	legacy := &models.GalleryMedia{Kind: models.MediaKindImage, OriginalFilename: "old.png", ObjectKey: "gallery/2025/01/old.png"}
	require.NoError(t, repo.Save(ctx, legacy))
	require.NoError(t, flow.Delete(ctx, legacy.UUID.String(), nil))

	gone, err := repo.ByUUID(ctx, legacy.UUID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// memorySiteSettingsRepository stores the singleton row
type memorySiteSettingsRepository struct {
	settings *models.SiteSettings
}

func (r *memorySiteSettingsRepository) Get(ctx context.Context) (*models.SiteSettings, error) {
	if r.settings == nil {
		return nil, nil
	}
	c := *r.settings
	return &c, nil
}

func (r *memorySiteSettingsRepository) Upsert(ctx context.Context, settings *models.SiteSettings) error {
	c := *settings
	r.settings = &c
	return nil
}

func TestSiteSettingsFlow(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	flow := NewSiteSettingsFlow(&memorySiteSettingsRepository{}, cache)

	settings, err := flow.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Our Farm", settings.SiteName)
	assert.NotNil(t, settings.SocialLinks)

	_, err = flow.Update(ctx, &dto.UpdateSiteSettingsRequest{
		SiteName:     " Willow Creek Farm ",
		ContactEmail: utils.ToPtr(" Hello@WillowCreek.example"),
		SocialLinks: map[string]string{
			"Instagram": "https://instagram.com/willowcreek",
			"empty":     " ",
		},
	}, nil)
	require.NoError(t, err)

	settings, err = flow.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Willow Creek Farm", settings.SiteName)
	assert.Equal(t, "hello@willowcreek.example", *settings.ContactEmail)
	assert.Equal(t, models.SocialLinks{"instagram": "https://instagram.com/willowcreek"}, settings.SocialLinks)
}

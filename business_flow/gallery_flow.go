package businessflow

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/amirphl/farm-storefront/app/dto"
	"github.com/amirphl/farm-storefront/app/services"
	"github.com/amirphl/farm-storefront/models"
	"github.com/amirphl/farm-storefront/repository"
	"github.com/amirphl/farm-storefront/utils"
	"github.com/oklog/ulid/v2"
	_ "golang.org/x/image/webp"
)

const galleryCacheResource = "gallery"

var allowedGalleryFormats = []string{"jpg", "jpeg", "png", "gif", "webp", "mp4", "mov", "webm"}

var allowedGalleryExts = map[string]models.MediaKind{
	".jpg":  models.MediaKindImage,
	".jpeg": models.MediaKindImage,
	".png":  models.MediaKindImage,
	".gif":  models.MediaKindImage,
	".webp": models.MediaKindImage,
	".mp4":  models.MediaKindVideo,
	".mov":  models.MediaKindVideo,
	".webm": models.MediaKindVideo,
}

// GalleryFlow manages gallery uploads backed by object storage
type GalleryFlow interface {
	List(ctx context.Context, kind *models.MediaKind) (*dto.GalleryListResponse, error)
	Upload(ctx context.Context, req *dto.GalleryUploadRequest, metadata *ClientMetadata) (*models.GalleryMedia, error)
	Delete(ctx context.Context, mediaUUID string, metadata *ClientMetadata) error
}

// GalleryFlowImpl implements GalleryFlow
type GalleryFlowImpl struct {
	mediaRepo repository.GalleryMediaRepository
	storage   services.MediaStorage
	cache     services.ContentCache
}

// NewGalleryFlow creates a new gallery flow instance. storage may be nil, in
// which case uploads fail with ErrStorageUnavailable.
func NewGalleryFlow(mediaRepo repository.GalleryMediaRepository, storage services.MediaStorage, cache services.ContentCache) GalleryFlow {
	return &GalleryFlowImpl{
		mediaRepo: mediaRepo,
		storage:   storage,
		cache:     cache,
	}
}

func (f *GalleryFlowImpl) List(ctx context.Context, kind *models.MediaKind) (*dto.GalleryListResponse, error) {
	filter := models.GalleryMediaFilter{}
	variant := ""
	if kind != nil {
		if !kind.Valid() {
			return nil, NewBusinessError("INVALID_MEDIA_KIND", "Unknown media kind", ErrUnsupportedMediaType)
		}
		filter.Kind = kind
		variant = "kind=" + string(*kind)
	}

	var cached dto.GalleryListResponse
	if f.cache.GetJSON(ctx, galleryCacheResource, variant, &cached) {
		return &cached, nil
	}

	items, err := f.mediaRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", utils.MaxPageSize, 0)
	if err != nil {
		return nil, NewBusinessError("GALLERY_LIST_FAILED", "Failed to list gallery", err)
	}
	if items == nil {
		items = []*models.GalleryMedia{}
	}

	resp := &dto.GalleryListResponse{Items: items, Total: int64(len(items))}
	f.cache.SetJSON(ctx, galleryCacheResource, variant, resp)
	return resp, nil
}

func (f *GalleryFlowImpl) Upload(ctx context.Context, req *dto.GalleryUploadRequest, metadata *ClientMetadata) (*models.GalleryMedia, error) {
	if req == nil || req.File == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "file is required", ErrUnsupportedMediaType)
	}
	if f.storage == nil {
		return nil, NewBusinessError("STORAGE_UNAVAILABLE", "Media storage is not configured", ErrStorageUnavailable)
	}
	if req.Size <= 0 {
		return nil, NewBusinessError("INVALID_FILE", "file size is required", ErrUnsupportedMediaType)
	}
	if req.Size > utils.MaxUploadSize {
		return nil, NewBusinessError("FILE_TOO_LARGE", "file size exceeds 25MB", ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	kind, ok := allowedGalleryExts[ext]
	if !ok {
		return nil, NewBusinessError("INVALID_FILE_TYPE", fmt.Sprintf("allowed file types: %s", strings.Join(allowedGalleryFormats, ", ")), ErrUnsupportedMediaType)
	}

	mimeType, err := sniffMediaType(req.File, ext, kind)
	if err != nil {
		return nil, err
	}

	media := &models.GalleryMedia{
		Kind:             kind,
		Caption:          req.Caption,
		OriginalFilename: filepath.Base(req.Filename),
		MimeType:         mimeType,
		SizeBytes:        req.Size,
	}

	if kind == models.MediaKindImage {
		cfg, _, err := image.DecodeConfig(req.File)
		if err != nil {
			return nil, NewBusinessError("INVALID_FILE_TYPE", "image could not be decoded", ErrUnsupportedMediaType)
		}
		media.Width = utils.ToPtr(cfg.Width)
		media.Height = utils.ToPtr(cfg.Height)
	}
	if _, err := req.File.Seek(0, io.SeekStart); err != nil {
		return nil, NewBusinessError("UPLOAD_READ_FAILED", "Failed to read upload", err)
	}

	now := utils.UTCNow()
	media.ObjectKey = fmt.Sprintf("gallery/%s/%s%s", now.Format("2006/01"), strings.ToLower(ulid.Make().String()), ext)

	publicURL, err := f.storage.Put(ctx, media.ObjectKey, io.LimitReader(req.File, req.Size), req.Size, mimeType)
	if err != nil {
		return nil, NewBusinessError("UPLOAD_FAILED", "Failed to store upload", err)
	}
	media.PublicURL = publicURL

	if err := f.mediaRepo.Save(ctx, media); err != nil {
		if delErr := f.storage.Delete(ctx, media.ObjectKey); delErr != nil {
			log.Printf("failed to remove orphaned object %s: %v", media.ObjectKey, delErr)
		}
		return nil, NewBusinessError("GALLERY_CREATE_FAILED", "Failed to save media", err)
	}

	f.cache.Invalidate(ctx, galleryCacheResource)
	log.Printf("gallery media %s uploaded (%s, %d bytes) %s", media.UUID, mimeType, media.SizeBytes, metadata)
	return media, nil
}

// sniffMediaType checks the leading bytes against the kind implied by the
// extension and rewinds the reader.
func sniffMediaType(r io.ReadSeeker, ext string, kind models.MediaKind) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", NewBusinessError("UPLOAD_READ_FAILED", "Failed to read upload", err)
	}
	head = head[:n]

	detected := http.DetectContentType(head)
	if detected != "application/octet-stream" && !strings.HasPrefix(detected, string(kind)+"/") {
		return "", NewBusinessError("INVALID_FILE_TYPE", "file content does not match expected media type", ErrUnsupportedMediaType)
	}
	if detected == "application/octet-stream" {
		detected = mime.TypeByExtension(ext)
		if detected == "" {
			detected = "application/octet-stream"
		}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", NewBusinessError("UPLOAD_READ_FAILED", "Failed to read upload", err)
	}
	return detected, nil
}

// Delete removes the row and the stored object together: the row delete is
// rolled back when the object cannot be removed. Without storage the row is
// still removed and the object key is logged.
func (f *GalleryFlowImpl) Delete(ctx context.Context, mediaUUID string, metadata *ClientMetadata) error {
	id, err := parseContentUUID(mediaUUID)
	if err != nil {
		return err
	}

	media, err := f.mediaRepo.ByUUID(ctx, id)
	if err != nil {
		return NewBusinessError("GALLERY_LOOKUP_FAILED", "Failed to lookup media", err)
	}
	if media == nil {
		return NewBusinessError("MEDIA_NOT_FOUND", "Media not found", ErrMediaNotFound)
	}

	deleted, err := f.mediaRepo.DeleteWithObject(ctx, id, func(ctx context.Context) error {
		if f.storage == nil {
			log.Printf("media storage disabled, object %s left in place", media.ObjectKey)
			return nil
		}
		return f.storage.Delete(ctx, media.ObjectKey)
	})
	if err != nil {
		return NewBusinessError("GALLERY_DELETE_FAILED", "Failed to delete media", err)
	}
	if !deleted {
		return NewBusinessError("MEDIA_NOT_FOUND", "Media not found", ErrMediaNotFound)
	}

	f.cache.Invalidate(ctx, galleryCacheResource)
	log.Printf("gallery media %s deleted %s", id, metadata)
	return nil
}

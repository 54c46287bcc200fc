package repository

import (
	"context"

	"github.com/amirphl/farm-storefront/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestimonialRepositoryImpl implements TestimonialRepository interface
type TestimonialRepositoryImpl struct {
	*BaseRepository[models.Testimonial, models.TestimonialFilter]
}

func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &TestimonialRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Testimonial, models.TestimonialFilter](db),
	}
}

func (r *TestimonialRepositoryImpl) applyFilter(filter models.TestimonialFilter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.ID != nil {
			query = query.Where("id = ?", *filter.ID)
		}
		if filter.UUID != nil {
			query = query.Where("uuid = ?", *filter.UUID)
		}
		if filter.IsPublished != nil {
			query = query.Where("is_published = ?", *filter.IsPublished)
		}
		return query
	}
}

func (r *TestimonialRepositoryImpl) ByFilter(ctx context.Context, filter models.TestimonialFilter, orderBy string, limit, offset int) ([]*models.Testimonial, error) {
	return r.findByFilter(ctx, r.applyFilter(filter), orderBy, limit, offset)
}

func (r *TestimonialRepositoryImpl) Count(ctx context.Context, filter models.TestimonialFilter) (int64, error) {
	return r.countByFilter(ctx, r.applyFilter(filter))
}

func (r *TestimonialRepositoryImpl) Exists(ctx context.Context, filter models.TestimonialFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

// TeamMemberRepositoryImpl implements TeamMemberRepository interface
type TeamMemberRepositoryImpl struct {
	*BaseRepository[models.TeamMember, models.TeamMemberFilter]
}

func NewTeamMemberRepository(db *gorm.DB) TeamMemberRepository {
	return &TeamMemberRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TeamMember, models.TeamMemberFilter](db),
	}
}

func (r *TeamMemberRepositoryImpl) applyFilter(filter models.TeamMemberFilter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.ID != nil {
			query = query.Where("id = ?", *filter.ID)
		}
		if filter.UUID != nil {
			query = query.Where("uuid = ?", *filter.UUID)
		}
		return query
	}
}

func (r *TeamMemberRepositoryImpl) ByFilter(ctx context.Context, filter models.TeamMemberFilter, orderBy string, limit, offset int) ([]*models.TeamMember, error) {
	return r.findByFilter(ctx, r.applyFilter(filter), orderBy, limit, offset)
}

func (r *TeamMemberRepositoryImpl) Count(ctx context.Context, filter models.TeamMemberFilter) (int64, error) {
	return r.countByFilter(ctx, r.applyFilter(filter))
}

func (r *TeamMemberRepositoryImpl) Exists(ctx context.Context, filter models.TeamMemberFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

// GalleryMediaRepositoryImpl implements GalleryMediaRepository interface
type GalleryMediaRepositoryImpl struct {
	*BaseRepository[models.GalleryMedia, models.GalleryMediaFilter]
}

func NewGalleryMediaRepository(db *gorm.DB) GalleryMediaRepository {
	return &GalleryMediaRepositoryImpl{
		BaseRepository: NewBaseRepository[models.GalleryMedia, models.GalleryMediaFilter](db),
	}
}

func (r *GalleryMediaRepositoryImpl) applyFilter(filter models.GalleryMediaFilter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.ID != nil {
			query = query.Where("id = ?", *filter.ID)
		}
		if filter.UUID != nil {
			query = query.Where("uuid = ?", *filter.UUID)
		}
		if filter.Kind != nil {
			query = query.Where("kind = ?", string(*filter.Kind))
		}
		return query
	}
}

func (r *GalleryMediaRepositoryImpl) ByFilter(ctx context.Context, filter models.GalleryMediaFilter, orderBy string, limit, offset int) ([]*models.GalleryMedia, error) {
	return r.findByFilter(ctx, r.applyFilter(filter), orderBy, limit, offset)
}

func (r *GalleryMediaRepositoryImpl) Count(ctx context.Context, filter models.GalleryMediaFilter) (int64, error) {
	return r.countByFilter(ctx, r.applyFilter(filter))
}

func (r *GalleryMediaRepositoryImpl) Exists(ctx context.Context, filter models.GalleryMediaFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *GalleryMediaRepositoryImpl) DeleteWithObject(ctx context.Context, id uuid.UUID, removeObject func(context.Context) error) (bool, error) {
	var deleted bool
	err := WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		var err error
		deleted, err = r.DeleteByUUID(txCtx, id)
		if err != nil || !deleted {
			return err
		}
		return removeObject(txCtx)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

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

const (
	testimonialsCacheResource = "testimonials"
	teamCacheResource         = "team"
)

// TestimonialFlow manages customer testimonials. The public list only
// contains published entries.
type TestimonialFlow interface {
	List(ctx context.Context, includeUnpublished bool) (*dto.TestimonialListResponse, error)
	Create(ctx context.Context, req *dto.UpsertTestimonialRequest, metadata *ClientMetadata) (*models.Testimonial, error)
	Update(ctx context.Context, testimonialUUID string, req *dto.UpsertTestimonialRequest, metadata *ClientMetadata) (*models.Testimonial, error)
	Delete(ctx context.Context, testimonialUUID string, metadata *ClientMetadata) error
}

// TestimonialFlowImpl implements TestimonialFlow
type TestimonialFlowImpl struct {
	testimonialRepo repository.TestimonialRepository
	cache           services.ContentCache
}

// NewTestimonialFlow creates a new testimonial flow instance
func NewTestimonialFlow(testimonialRepo repository.TestimonialRepository, cache services.ContentCache) TestimonialFlow {
	return &TestimonialFlowImpl{
		testimonialRepo: testimonialRepo,
		cache:           cache,
	}
}

func (f *TestimonialFlowImpl) List(ctx context.Context, includeUnpublished bool) (*dto.TestimonialListResponse, error) {
	filter := models.TestimonialFilter{}
	if !includeUnpublished {
		filter.IsPublished = utils.ToPtr(true)
		var cached dto.TestimonialListResponse
		if f.cache.GetJSON(ctx, testimonialsCacheResource, "published", &cached) {
			return &cached, nil
		}
	}

	items, err := f.testimonialRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", utils.MaxPageSize, 0)
	if err != nil {
		return nil, NewBusinessError("TESTIMONIAL_LIST_FAILED", "Failed to list testimonials", err)
	}
	total, err := f.testimonialRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("TESTIMONIAL_LIST_FAILED", "Failed to count testimonials", err)
	}
	if items == nil {
		items = []*models.Testimonial{}
	}

	resp := &dto.TestimonialListResponse{Items: items, Total: total}
	if !includeUnpublished {
		f.cache.SetJSON(ctx, testimonialsCacheResource, "published", resp)
	}
	return resp, nil
}

func (f *TestimonialFlowImpl) Create(ctx context.Context, req *dto.UpsertTestimonialRequest, metadata *ClientMetadata) (*models.Testimonial, error) {
	testimonial := &models.Testimonial{}
	applyTestimonialRequest(testimonial, req)

	if err := f.testimonialRepo.Save(ctx, testimonial); err != nil {
		return nil, NewBusinessError("TESTIMONIAL_CREATE_FAILED", "Failed to create testimonial", err)
	}

	f.cache.Invalidate(ctx, testimonialsCacheResource)
	log.Printf("testimonial %s created %s", testimonial.UUID, metadata)
	return testimonial, nil
}

func (f *TestimonialFlowImpl) Update(ctx context.Context, testimonialUUID string, req *dto.UpsertTestimonialRequest, metadata *ClientMetadata) (*models.Testimonial, error) {
	id, err := parseContentUUID(testimonialUUID)
	if err != nil {
		return nil, err
	}

	testimonial, err := f.testimonialRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("TESTIMONIAL_LOOKUP_FAILED", "Failed to lookup testimonial", err)
	}
	if testimonial == nil {
		return nil, NewBusinessError("TESTIMONIAL_NOT_FOUND", "Testimonial not found", ErrTestimonialNotFound)
	}

	applyTestimonialRequest(testimonial, req)
	testimonial.UpdatedAt = utils.UTCNow()
	if err := f.testimonialRepo.Update(ctx, testimonial); err != nil {
		return nil, NewBusinessError("TESTIMONIAL_UPDATE_FAILED", "Failed to update testimonial", err)
	}

	f.cache.Invalidate(ctx, testimonialsCacheResource)
	log.Printf("testimonial %s updated %s", testimonial.UUID, metadata)
	return testimonial, nil
}

func (f *TestimonialFlowImpl) Delete(ctx context.Context, testimonialUUID string, metadata *ClientMetadata) error {
	id, err := parseContentUUID(testimonialUUID)
	if err != nil {
		return err
	}

	deleted, err := f.testimonialRepo.DeleteByUUID(ctx, id)
	if err != nil {
		return NewBusinessError("TESTIMONIAL_DELETE_FAILED", "Failed to delete testimonial", err)
	}
	if !deleted {
		return NewBusinessError("TESTIMONIAL_NOT_FOUND", "Testimonial not found", ErrTestimonialNotFound)
	}

	f.cache.Invalidate(ctx, testimonialsCacheResource)
	log.Printf("testimonial %s deleted %s", id, metadata)
	return nil
}

func applyTestimonialRequest(t *models.Testimonial, req *dto.UpsertTestimonialRequest) {
	t.AuthorName = strings.TrimSpace(req.AuthorName)
	t.Location = req.Location
	t.Quote = strings.TrimSpace(req.Quote)
	t.Rating = req.Rating
	t.IsPublished = req.IsPublished
	if t.IsPublished == nil {
		t.IsPublished = utils.ToPtr(true)
	}
}

// TeamFlow manages the "meet the farmers" cards
type TeamFlow interface {
	List(ctx context.Context) (*dto.TeamMemberListResponse, error)
	Create(ctx context.Context, req *dto.UpsertTeamMemberRequest, metadata *ClientMetadata) (*models.TeamMember, error)
	Update(ctx context.Context, memberUUID string, req *dto.UpsertTeamMemberRequest, metadata *ClientMetadata) (*models.TeamMember, error)
	Delete(ctx context.Context, memberUUID string, metadata *ClientMetadata) error
}

// TeamFlowImpl implements TeamFlow
type TeamFlowImpl struct {
	teamRepo repository.TeamMemberRepository
	cache    services.ContentCache
}

// NewTeamFlow creates a new team flow instance
func NewTeamFlow(teamRepo repository.TeamMemberRepository, cache services.ContentCache) TeamFlow {
	return &TeamFlowImpl{
		teamRepo: teamRepo,
		cache:    cache,
	}
}

func (f *TeamFlowImpl) List(ctx context.Context) (*dto.TeamMemberListResponse, error) {
	var cached dto.TeamMemberListResponse
	if f.cache.GetJSON(ctx, teamCacheResource, "", &cached) {
		return &cached, nil
	}

	items, err := f.teamRepo.ByFilter(ctx, models.TeamMemberFilter{}, "sort_order ASC, id ASC", utils.MaxPageSize, 0)
	if err != nil {
		return nil, NewBusinessError("TEAM_LIST_FAILED", "Failed to list team members", err)
	}
	if items == nil {
		items = []*models.TeamMember{}
	}

	resp := &dto.TeamMemberListResponse{Items: items, Total: int64(len(items))}
	f.cache.SetJSON(ctx, teamCacheResource, "", resp)
	return resp, nil
}

func (f *TeamFlowImpl) Create(ctx context.Context, req *dto.UpsertTeamMemberRequest, metadata *ClientMetadata) (*models.TeamMember, error) {
	member := &models.TeamMember{}
	applyTeamMemberRequest(member, req)

	if err := f.teamRepo.Save(ctx, member); err != nil {
		return nil, NewBusinessError("TEAM_MEMBER_CREATE_FAILED", "Failed to create team member", err)
	}

	f.cache.Invalidate(ctx, teamCacheResource)
	log.Printf("team member %s created %s", member.UUID, metadata)
	return member, nil
}

func (f *TeamFlowImpl) Update(ctx context.Context, memberUUID string, req *dto.UpsertTeamMemberRequest, metadata *ClientMetadata) (*models.TeamMember, error) {
	id, err := parseContentUUID(memberUUID)
	if err != nil {
		return nil, err
	}

	member, err := f.teamRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("TEAM_MEMBER_LOOKUP_FAILED", "Failed to lookup team member", err)
	}
	if member == nil {
		return nil, NewBusinessError("TEAM_MEMBER_NOT_FOUND", "Team member not found", ErrTeamMemberNotFound)
	}

	applyTeamMemberRequest(member, req)
	member.UpdatedAt = utils.UTCNow()
	if err := f.teamRepo.Update(ctx, member); err != nil {
		return nil, NewBusinessError("TEAM_MEMBER_UPDATE_FAILED", "Failed to update team member", err)
	}

	f.cache.Invalidate(ctx, teamCacheResource)
	log.Printf("team member %s updated %s", member.UUID, metadata)
	return member, nil
}

func (f *TeamFlowImpl) Delete(ctx context.Context, memberUUID string, metadata *ClientMetadata) error {
	id, err := parseContentUUID(memberUUID)
	if err != nil {
		return err
	}

	deleted, err := f.teamRepo.DeleteByUUID(ctx, id)
	if err != nil {
		return NewBusinessError("TEAM_MEMBER_DELETE_FAILED", "Failed to delete team member", err)
	}
	if !deleted {
		return NewBusinessError("TEAM_MEMBER_NOT_FOUND", "Team member not found", ErrTeamMemberNotFound)
	}

	f.cache.Invalidate(ctx, teamCacheResource)
	log.Printf("team member %s deleted %s", id, metadata)
	return nil
}

func applyTeamMemberRequest(m *models.TeamMember, req *dto.UpsertTeamMemberRequest) {
	m.Name = strings.TrimSpace(req.Name)
	m.Role = strings.TrimSpace(req.Role)
	m.Bio = req.Bio
	m.PhotoURL = req.PhotoURL
	m.SortOrder = req.SortOrder
}

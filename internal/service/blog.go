package service

import (
	"context"
	"errors"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type blogService struct {
	blogs repository.BlogRepository
	audit AuditService
}

func NewBlogService(blogs repository.BlogRepository, audit AuditService) BlogService {
	return &blogService{blogs: blogs, audit: audit}
}

func (s *blogService) Create(ctx context.Context, authorID string, in ContentInput, meta RequestMeta) (*domain.Blog, error) {
	sl, err := resolveSlug(ctx, s.blogs.SlugExists, in.Title, in.Slug, "")
	if err != nil {
		return nil, err
	}

	status := in.Status
	switch status {
	case "", domain.StatusDraft:
		status = domain.StatusDraft
	case domain.StatusPublished:
	default:
		// Members cannot create content directly in moderated or
		// archived states.
		return nil, apperror.Validation("Status must be DRAFT or PUBLISHED", nil)
	}

	item := &domain.Blog{
		Title:    in.Title,
		Slug:     sl,
		Content:  in.Content,
		Excerpt:  in.Excerpt,
		Image:    in.Image,
		Status:   status,
		AuthorID: authorID,
	}
	publishOnce(&item.PublishedAt, domain.StatusDraft, status)

	if err := s.blogs.Create(ctx, item); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "blog", EntityID: item.ID, Action: domain.AuditActionCreate,
		UserID: authorID, Changes: map[string]any{"title": item.Title, "status": item.Status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *blogService) Update(ctx context.Context, id, actorID string, admin bool, in ContentUpdate, meta RequestMeta) (*domain.Blog, error) {
	item, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !admin && item.AuthorID != actorID {
		return nil, apperror.Forbidden("")
	}
	if !admin && item.Status == domain.StatusBanned {
		return nil, apperror.Forbidden("This post has been banned and cannot be edited")
	}

	oldStatus := item.Status

	titleChanged := in.Title != nil && *in.Title != item.Title
	if titleChanged {
		item.Title = *in.Title
	}
	explicit := ""
	if in.Slug != nil {
		explicit = *in.Slug
	}
	if titleChanged || explicit != "" {
		sl, err := resolveSlug(ctx, s.blogs.SlugExists, item.Title, explicit, item.ID)
		if err != nil {
			return nil, err
		}
		item.Slug = sl
	}
	if in.Content != nil {
		item.Content = *in.Content
	}
	if in.Excerpt != nil {
		item.Excerpt = *in.Excerpt
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	if in.Status != nil {
		if !admin {
			switch *in.Status {
			case domain.StatusDraft, domain.StatusPublished, domain.StatusArchived:
			default:
				return nil, apperror.Validation("Invalid status", nil)
			}
		}
		item.Status = *in.Status
	}

	// An edit to a flagged post goes back through review: whatever the
	// owner asked for, it lands in DRAFT.
	if !admin && oldStatus == domain.StatusFlagged {
		item.Status = domain.StatusDraft
	}
	publishOnce(&item.PublishedAt, oldStatus, item.Status)

	if err := s.blogs.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "blog", EntityID: item.ID, Action: statusAuditAction(oldStatus, item.Status),
		UserID: actorID, Changes: map[string]any{"old_status": oldStatus, "new_status": item.Status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *blogService) Delete(ctx context.Context, id, actorID string, admin bool, meta RequestMeta) error {
	item, err := s.Get(ctx, id, false)
	if err != nil {
		return err
	}
	if !admin && item.AuthorID != actorID {
		return apperror.Forbidden("")
	}
	if err := s.blogs.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.audit.Log(ctx, AuditEntry{
		EntityType: "blog", EntityID: id, Action: domain.AuditActionDelete,
		UserID: actorID, Meta: meta,
	})
}

func (s *blogService) Get(ctx context.Context, id string, publicOnly bool) (*domain.Blog, error) {
	item, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Blog post not found")
		}
		return nil, err
	}
	if publicOnly && item.Status != domain.StatusPublished {
		return nil, apperror.NotFound("Blog post not found")
	}
	return item, nil
}

func (s *blogService) List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.Blog, int, error) {
	return s.blogs.List(ctx, status, page, pageSize)
}

func (s *blogService) ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Blog, int, error) {
	return s.blogs.ListByAuthor(ctx, authorID, page, pageSize)
}

func (s *blogService) Moderate(ctx context.Context, id string, status domain.ContentStatus, adminID string, meta RequestMeta) (*domain.Blog, error) {
	item, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	oldStatus := item.Status

	action := domain.AuditActionUpdate
	switch status {
	case domain.StatusFlagged:
		action = domain.AuditActionFlag
	case domain.StatusBanned:
		action = domain.AuditActionBan
	case domain.StatusPublished:
		if oldStatus == domain.StatusFlagged || oldStatus == domain.StatusBanned {
			action = domain.AuditActionUnban
		} else {
			action = domain.AuditActionPublish
		}
	case domain.StatusDraft, domain.StatusArchived:
	default:
		return nil, apperror.Validation("Invalid status", nil)
	}

	item.Status = status
	publishOnce(&item.PublishedAt, oldStatus, status)

	if err := s.blogs.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "blog", EntityID: item.ID, Action: action,
		UserID: adminID, Changes: map[string]any{"old_status": oldStatus, "new_status": status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return item, nil
}

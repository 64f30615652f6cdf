package service

import (
	"context"
	"errors"
	"time"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
	"summitclub-backend/internal/slug"
)

// slugChecker is satisfied by every content repository.
type slugChecker func(ctx context.Context, slug, excludeID string) (bool, error)

// resolveSlug validates or derives a slug and enforces uniqueness among
// live rows, excluding the row being updated.
func resolveSlug(ctx context.Context, exists slugChecker, title, explicit, excludeID string) (string, error) {
	s, ok := slug.Ensure(title, explicit)
	if !ok {
		return "", apperror.Validation("Invalid slug format", nil)
	}
	taken, err := exists(ctx, s, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperror.Conflict("Slug already in use")
	}
	return s, nil
}

// publishOnce stamps publishedAt at the first transition into
// PUBLISHED and never resets it.
func publishOnce(publishedAt **time.Time, oldStatus, newStatus domain.ContentStatus) {
	if newStatus == domain.StatusPublished && oldStatus != domain.StatusPublished && *publishedAt == nil {
		now := time.Now()
		*publishedAt = &now
	}
}

// statusAuditAction picks the audit verb for a content status change.
func statusAuditAction(oldStatus, newStatus domain.ContentStatus) string {
	if oldStatus == newStatus {
		return domain.AuditActionUpdate
	}
	switch newStatus {
	case domain.StatusPublished:
		return domain.AuditActionPublish
	case domain.StatusArchived:
		return domain.AuditActionArchive
	default:
		return domain.AuditActionUpdate
	}
}

type newsService struct {
	news  repository.NewsRepository
	audit AuditService
}

func NewNewsService(news repository.NewsRepository, audit AuditService) NewsService {
	return &newsService{news: news, audit: audit}
}

func (s *newsService) Create(ctx context.Context, authorID string, in ContentInput, meta RequestMeta) (*domain.News, error) {
	sl, err := resolveSlug(ctx, s.news.SlugExists, in.Title, in.Slug, "")
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusDraft
	}

	item := &domain.News{
		Title:    in.Title,
		Slug:     sl,
		Content:  in.Content,
		Excerpt:  in.Excerpt,
		Image:    in.Image,
		Status:   status,
		AuthorID: authorID,
	}
	publishOnce(&item.PublishedAt, domain.StatusDraft, status)

	if err := s.news.Create(ctx, item); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "news", EntityID: item.ID, Action: domain.AuditActionCreate,
		UserID: authorID, Changes: map[string]any{"title": item.Title, "status": item.Status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *newsService) Update(ctx context.Context, id, actorID string, in ContentUpdate, meta RequestMeta) (*domain.News, error) {
	item, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
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
		sl, err := resolveSlug(ctx, s.news.SlugExists, item.Title, explicit, item.ID)
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
		item.Status = *in.Status
	}
	publishOnce(&item.PublishedAt, oldStatus, item.Status)

	if err := s.news.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "news", EntityID: item.ID, Action: statusAuditAction(oldStatus, item.Status),
		UserID: actorID, Changes: map[string]any{"old_status": oldStatus, "new_status": item.Status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *newsService) Delete(ctx context.Context, id, actorID string, meta RequestMeta) error {
	if _, err := s.Get(ctx, id, false); err != nil {
		return err
	}
	if err := s.news.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.audit.Log(ctx, AuditEntry{
		EntityType: "news", EntityID: id, Action: domain.AuditActionDelete,
		UserID: actorID, Meta: meta,
	})
}

func (s *newsService) Get(ctx context.Context, id string, publicOnly bool) (*domain.News, error) {
	item, err := s.news.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("News not found")
		}
		return nil, err
	}
	if publicOnly && item.Status != domain.StatusPublished {
		return nil, apperror.NotFound("News not found")
	}
	return item, nil
}

func (s *newsService) List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.News, int, error) {
	return s.news.List(ctx, status, page, pageSize)
}

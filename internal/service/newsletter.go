package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/logger"
	"summitclub-backend/internal/repository"
)

type newsletterService struct {
	repo   repository.NewsletterRepository
	mailer Mailer
	audit  AuditService
}

func NewNewsletterService(repo repository.NewsletterRepository, mailer Mailer, audit AuditService) NewsletterService {
	return &newsletterService{repo: repo, mailer: mailer, audit: audit}
}

func (s *newsletterService) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.repo.GetSubscriberByEmail(ctx, email)
	if err == nil {
		if !existing.IsActive {
			if err := s.repo.SetSubscriberActive(ctx, existing.ID, true); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	sub := &domain.NewsletterSubscriber{Email: email, IsActive: true}
	if err := s.repo.CreateSubscriber(ctx, sub); err != nil {
		return false, err
	}
	return true, nil
}

func (s *newsletterService) ListSubscribers(ctx context.Context, page, pageSize int) ([]domain.NewsletterSubscriber, int, error) {
	return s.repo.ListSubscribers(ctx, page, pageSize)
}

func (s *newsletterService) ListCampaigns(ctx context.Context, page, pageSize int) ([]domain.NewsletterCampaign, int, error) {
	return s.repo.ListCampaigns(ctx, page, pageSize)
}

func (s *newsletterService) Send(ctx context.Context, authorID, subject, content string, meta RequestMeta) (*domain.NewsletterCampaign, error) {
	subscribers, err := s.repo.ListActiveSubscribers(ctx)
	if err != nil {
		return nil, err
	}
	if len(subscribers) == 0 {
		return nil, apperror.BadRequest("No active subscribers")
	}

	sent := 0
	for _, sub := range subscribers {
		if err := s.mailer.Send(ctx, sub.Email, subject, content); err != nil {
			logger.Warn("newsletter delivery failed", "subscriber", sub.Email, "error", err)
			continue
		}
		sent++
	}

	campaign := &domain.NewsletterCampaign{
		Subject:        subject,
		Content:        content,
		RecipientCount: sent,
		AuthorID:       authorID,
		SentAt:         time.Now(),
	}
	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "newsletter_campaign", EntityID: campaign.ID, Action: domain.AuditActionCreate,
		UserID: authorID, Changes: map[string]any{"subject": subject, "recipient_count": sent}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return campaign, nil
}

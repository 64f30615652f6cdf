package service

import (
	"context"
	"errors"
	"time"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/ratelimit"
	"summitclub-backend/internal/repository"
)

type eventService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	regLimiter    *ratelimit.Limiter
	audit         AuditService
}

func NewEventService(events repository.EventRepository, registrations repository.RegistrationRepository, regLimiter *ratelimit.Limiter, audit AuditService) EventService {
	return &eventService{
		events:        events,
		registrations: registrations,
		regLimiter:    regLimiter,
		audit:         audit,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID string, in EventInput, meta RequestMeta) (*domain.Event, error) {
	sl, err := resolveSlug(ctx, s.events.SlugExists, in.Title, in.Slug, "")
	if err != nil {
		return nil, err
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return nil, apperror.Validation("End date must not precede start date", nil)
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		return nil, apperror.Validation("Capacity must be positive", nil)
	}

	status := in.Status
	if status == "" {
		status = domain.StatusDraft
	}

	event := &domain.Event{
		Title:       in.Title,
		Slug:        sl,
		Description: in.Description,
		Location:    in.Location,
		Image:       in.Image,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Capacity:    in.Capacity,
		Status:      status,
		OrganizerID: organizerID,
	}
	publishOnce(&event.PublishedAt, domain.StatusDraft, status)

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "event", EntityID: event.ID, Action: domain.AuditActionCreate,
		UserID: organizerID, Changes: map[string]any{"title": event.Title, "status": event.Status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id, actorID string, in EventUpdate, meta RequestMeta) (*domain.Event, error) {
	event, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	oldStatus := event.Status

	titleChanged := in.Title != nil && *in.Title != event.Title
	if titleChanged {
		event.Title = *in.Title
	}
	explicit := ""
	if in.Slug != nil {
		explicit = *in.Slug
	}
	if titleChanged || explicit != "" {
		sl, err := resolveSlug(ctx, s.events.SlugExists, event.Title, explicit, event.ID)
		if err != nil {
			return nil, err
		}
		event.Slug = sl
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.Image != nil {
		event.Image = *in.Image
	}
	if in.StartDate != nil {
		event.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		event.EndDate = *in.EndDate
	}
	if in.HasCapacity {
		if in.Capacity != nil && *in.Capacity < 1 {
			return nil, apperror.Validation("Capacity must be positive", nil)
		}
		event.Capacity = in.Capacity
	}
	if in.Status != nil {
		event.Status = *in.Status
	}
	if !event.EndDate.IsZero() && event.EndDate.Before(event.StartDate) {
		return nil, apperror.Validation("End date must not precede start date", nil)
	}
	publishOnce(&event.PublishedAt, oldStatus, event.Status)

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "event", EntityID: event.ID, Action: statusAuditAction(oldStatus, event.Status),
		UserID: actorID, Changes: map[string]any{"old_status": oldStatus, "new_status": event.Status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id, actorID string, meta RequestMeta) error {
	if _, err := s.Get(ctx, id, false); err != nil {
		return err
	}
	if err := s.events.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.audit.Log(ctx, AuditEntry{
		EntityType: "event", EntityID: id, Action: domain.AuditActionDelete,
		UserID: actorID, Meta: meta,
	})
}

func (s *eventService) Get(ctx context.Context, id string, publicOnly bool) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Event not found")
		}
		return nil, err
	}
	if publicOnly && event.Status != domain.StatusPublished {
		return nil, apperror.NotFound("Event not found")
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, status domain.ContentStatus, ascending bool, page, pageSize int) ([]domain.Event, int, error) {
	return s.events.List(ctx, status, ascending, page, pageSize)
}

func (s *eventService) Register(ctx context.Context, eventID, userID string, meta RequestMeta) (*domain.EventRegistration, bool, error) {
	event, err := s.Get(ctx, eventID, true)
	if err != nil {
		return nil, false, err
	}

	if !s.regLimiter.Allow(meta.IP) {
		return nil, false, apperror.Conflict("Too many registration attempts. Please try again later.")
	}

	if existing, err := s.registrations.GetForUser(ctx, eventID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	if event.Capacity != nil {
		confirmed, err := s.registrations.CountConfirmed(ctx, eventID)
		if err != nil {
			return nil, false, err
		}
		// Count-then-insert is not atomic. Two concurrent requests can
		// both pass this check; admins confirm registrations manually,
		// which is where the overflow gets caught.
		if confirmed >= *event.Capacity {
			return nil, false, apperror.Conflict("Event is at capacity")
		}
	}

	reg := &domain.EventRegistration{
		EventID: eventID,
		UserID:  userID,
		Status:  domain.RegistrationStatusPending,
	}
	if err := s.registrations.Create(ctx, reg); err != nil {
		return nil, false, err
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "event_registration", EntityID: reg.ID, Action: domain.AuditActionCreate,
		UserID: userID, Changes: map[string]any{"event_id": eventID, "status": reg.Status}, Meta: meta,
	}); err != nil {
		return nil, false, err
	}
	return reg, true, nil
}

func (s *eventService) GetRegistration(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	reg, err := s.registrations.GetForUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Registration not found")
		}
		return nil, err
	}
	return reg, nil
}

func (s *eventService) UpdateRegistration(ctx context.Context, regID, actorID string, admin bool, status domain.RegistrationStatus, meta RequestMeta) (*domain.EventRegistration, error) {
	reg, err := s.registrations.GetByID(ctx, regID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Registration not found")
		}
		return nil, err
	}

	switch status {
	case domain.RegistrationStatusPending, domain.RegistrationStatusConfirmed, domain.RegistrationStatusCancelled:
	default:
		return nil, apperror.Validation("Invalid registration status", nil)
	}

	if !admin {
		if reg.UserID != actorID {
			return nil, apperror.Forbidden("")
		}
		if status != domain.RegistrationStatusCancelled {
			return nil, apperror.Forbidden("Members may only cancel their registration")
		}
		if reg.Status == domain.RegistrationStatusCancelled {
			return nil, apperror.Conflict("Registration is already cancelled")
		}
		event, err := s.events.GetByID(ctx, reg.EventID)
		if err != nil {
			return nil, err
		}
		if !event.StartDate.After(time.Now()) {
			return nil, apperror.Forbidden("Cannot cancel after the event has started")
		}
	}

	oldStatus := reg.Status
	var cancelledAt *time.Time
	if status == domain.RegistrationStatusCancelled {
		now := time.Now()
		cancelledAt = &now
	}
	if err := s.registrations.UpdateStatus(ctx, regID, status, cancelledAt); err != nil {
		return nil, err
	}
	reg.Status = status
	reg.CancelledAt = cancelledAt

	action := domain.AuditActionUpdate
	switch status {
	case domain.RegistrationStatusConfirmed:
		action = domain.AuditActionConfirm
	case domain.RegistrationStatusCancelled:
		action = domain.AuditActionCancel
	}
	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "event_registration", EntityID: regID, Action: action,
		UserID: actorID, Changes: map[string]any{"old_status": oldStatus, "new_status": status}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *eventService) MyRegistrations(ctx context.Context, userID string) ([]domain.MemberRegistration, error) {
	return s.registrations.ListForUser(ctx, userID)
}

func (s *eventService) ListRegistrations(ctx context.Context, eventID string, page, pageSize int) ([]domain.EventRegistrant, int, error) {
	if _, err := s.Get(ctx, eventID, false); err != nil {
		return nil, 0, err
	}
	return s.registrations.ListForEvent(ctx, eventID, page, pageSize)
}

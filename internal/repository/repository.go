package repository

import (
	"context"
	"errors"
	"time"

	"summitclub-backend/internal/domain"
)

// ErrNotFound is returned by Get* methods when no live row matches.
// Soft-deleted rows are invisible to every method in this package
// unless a method says otherwise.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role, verifiedAt *time.Time) error
	SetOTP(ctx context.Context, id string, code *string, expiresAt *time.Time) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]domain.User, int, error)
	ListRecent(ctx context.Context, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
	// ClearExpiredOTPCodes nulls out OTP codes whose expiry has passed.
	// Validity is still decided at verification time; this is hygiene.
	ClearExpiredOTPCodes(ctx context.Context) (int64, error)
}

type NewsRepository interface {
	Create(ctx context.Context, news *domain.News) error
	GetByID(ctx context.Context, id string) (*domain.News, error)
	Update(ctx context.Context, news *domain.News) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.News, int, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.Blog, int, error)
	ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Blog, int, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	SoftDelete(ctx context.Context, id string) error
	// List orders by startDate; asc lists upcoming-first, which is the
	// public default.
	List(ctx context.Context, status domain.ContentStatus, ascending bool, page, pageSize int) ([]domain.Event, int, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.EventRegistration) error
	GetByID(ctx context.Context, id string) (*domain.EventRegistration, error)
	// GetForUser finds the live registration for (event, user), or
	// ErrNotFound. The one-live-registration-per-pair invariant is
	// preserved by the service's lookup-before-create, not by a
	// database constraint.
	GetForUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus, cancelledAt *time.Time) error
	ListForUser(ctx context.Context, userID string) ([]domain.MemberRegistration, error)
	ListForEvent(ctx context.Context, eventID string, page, pageSize int) ([]domain.EventRegistrant, int, error)
	ListRecent(ctx context.Context, limit int) ([]domain.EventRegistrant, error)
}

type AuditLogRepository interface {
	// Create is the only method: audit rows are never read back by the
	// application, updated or deleted.
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// NoteFilter narrows admin note listings. Nil fields do not filter.
type NoteFilter struct {
	EntityType *string
	EntityID   *string
}

type AdminNoteRepository interface {
	Create(ctx context.Context, note *domain.AdminNote) error
	GetByID(ctx context.Context, id string) (*domain.AdminNote, error)
	Update(ctx context.Context, note *domain.AdminNote) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter NoteFilter, page, pageSize int) ([]domain.AdminNote, int, error)
}

type NewsletterRepository interface {
	GetSubscriberByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error)
	CreateSubscriber(ctx context.Context, sub *domain.NewsletterSubscriber) error
	SetSubscriberActive(ctx context.Context, id string, active bool) error
	ListSubscribers(ctx context.Context, page, pageSize int) ([]domain.NewsletterSubscriber, int, error)
	ListActiveSubscribers(ctx context.Context) ([]domain.NewsletterSubscriber, error)
	CreateCampaign(ctx context.Context, campaign *domain.NewsletterCampaign) error
	ListCampaigns(ctx context.Context, page, pageSize int) ([]domain.NewsletterCampaign, int, error)
}

package service

import (
	"context"
	"time"

	"summitclub-backend/internal/domain"
)

// RequestMeta carries per-request client attributes that services need
// for rate limiting and audit trails.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// ContentInput is the create payload shared by news and blogs.
type ContentInput struct {
	Title   string
	Slug    string
	Content string
	Excerpt string
	Image   string
	Status  domain.ContentStatus
}

// ContentUpdate is a partial update; nil fields are left untouched.
type ContentUpdate struct {
	Title   *string
	Slug    *string
	Content *string
	Excerpt *string
	Image   *string
	Status  *domain.ContentStatus
}

type EventInput struct {
	Title       string
	Slug        string
	Description string
	Location    string
	Image       string
	StartDate   time.Time
	EndDate     time.Time
	Capacity    *int
	Status      domain.ContentStatus
}

type EventUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	Location    *string
	Image       *string
	StartDate   *time.Time
	EndDate     *time.Time
	Capacity    *int
	HasCapacity bool // distinguishes "set capacity to nil" from "leave alone"
	Status      *domain.ContentStatus
}

type AuthService interface {
	Signup(ctx context.Context, email, password string, phone *string, meta RequestMeta) (*domain.User, string, error)
	Login(ctx context.Context, email, password string, meta RequestMeta) (*domain.User, string, error)
	SendOTP(ctx context.Context, phone string) error
	LoginOTP(ctx context.Context, phone, code string, meta RequestMeta) (*domain.User, string, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type NewsService interface {
	Create(ctx context.Context, authorID string, in ContentInput, meta RequestMeta) (*domain.News, error)
	Update(ctx context.Context, id, actorID string, in ContentUpdate, meta RequestMeta) (*domain.News, error)
	Delete(ctx context.Context, id, actorID string, meta RequestMeta) error
	Get(ctx context.Context, id string, publicOnly bool) (*domain.News, error)
	List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.News, int, error)
}

type BlogService interface {
	Create(ctx context.Context, authorID string, in ContentInput, meta RequestMeta) (*domain.Blog, error)
	// Update enforces ownership and the moderation rules: a BANNED blog
	// rejects owner edits outright, a FLAGGED blog accepts them but
	// lands back in DRAFT. Admin callers bypass both.
	Update(ctx context.Context, id, actorID string, admin bool, in ContentUpdate, meta RequestMeta) (*domain.Blog, error)
	Delete(ctx context.Context, id, actorID string, admin bool, meta RequestMeta) error
	Get(ctx context.Context, id string, publicOnly bool) (*domain.Blog, error)
	List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.Blog, int, error)
	ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Blog, int, error)
	Moderate(ctx context.Context, id string, status domain.ContentStatus, adminID string, meta RequestMeta) (*domain.Blog, error)
}

type EventService interface {
	Create(ctx context.Context, organizerID string, in EventInput, meta RequestMeta) (*domain.Event, error)
	Update(ctx context.Context, id, actorID string, in EventUpdate, meta RequestMeta) (*domain.Event, error)
	Delete(ctx context.Context, id, actorID string, meta RequestMeta) error
	Get(ctx context.Context, id string, publicOnly bool) (*domain.Event, error)
	List(ctx context.Context, status domain.ContentStatus, ascending bool, page, pageSize int) ([]domain.Event, int, error)

	// Register runs the full registration workflow. The bool result is
	// true when a new registration was created, false when an existing
	// live one was returned.
	Register(ctx context.Context, eventID, userID string, meta RequestMeta) (*domain.EventRegistration, bool, error)
	GetRegistration(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error)
	UpdateRegistration(ctx context.Context, regID, actorID string, admin bool, status domain.RegistrationStatus, meta RequestMeta) (*domain.EventRegistration, error)
	MyRegistrations(ctx context.Context, userID string) ([]domain.MemberRegistration, error)
	ListRegistrations(ctx context.Context, eventID string, page, pageSize int) ([]domain.EventRegistrant, int, error)
}

type NewsletterService interface {
	// Subscribe is idempotent. The bool result is true when a new
	// subscriber row was created.
	Subscribe(ctx context.Context, email string) (bool, error)
	ListSubscribers(ctx context.Context, page, pageSize int) ([]domain.NewsletterSubscriber, int, error)
	ListCampaigns(ctx context.Context, page, pageSize int) ([]domain.NewsletterCampaign, int, error)
	// Send dispatches to every active subscriber and records the
	// campaign. With no active subscribers nothing is sent or recorded.
	Send(ctx context.Context, authorID, subject, content string, meta RequestMeta) (*domain.NewsletterCampaign, error)
}

// DashboardStats backs the admin overview page.
type DashboardStats struct {
	TotalUsers          int                      `json:"total_users"`
	TotalEvents         int                      `json:"total_events"`
	TotalBlogs          int                      `json:"total_blogs"`
	TotalNews           int                      `json:"total_news"`
	RecentUsers         []domain.User            `json:"recent_users"`
	RecentRegistrations []domain.EventRegistrant `json:"recent_registrations"`
}

type AdminService interface {
	ListUsers(ctx context.Context, page, pageSize int) ([]domain.User, int, error)
	UpdateUserRole(ctx context.Context, userID string, role domain.Role, adminID string, meta RequestMeta) (*domain.User, error)
	// VerifyUser promotes MEMBER_UNVERIFIED to MEMBER_VERIFIED; any
	// other starting role is a validation error.
	VerifyUser(ctx context.Context, userID, adminID string, meta RequestMeta) (*domain.User, error)
	DeleteUser(ctx context.Context, userID, adminID string, meta RequestMeta) error
	Stats(ctx context.Context) (*DashboardStats, error)

	CreateNote(ctx context.Context, authorID, entityType, entityID, content string) (*domain.AdminNote, error)
	UpdateNote(ctx context.Context, noteID, authorID, content string) (*domain.AdminNote, error)
	DeleteNote(ctx context.Context, noteID string) error
	ListNotes(ctx context.Context, entityType, entityID *string, page, pageSize int) ([]domain.AdminNote, int, error)
}

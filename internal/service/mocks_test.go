package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
	"summitclub-backend/internal/service"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByPhoneNumber(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role, verifiedAt *time.Time) error {
	args := m.Called(ctx, id, role, verifiedAt)
	return args.Error(0)
}
func (m *MockUserRepo) SetOTP(ctx context.Context, id string, code *string, expiresAt *time.Time) error {
	args := m.Called(ctx, id, code, expiresAt)
	return args.Error(0)
}
func (m *MockUserRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, page, pageSize int) ([]domain.User, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}
func (m *MockUserRepo) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockUserRepo) ClearExpiredOTPCodes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockNewsRepo
type MockNewsRepo struct {
	mock.Mock
}

func (m *MockNewsRepo) Create(ctx context.Context, news *domain.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}
func (m *MockNewsRepo) GetByID(ctx context.Context, id string) (*domain.News, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}
func (m *MockNewsRepo) Update(ctx context.Context, news *domain.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}
func (m *MockNewsRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockNewsRepo) List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.News, int, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.News), args.Int(1), args.Error(2)
}
func (m *MockNewsRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockNewsRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockBlogRepo
type MockBlogRepo struct {
	mock.Mock
}

func (m *MockBlogRepo) Create(ctx context.Context, blog *domain.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}
func (m *MockBlogRepo) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Blog), args.Error(1)
}
func (m *MockBlogRepo) Update(ctx context.Context, blog *domain.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}
func (m *MockBlogRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBlogRepo) List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.Blog, int, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Blog), args.Int(1), args.Error(2)
}
func (m *MockBlogRepo) ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Blog, int, error) {
	args := m.Called(ctx, authorID, page, pageSize)
	return args.Get(0).([]domain.Blog), args.Int(1), args.Error(2)
}
func (m *MockBlogRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBlogRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventRepo) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEventRepo) List(ctx context.Context, status domain.ContentStatus, ascending bool, page, pageSize int) ([]domain.Event, int, error) {
	args := m.Called(ctx, status, ascending, page, pageSize)
	return args.Get(0).([]domain.Event), args.Int(1), args.Error(2)
}
func (m *MockEventRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockRegistrationRepo
type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *domain.EventRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}
func (m *MockRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.EventRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRegistration), args.Error(1)
}
func (m *MockRegistrationRepo) GetForUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRegistration), args.Error(1)
}
func (m *MockRegistrationRepo) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}
func (m *MockRegistrationRepo) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus, cancelledAt *time.Time) error {
	args := m.Called(ctx, id, status, cancelledAt)
	return args.Error(0)
}
func (m *MockRegistrationRepo) ListForUser(ctx context.Context, userID string) ([]domain.MemberRegistration, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.MemberRegistration), args.Error(1)
}
func (m *MockRegistrationRepo) ListForEvent(ctx context.Context, eventID string, page, pageSize int) ([]domain.EventRegistrant, int, error) {
	args := m.Called(ctx, eventID, page, pageSize)
	return args.Get(0).([]domain.EventRegistrant), args.Int(1), args.Error(2)
}
func (m *MockRegistrationRepo) ListRecent(ctx context.Context, limit int) ([]domain.EventRegistrant, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.EventRegistrant), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockNoteRepo
type MockNoteRepo struct {
	mock.Mock
}

func (m *MockNoteRepo) Create(ctx context.Context, note *domain.AdminNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNoteRepo) GetByID(ctx context.Context, id string) (*domain.AdminNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminNote), args.Error(1)
}
func (m *MockNoteRepo) Update(ctx context.Context, note *domain.AdminNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNoteRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockNoteRepo) List(ctx context.Context, filter repository.NoteFilter, page, pageSize int) ([]domain.AdminNote, int, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.AdminNote), args.Int(1), args.Error(2)
}

// MockNewsletterRepo
type MockNewsletterRepo struct {
	mock.Mock
}

func (m *MockNewsletterRepo) GetSubscriberByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NewsletterSubscriber), args.Error(1)
}
func (m *MockNewsletterRepo) CreateSubscriber(ctx context.Context, sub *domain.NewsletterSubscriber) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
func (m *MockNewsletterRepo) SetSubscriberActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}
func (m *MockNewsletterRepo) ListSubscribers(ctx context.Context, page, pageSize int) ([]domain.NewsletterSubscriber, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.NewsletterSubscriber), args.Int(1), args.Error(2)
}
func (m *MockNewsletterRepo) ListActiveSubscribers(ctx context.Context) ([]domain.NewsletterSubscriber, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.NewsletterSubscriber), args.Error(1)
}
func (m *MockNewsletterRepo) CreateCampaign(ctx context.Context, campaign *domain.NewsletterCampaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}
func (m *MockNewsletterRepo) ListCampaigns(ctx context.Context, page, pageSize int) ([]domain.NewsletterCampaign, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.NewsletterCampaign), args.Int(1), args.Error(2)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// newAudit wires a real audit service over the mock repository so
// tests can assert on the rows it writes.
func newAudit(repo *MockAuditRepo) service.AuditService {
	return service.NewAuditService(repo)
}

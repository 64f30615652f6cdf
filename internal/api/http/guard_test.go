package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/ratelimit"
	"summitclub-backend/internal/security"
	"summitclub-backend/internal/service"
)

const testSecret = "guard-test-secret-0123456789abcdef"

// mockEventService records calls so guard tests can assert ordering.
type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) Create(ctx context.Context, organizerID string, in service.EventInput, meta service.RequestMeta) (*domain.Event, error) {
	args := m.Called(ctx, organizerID, in, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *mockEventService) Update(ctx context.Context, id, actorID string, in service.EventUpdate, meta service.RequestMeta) (*domain.Event, error) {
	args := m.Called(ctx, id, actorID, in, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *mockEventService) Delete(ctx context.Context, id, actorID string, meta service.RequestMeta) error {
	args := m.Called(ctx, id, actorID, meta)
	return args.Error(0)
}
func (m *mockEventService) Get(ctx context.Context, id string, publicOnly bool) (*domain.Event, error) {
	args := m.Called(ctx, id, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *mockEventService) List(ctx context.Context, status domain.ContentStatus, ascending bool, page, pageSize int) ([]domain.Event, int, error) {
	args := m.Called(ctx, status, ascending, page, pageSize)
	return args.Get(0).([]domain.Event), args.Int(1), args.Error(2)
}
func (m *mockEventService) Register(ctx context.Context, eventID, userID string, meta service.RequestMeta) (*domain.EventRegistration, bool, error) {
	args := m.Called(ctx, eventID, userID, meta)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.EventRegistration), args.Bool(1), args.Error(2)
}
func (m *mockEventService) GetRegistration(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRegistration), args.Error(1)
}
func (m *mockEventService) UpdateRegistration(ctx context.Context, regID, actorID string, admin bool, status domain.RegistrationStatus, meta service.RequestMeta) (*domain.EventRegistration, error) {
	args := m.Called(ctx, regID, actorID, admin, status, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRegistration), args.Error(1)
}
func (m *mockEventService) MyRegistrations(ctx context.Context, userID string) ([]domain.MemberRegistration, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.MemberRegistration), args.Error(1)
}
func (m *mockEventService) ListRegistrations(ctx context.Context, eventID string, page, pageSize int) ([]domain.EventRegistrant, int, error) {
	args := m.Called(ctx, eventID, page, pageSize)
	return args.Get(0).([]domain.EventRegistrant), args.Int(1), args.Error(2)
}

// mockNewsService covers the public list surface.
type mockNewsService struct {
	mock.Mock
}

func (m *mockNewsService) Create(ctx context.Context, authorID string, in service.ContentInput, meta service.RequestMeta) (*domain.News, error) {
	args := m.Called(ctx, authorID, in, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}
func (m *mockNewsService) Update(ctx context.Context, id, actorID string, in service.ContentUpdate, meta service.RequestMeta) (*domain.News, error) {
	args := m.Called(ctx, id, actorID, in, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}
func (m *mockNewsService) Delete(ctx context.Context, id, actorID string, meta service.RequestMeta) error {
	args := m.Called(ctx, id, actorID, meta)
	return args.Error(0)
}
func (m *mockNewsService) Get(ctx context.Context, id string, publicOnly bool) (*domain.News, error) {
	args := m.Called(ctx, id, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}
func (m *mockNewsService) List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.News, int, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.News), args.Int(1), args.Error(2)
}

func testSessions() security.SessionManager {
	return security.NewSessionManager(testSecret, 0)
}

func sessionCookie(t *testing.T, role domain.Role) *http.Cookie {
	t.Helper()
	token, err := testSessions().Sign(&domain.User{ID: "u1", Email: "u1@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func newTestRouter(events service.EventService, news service.NewsService) http.Handler {
	return NewRouter(RouterDeps{
		Sessions:    testSessions(),
		AuthLimiter: ratelimit.NewLimiter(ratelimit.NewMemoryCounterStore(), "auth", 5, time.Minute),
		Events:      events,
		News:        news,
	})
}

func TestGuard_RequireAuth(t *testing.T) {
	router := newTestRouter(nil, nil)

	t.Run("NoCookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/member/dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GarbageCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/member/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token, err := testSessions().Sign(&domain.User{ID: "u1", Role: domain.RoleMemberVerified}, -time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/member/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGuard_UnverifiedMemberBlockedBeforeRegistration(t *testing.T) {
	events := new(mockEventService)
	router := newTestRouter(events, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/member/events/e1/register", nil)
	req.AddCookie(sessionCookie(t, domain.RoleMemberUnverified))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	// The guard fires before the workflow: no rate-limit token burned,
	// no capacity touched.
	events.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGuard_VerifiedMemberRegisters(t *testing.T) {
	events := new(mockEventService)
	router := newTestRouter(events, nil)

	events.On("Register", mock.Anything, "e1", "u1", mock.Anything).
		Return(&domain.EventRegistration{ID: "r1", EventID: "e1", UserID: "u1", Status: domain.RegistrationStatusPending}, true, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/member/events/e1/register", nil)
	req.AddCookie(sessionCookie(t, domain.RoleMemberVerified))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var reg domain.EventRegistration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.Equal(t, domain.RegistrationStatusPending, reg.Status)
}

func TestGetRegistration_NotRegisteredIsNullStatus(t *testing.T) {
	events := new(mockEventService)
	router := newTestRouter(events, nil)

	events.On("GetRegistration", mock.Anything, "e1", "u1").
		Return(nil, apperror.NotFound("Registration not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/member/events/e1/register", nil)
	req.AddCookie(sessionCookie(t, domain.RoleMemberVerified))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	val, ok := body["status"]
	require.True(t, ok)
	assert.Nil(t, val)
}

func TestGuard_AdminRoutes(t *testing.T) {
	router := newTestRouter(nil, nil)

	t.Run("MemberForbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.AddCookie(sessionCookie(t, domain.RoleMemberVerified))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AnonymousUnauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPublicList_CacheHeaders(t *testing.T) {
	news := new(mockNewsService)
	router := newTestRouter(nil, news)

	news.On("List", mock.Anything, domain.StatusPublished, 1, 10).
		Return([]domain.News{{ID: "n1", Status: domain.StatusPublished}}, 1, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=600", rec.Header().Get("Cache-Control"))

	var body pagedEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Pagination.Total)
	assert.Equal(t, 10, body.Pagination.Limit)
}

func TestPagination_Bounds(t *testing.T) {
	news := new(mockNewsService)
	router := newTestRouter(nil, news)

	// Oversized limit is clamped, junk page falls back to 1.
	news.On("List", mock.Anything, domain.StatusPublished, 1, 100).
		Return([]domain.News{}, 0, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news?page=zero&limit=9999", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	news.AssertExpectations(t)
}

func TestErrorEnvelope_Shape(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/member/dashboard", nil))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Authentication required", envelope["error"])
	assert.Equal(t, "UNAUTHORIZED", envelope["code"])

	ts, ok := envelope["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestSessionCookie_MaxAgeFollowsConfiguredTTL(t *testing.T) {
	h := NewAuthHandler(nil, true, 48*time.Hour)

	rec := httptest.NewRecorder()
	h.setSessionCookie(rec, "tok")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, sessionCookieName, cookie.Name)
	assert.Equal(t, int(48*time.Hour/time.Second), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestAuthRateLimit(t *testing.T) {
	// The login handler rejects the body before any credential work,
	// so a nil auth service is safe here: the limiter check runs first
	// and the sixth request never reaches the handler.
	router := newTestRouter(nil, nil)

	body := `{"email":"not-an-email","password":""}`
	var last int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
		if i < 5 {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// A different source address is unaffected.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = "192.0.2.2:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/ratelimit"
	"summitclub-backend/internal/repository"
	"summitclub-backend/internal/security"
	"summitclub-backend/internal/service"
)

const testSecret = "test-secret-key-at-least-32-characters"

func newAuthService(users *MockUserRepo, audit *MockAuditRepo, mailer *MockMailer) service.AuthService {
	return service.NewAuthService(users, security.NewSessionManager(testSecret, 0), ratelimit.NewLockout(), newAudit(audit), mailer)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	meta := service.RequestMeta{IP: "10.0.0.1"}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		audit := new(MockAuditRepo)
		svc := newAuthService(users, audit, new(MockMailer))

		users.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
		audit.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditLog) bool {
			return e.EntityType == "user" && e.Action == domain.AuditActionCreate
		})).Return(nil)

		user, token, err := svc.Signup(ctx, "New@Example.com", "hunter2climbs", nil, meta)
		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, domain.RoleMemberUnverified, user.Role)
		assert.NotEmpty(t, token)
		assert.True(t, security.VerifyPassword(user.PasswordHash, "hunter2climbs"))
	})

	t.Run("EmailTaken", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		users.On("GetByEmail", ctx, "taken@example.com").Return(&domain.User{ID: "u1"}, nil)

		_, _, err := svc.Signup(ctx, "taken@example.com", "hunter2climbs", nil, meta)
		assert.True(t, apperror.IsStatus(err, http.StatusConflict))
		assert.Contains(t, err.Error(), "already registered")
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	meta := service.RequestMeta{IP: "10.0.0.1"}
	hash, _ := security.HashPassword("correct-password")

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		users.On("GetByEmail", ctx, "alice@example.com").
			Return(&domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: hash, Role: domain.RoleMemberVerified}, nil)

		user, token, err := svc.Login(ctx, "alice@example.com", "correct-password", meta)
		assert.NoError(t, err)
		assert.Equal(t, "u1", user.ID)

		claims := security.NewSessionManager(testSecret, 0).Verify(token)
		assert.NotNil(t, claims)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, domain.RoleMemberVerified, claims.Role)
	})

	t.Run("WrongPasswordIsGeneric", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		users.On("GetByEmail", ctx, "alice@example.com").
			Return(&domain.User{ID: "u1", PasswordHash: hash, Role: domain.RoleMemberVerified}, nil)

		_, _, err := svc.Login(ctx, "alice@example.com", "wrong", meta)
		assert.True(t, apperror.IsStatus(err, http.StatusUnauthorized))
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("UnknownEmailIsSameGenericError", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)

		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever", meta)
		assert.True(t, apperror.IsStatus(err, http.StatusUnauthorized))
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("SuspendedForbidden", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		users.On("GetByEmail", ctx, "banned@example.com").
			Return(&domain.User{ID: "u1", PasswordHash: hash, Role: domain.RoleSuspended}, nil)

		_, _, err := svc.Login(ctx, "banned@example.com", "correct-password", meta)
		assert.True(t, apperror.IsStatus(err, http.StatusForbidden))
	})

	t.Run("LockoutAfterFiveFailuresThenRecovery", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		users.On("GetByEmail", ctx, "alice@example.com").
			Return(&domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: hash, Role: domain.RoleMemberVerified}, nil)

		for i := 0; i < 5; i++ {
			_, _, err := svc.Login(ctx, "alice@example.com", "wrong", meta)
			assert.True(t, apperror.IsStatus(err, http.StatusUnauthorized))
		}

		// The 6th attempt is rejected before the password is checked,
		// with the remaining seconds disclosed.
		_, _, err := svc.Login(ctx, "alice@example.com", "correct-password", meta)
		assert.True(t, apperror.IsStatus(err, http.StatusTooManyRequests))
		assert.Contains(t, err.Error(), "temporarily locked")
		assert.Contains(t, err.Error(), "seconds")
	})
}

func TestAuthService_OTP(t *testing.T) {
	ctx := context.Background()
	meta := service.RequestMeta{IP: "10.0.0.1"}
	phone := "+15550001111"

	t.Run("SendStoresCodeWithExpiry", func(t *testing.T) {
		users := new(MockUserRepo)
		mailer := new(MockMailer)
		svc := newAuthService(users, new(MockAuditRepo), mailer)

		users.On("GetByPhoneNumber", ctx, phone).
			Return(&domain.User{ID: "u1", Email: "alice@example.com", PhoneNumber: &phone}, nil)
		users.On("SetOTP", ctx, "u1", mock.MatchedBy(func(code *string) bool {
			return code != nil && len(*code) == 6
		}), mock.MatchedBy(func(exp *time.Time) bool {
			return exp != nil && exp.After(time.Now().Add(14*time.Minute))
		})).Return(nil)
		mailer.On("Send", ctx, "alice@example.com", mock.Anything, mock.Anything).Return(nil)

		assert.NoError(t, svc.SendOTP(ctx, phone))
		users.AssertExpectations(t)
	})

	t.Run("SendUnknownPhoneNotFound", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		users.On("GetByPhoneNumber", ctx, phone).Return(nil, repository.ErrNotFound)

		err := svc.SendOTP(ctx, phone)
		assert.True(t, apperror.IsStatus(err, http.StatusNotFound))
	})

	t.Run("LoginConsumesCode", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		code := "123456"
		expires := time.Now().Add(10 * time.Minute)
		users.On("GetByPhoneNumber", ctx, phone).
			Return(&domain.User{ID: "u1", Role: domain.RoleMemberVerified, PhoneNumber: &phone, OTPCode: &code, OTPExpiresAt: &expires}, nil)
		users.On("SetOTP", ctx, "u1", (*string)(nil), (*time.Time)(nil)).Return(nil)

		user, token, err := svc.LoginOTP(ctx, phone, code, meta)
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", user.ID)
		users.AssertExpectations(t)
	})

	t.Run("LoginDoesNotVerifyMember", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		code := "123456"
		expires := time.Now().Add(10 * time.Minute)
		users.On("GetByPhoneNumber", ctx, phone).
			Return(&domain.User{ID: "u1", Role: domain.RoleMemberUnverified, PhoneNumber: &phone, OTPCode: &code, OTPExpiresAt: &expires}, nil)
		users.On("SetOTP", ctx, "u1", (*string)(nil), (*time.Time)(nil)).Return(nil)

		// Proving phone ownership must not stand in for the admin
		// verify step.
		user, _, err := svc.LoginOTP(ctx, phone, code, meta)
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleMemberUnverified, user.Role)
		assert.Nil(t, user.VerifiedAt)
		users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ExpiredCodeRejected", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		code := "123456"
		expires := time.Now().Add(-time.Minute)
		users.On("GetByPhoneNumber", ctx, phone).
			Return(&domain.User{ID: "u1", PhoneNumber: &phone, OTPCode: &code, OTPExpiresAt: &expires}, nil)

		_, _, err := svc.LoginOTP(ctx, phone, code, meta)
		assert.True(t, apperror.IsStatus(err, http.StatusUnauthorized))
		users.AssertNotCalled(t, "SetOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WrongCodeRejected", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := newAuthService(users, new(MockAuditRepo), new(MockMailer))

		code := "123456"
		expires := time.Now().Add(10 * time.Minute)
		users.On("GetByPhoneNumber", ctx, phone).
			Return(&domain.User{ID: "u1", PhoneNumber: &phone, OTPCode: &code, OTPExpiresAt: &expires}, nil)

		_, _, err := svc.LoginOTP(ctx, phone, "654321", meta)
		assert.True(t, apperror.IsStatus(err, http.StatusUnauthorized))
	})
}

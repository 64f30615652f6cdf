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
	"summitclub-backend/internal/service"
)

func newBlogService(blogs *MockBlogRepo, audit *MockAuditRepo) service.BlogService {
	return service.NewBlogService(blogs, newAudit(audit))
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.ContentStatus) *domain.ContentStatus { return &s }

func TestBlogService_Update_Moderation(t *testing.T) {
	ctx := context.Background()
	meta := service.RequestMeta{IP: "10.0.0.1"}

	t.Run("BannedBlogRejectsOwnerEdit", func(t *testing.T) {
		blogs := new(MockBlogRepo)
		audit := new(MockAuditRepo)
		svc := newBlogService(blogs, audit)

		blogs.On("GetByID", ctx, "b1").
			Return(&domain.Blog{ID: "b1", AuthorID: "u1", Status: domain.StatusBanned}, nil)

		_, err := svc.Update(ctx, "b1", "u1", false, service.ContentUpdate{Content: strPtr("harmless edit")}, meta)
		assert.True(t, apperror.IsStatus(err, http.StatusForbidden))
		blogs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

		// Even an attempt to self-unban is rejected the same way.
		_, err = svc.Update(ctx, "b1", "u1", false, service.ContentUpdate{Status: statusPtr(domain.StatusPublished)}, meta)
		assert.True(t, apperror.IsStatus(err, http.StatusForbidden))
	})

	t.Run("FlaggedBlogOwnerEditForcesDraft", func(t *testing.T) {
		blogs := new(MockBlogRepo)
		audit := new(MockAuditRepo)
		svc := newBlogService(blogs, audit)

		blogs.On("GetByID", ctx, "b1").
			Return(&domain.Blog{ID: "b1", AuthorID: "u1", Title: "Trip Report", Slug: "trip-report", Status: domain.StatusFlagged}, nil)
		blogs.On("Update", ctx, mock.AnythingOfType("*domain.Blog")).Return(nil)
		audit.On("Create", ctx, mock.Anything).Return(nil)

		updated, err := svc.Update(ctx, "b1", "u1", false, service.ContentUpdate{
			Content: strPtr("cleaned up"),
			Status:  statusPtr(domain.StatusPublished),
		}, meta)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, updated.Status)
	})

	t.Run("AdminEditBypassesModeration", func(t *testing.T) {
		blogs := new(MockBlogRepo)
		audit := new(MockAuditRepo)
		svc := newBlogService(blogs, audit)

		blogs.On("GetByID", ctx, "b1").
			Return(&domain.Blog{ID: "b1", AuthorID: "u1", Title: "Trip Report", Slug: "trip-report", Status: domain.StatusBanned}, nil)
		blogs.On("Update", ctx, mock.AnythingOfType("*domain.Blog")).Return(nil)
		audit.On("Create", ctx, mock.Anything).Return(nil)

		updated, err := svc.Update(ctx, "b1", "admin1", true, service.ContentUpdate{Content: strPtr("fixed")}, meta)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusBanned, updated.Status)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		blogs := new(MockBlogRepo)
		audit := new(MockAuditRepo)
		svc := newBlogService(blogs, audit)

		blogs.On("GetByID", ctx, "b1").
			Return(&domain.Blog{ID: "b1", AuthorID: "u1", Status: domain.StatusDraft}, nil)

		_, err := svc.Update(ctx, "b1", "u2", false, service.ContentUpdate{Content: strPtr("x")}, meta)
		assert.True(t, apperror.IsStatus(err, http.StatusForbidden))
	})
}

func TestBlogService_PublishOnce(t *testing.T) {
	ctx := context.Background()
	meta := service.RequestMeta{}

	blogs := new(MockBlogRepo)
	audit := new(MockAuditRepo)
	svc := newBlogService(blogs, audit)

	blogs.On("GetByID", ctx, "b1").
		Return(&domain.Blog{ID: "b1", AuthorID: "u1", Title: "Trip Report", Slug: "trip-report", Status: domain.StatusDraft}, nil)
	blogs.On("Update", ctx, mock.AnythingOfType("*domain.Blog")).Return(nil)
	audit.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditLog) bool {
		return e.Action == domain.AuditActionPublish
	})).Return(nil)

	updated, err := svc.Update(ctx, "b1", "u1", false, service.ContentUpdate{Status: statusPtr(domain.StatusPublished)}, meta)
	assert.NoError(t, err)
	assert.NotNil(t, updated.PublishedAt)
	assert.WithinDuration(t, time.Now(), *updated.PublishedAt, time.Minute)
	audit.AssertExpectations(t)
}

func TestBlogService_Moderate(t *testing.T) {
	ctx := context.Background()
	meta := service.RequestMeta{IP: "10.0.0.1"}

	cases := []struct {
		name       string
		from       domain.ContentStatus
		to         domain.ContentStatus
		wantAction string
	}{
		{"FlagPublished", domain.StatusPublished, domain.StatusFlagged, domain.AuditActionFlag},
		{"BanFlagged", domain.StatusFlagged, domain.StatusBanned, domain.AuditActionBan},
		{"UnbanToPublished", domain.StatusBanned, domain.StatusPublished, domain.AuditActionUnban},
		{"RestoreFlaggedToPublished", domain.StatusFlagged, domain.StatusPublished, domain.AuditActionUnban},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blogs := new(MockBlogRepo)
			audit := new(MockAuditRepo)
			svc := newBlogService(blogs, audit)

			published := time.Now().Add(-24 * time.Hour)
			blogs.On("GetByID", ctx, "b1").
				Return(&domain.Blog{ID: "b1", AuthorID: "u1", Status: tc.from, PublishedAt: &published}, nil)
			blogs.On("Update", ctx, mock.AnythingOfType("*domain.Blog")).Return(nil)
			audit.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditLog) bool {
				return e.Action == tc.wantAction && e.UserID != nil && *e.UserID == "admin1"
			})).Return(nil)

			updated, err := svc.Moderate(ctx, "b1", tc.to, "admin1", meta)
			assert.NoError(t, err)
			assert.Equal(t, tc.to, updated.Status)
			// Moderation never moves the original publication time.
			assert.Equal(t, published, *updated.PublishedAt)
			audit.AssertExpectations(t)
		})
	}
}

func TestBlogService_CreateStatusRules(t *testing.T) {
	ctx := context.Background()
	meta := service.RequestMeta{}

	blogs := new(MockBlogRepo)
	audit := new(MockAuditRepo)
	svc := newBlogService(blogs, audit)

	blogs.On("SlugExists", ctx, "trip-report", "").Return(false, nil)

	_, err := svc.Create(ctx, "u1", service.ContentInput{Title: "Trip Report", Status: domain.StatusBanned}, meta)
	assert.True(t, apperror.IsStatus(err, http.StatusBadRequest))
	blogs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

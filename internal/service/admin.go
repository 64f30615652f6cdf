package service

import (
	"context"
	"errors"
	"time"

	"summitclub-backend/internal/apperror"
	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

const recentStatsLimit = 5

type adminService struct {
	users         repository.UserRepository
	events        repository.EventRepository
	blogs         repository.BlogRepository
	news          repository.NewsRepository
	registrations repository.RegistrationRepository
	notes         repository.AdminNoteRepository
	audit         AuditService
}

func NewAdminService(
	users repository.UserRepository,
	events repository.EventRepository,
	blogs repository.BlogRepository,
	news repository.NewsRepository,
	registrations repository.RegistrationRepository,
	notes repository.AdminNoteRepository,
	audit AuditService,
) AdminService {
	return &adminService{
		users:         users,
		events:        events,
		blogs:         blogs,
		news:          news,
		registrations: registrations,
		notes:         notes,
		audit:         audit,
	}
}

func (s *adminService) ListUsers(ctx context.Context, page, pageSize int) ([]domain.User, int, error) {
	return s.users.List(ctx, page, pageSize)
}

func (s *adminService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, userID string, role domain.Role, adminID string, meta RequestMeta) (*domain.User, error) {
	switch role {
	case domain.RoleMemberUnverified, domain.RoleMemberVerified, domain.RoleAdmin, domain.RoleSuspended:
	default:
		return nil, apperror.Validation("Invalid role", nil)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldRole := user.Role

	if err := s.users.UpdateRole(ctx, userID, role, nil); err != nil {
		return nil, err
	}
	user.Role = role

	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "user", EntityID: userID, Action: domain.AuditActionUpdateRole,
		UserID: adminID, Changes: map[string]any{"old_role": oldRole, "new_role": role}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) VerifyUser(ctx context.Context, userID, adminID string, meta RequestMeta) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleMemberUnverified {
		return nil, apperror.BadRequest("User is not awaiting verification")
	}

	now := time.Now()
	if err := s.users.UpdateRole(ctx, userID, domain.RoleMemberVerified, &now); err != nil {
		return nil, err
	}
	user.Role = domain.RoleMemberVerified
	user.VerifiedAt = &now

	if err := s.audit.Log(ctx, AuditEntry{
		EntityType: "user", EntityID: userID, Action: domain.AuditActionUpdateRole,
		UserID: adminID, Changes: map[string]any{"old_role": domain.RoleMemberUnverified, "new_role": domain.RoleMemberVerified}, Meta: meta,
	}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID, adminID string, meta RequestMeta) error {
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	if userID == adminID {
		return apperror.BadRequest("Cannot delete your own account")
	}
	if err := s.users.SoftDelete(ctx, userID); err != nil {
		return err
	}
	return s.audit.Log(ctx, AuditEntry{
		EntityType: "user", EntityID: userID, Action: domain.AuditActionDelete,
		UserID: adminID, Meta: meta,
	})
}

func (s *adminService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalEvents, err = s.events.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBlogs, err = s.blogs.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalNews, err = s.news.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RecentUsers, err = s.users.ListRecent(ctx, recentStatsLimit); err != nil {
		return nil, err
	}
	if stats.RecentRegistrations, err = s.registrations.ListRecent(ctx, recentStatsLimit); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) CreateNote(ctx context.Context, authorID, entityType, entityID, content string) (*domain.AdminNote, error) {
	note := &domain.AdminNote{
		EntityType: entityType,
		EntityID:   entityID,
		Content:    content,
		AuthorID:   authorID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *adminService) UpdateNote(ctx context.Context, noteID, authorID, content string) (*domain.AdminNote, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Note not found")
		}
		return nil, err
	}
	note.Content = content
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *adminService) DeleteNote(ctx context.Context, noteID string) error {
	if _, err := s.notes.GetByID(ctx, noteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Note not found")
		}
		return err
	}
	return s.notes.SoftDelete(ctx, noteID)
}

func (s *adminService) ListNotes(ctx context.Context, entityType, entityID *string, page, pageSize int) ([]domain.AdminNote, int, error) {
	return s.notes.List(ctx, repository.NoteFilter{EntityType: entityType, EntityID: entityID}, page, pageSize)
}

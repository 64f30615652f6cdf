package service

import (
	"context"
	"encoding/json"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

// AuditEntry describes one audited mutation. Changes is marshalled to
// JSON before storage; nil means no payload.
type AuditEntry struct {
	EntityType string
	EntityID   string
	Action     string
	UserID     string
	Changes    any
	Meta       RequestMeta
}

// AuditService appends to the audit trail. Insert failures propagate to
// the caller and fail the mutation that triggered them.
type AuditService interface {
	Log(ctx context.Context, entry AuditEntry) error
}

type auditService struct {
	repo repository.AuditLogRepository
}

func NewAuditService(repo repository.AuditLogRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Log(ctx context.Context, entry AuditEntry) error {
	row := &domain.AuditLog{
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
	}
	if entry.UserID != "" {
		row.UserID = &entry.UserID
	}
	if entry.Changes != nil {
		raw, err := json.Marshal(entry.Changes)
		if err != nil {
			return err
		}
		s := string(raw)
		row.Changes = &s
	}
	if entry.Meta.IP != "" {
		row.IPAddress = &entry.Meta.IP
	}
	if entry.Meta.UserAgent != "" {
		row.UserAgent = &entry.Meta.UserAgent
	}
	return s.repo.Create(ctx, row)
}

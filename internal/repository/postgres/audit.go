package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	query := `INSERT INTO audit_logs (id, entity_type, entity_id, action, user_id, changes, ip_address, user_agent, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.EntityType, entry.EntityID, entry.Action,
		entry.UserID, entry.Changes, entry.IPAddress, entry.UserAgent, entry.CreatedAt)
	return err
}

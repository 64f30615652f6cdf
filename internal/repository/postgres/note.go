package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type adminNoteRepository struct {
	db *sql.DB
}

func NewAdminNoteRepository(db *sql.DB) repository.AdminNoteRepository {
	return &adminNoteRepository{db: db}
}

const noteColumns = `id, entity_type, entity_id, content, author_id, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }) (*domain.AdminNote, error) {
	n := &domain.AdminNote{}
	err := row.Scan(&n.ID, &n.EntityType, &n.EntityID, &n.Content, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return n, nil
}

func (r *adminNoteRepository) Create(ctx context.Context, note *domain.AdminNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	query := `INSERT INTO admin_notes (id, entity_type, entity_id, content, author_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, note.ID, note.EntityType, note.EntityID, note.Content,
		note.AuthorID, note.CreatedAt, note.UpdatedAt)
	return err
}

func (r *adminNoteRepository) GetByID(ctx context.Context, id string) (*domain.AdminNote, error) {
	query := `SELECT ` + noteColumns + ` FROM admin_notes WHERE id = $1 AND ` + notDeleted
	return scanNote(r.db.QueryRowContext(ctx, query, id))
}

func (r *adminNoteRepository) Update(ctx context.Context, note *domain.AdminNote) error {
	note.UpdatedAt = time.Now()
	query := `UPDATE admin_notes SET content = $1, updated_at = $2 WHERE id = $3 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, note.Content, note.UpdatedAt, note.ID)
	return err
}

func (r *adminNoteRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE admin_notes SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *adminNoteRepository) List(ctx context.Context, filter repository.NoteFilter, page, pageSize int) ([]domain.AdminNote, int, error) {
	where := notDeleted
	args := []any{}
	if filter.EntityType != nil {
		args = append(args, *filter.EntityType)
		where += " AND entity_type = $" + itoa(len(args))
	}
	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		where += " AND entity_id = $" + itoa(len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM admin_notes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + noteColumns + ` FROM admin_notes WHERE ` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)+1) + ` OFFSET $` + itoa(len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.AdminNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *n)
	}
	return items, total, rows.Err()
}

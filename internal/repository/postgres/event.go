package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, title, slug, description, location, image, start_date, end_date, capacity, status, published_at, organizer_id, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Location, &e.Image,
		&e.StartDate, &e.EndDate, &e.Capacity, &e.Status, &e.PublishedAt, &e.OrganizerID,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	query := `INSERT INTO events (id, title, slug, description, location, image, start_date, end_date, capacity, status, published_at, organizer_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Title, e.Slug, e.Description, e.Location, e.Image,
		e.StartDate, e.EndDate, e.Capacity, e.Status, e.PublishedAt, e.OrganizerID, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND ` + notDeleted
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	e.UpdatedAt = time.Now()
	query := `UPDATE events SET title=$1, slug=$2, description=$3, location=$4, image=$5, start_date=$6, end_date=$7, capacity=$8, status=$9, published_at=$10, updated_at=$11
	          WHERE id=$12 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, e.Title, e.Slug, e.Description, e.Location, e.Image,
		e.StartDate, e.EndDate, e.Capacity, e.Status, e.PublishedAt, e.UpdatedAt, e.ID)
	return err
}

func (r *eventRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE events SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *eventRepository) List(ctx context.Context, status domain.ContentStatus, ascending bool, page, pageSize int) ([]domain.Event, int, error) {
	where := notDeleted
	args := []any{}
	if status != "" {
		where += " AND status = $1"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM events WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if ascending {
		order = "ASC"
	}
	offset := (page - 1) * pageSize
	limitPos := len(args) + 1
	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + where +
		` ORDER BY start_date ` + order + ` LIMIT $` + itoa(limitPos) + ` OFFSET $` + itoa(limitPos+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *e)
	}
	return items, total, rows.Err()
}

func (r *eventRepository) SlugExists(ctx context.Context, slugVal, excludeID string) (bool, error) {
	return slugExists(ctx, r.db, "events", slugVal, excludeID)
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM events WHERE `+notDeleted).Scan(&count)
	return count, err
}

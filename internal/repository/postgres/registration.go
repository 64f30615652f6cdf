package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) repository.RegistrationRepository {
	return &registrationRepository{db: db}
}

const registrationColumns = `id, event_id, user_id, status, registered_at, cancelled_at`

func scanRegistration(row interface{ Scan(...any) error }) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.RegisteredAt, &reg.CancelledAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now()
	}
	query := `INSERT INTO event_registrations (id, event_id, user_id, status, registered_at, cancelled_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, reg.ID, reg.EventID, reg.UserID, reg.Status, reg.RegisteredAt, reg.CancelledAt)
	return err
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE id = $1 AND ` + notDeleted
	return scanRegistration(r.db.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetForUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations
	          WHERE event_id = $1 AND user_id = $2 AND ` + notDeleted
	return scanRegistration(r.db.QueryRowContext(ctx, query, eventID, userID))
}

func (r *registrationRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	var count int
	query := `SELECT count(*) FROM event_registrations WHERE event_id = $1 AND status = $2 AND ` + notDeleted
	err := r.db.QueryRowContext(ctx, query, eventID, domain.RegistrationStatusConfirmed).Scan(&count)
	return count, err
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus, cancelledAt *time.Time) error {
	query := `UPDATE event_registrations SET status = $1, cancelled_at = $2 WHERE id = $3 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, status, cancelledAt, id)
	return err
}

func (r *registrationRepository) ListForUser(ctx context.Context, userID string) ([]domain.MemberRegistration, error) {
	query := `SELECT r.id, r.event_id, r.user_id, r.status, r.registered_at, r.cancelled_at,
	                 e.id, e.title, e.slug, e.start_date, e.location, e.status
	          FROM event_registrations r
	          JOIN events e ON e.id = r.event_id
	          WHERE r.user_id = $1 AND r.deleted_at IS NULL AND e.deleted_at IS NULL
	          ORDER BY e.start_date ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MemberRegistration
	for rows.Next() {
		var m domain.MemberRegistration
		err := rows.Scan(&m.Registration.ID, &m.Registration.EventID, &m.Registration.UserID,
			&m.Registration.Status, &m.Registration.RegisteredAt, &m.Registration.CancelledAt,
			&m.Event.ID, &m.Event.Title, &m.Event.Slug, &m.Event.StartDate, &m.Event.Location, &m.Event.Status)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *registrationRepository) ListForEvent(ctx context.Context, eventID string, page, pageSize int) ([]domain.EventRegistrant, int, error) {
	var total int
	countQuery := `SELECT count(*) FROM event_registrations WHERE event_id = $1 AND ` + notDeleted
	if err := r.db.QueryRowContext(ctx, countQuery, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT r.id, r.event_id, r.user_id, r.status, r.registered_at, r.cancelled_at, u.email
	          FROM event_registrations r
	          JOIN users u ON u.id = r.user_id
	          WHERE r.event_id = $1 AND r.deleted_at IS NULL
	          ORDER BY r.registered_at ASC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, eventID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.EventRegistrant
	for rows.Next() {
		var reg domain.EventRegistrant
		err := rows.Scan(&reg.Registration.ID, &reg.Registration.EventID, &reg.Registration.UserID,
			&reg.Registration.Status, &reg.Registration.RegisteredAt, &reg.Registration.CancelledAt,
			&reg.UserEmail)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, reg)
	}
	return items, total, rows.Err()
}

func (r *registrationRepository) ListRecent(ctx context.Context, limit int) ([]domain.EventRegistrant, error) {
	query := `SELECT r.id, r.event_id, r.user_id, r.status, r.registered_at, r.cancelled_at, u.email
	          FROM event_registrations r
	          JOIN users u ON u.id = r.user_id
	          WHERE r.deleted_at IS NULL
	          ORDER BY r.registered_at DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.EventRegistrant
	for rows.Next() {
		var reg domain.EventRegistrant
		err := rows.Scan(&reg.Registration.ID, &reg.Registration.EventID, &reg.Registration.UserID,
			&reg.Registration.Status, &reg.Registration.RegisteredAt, &reg.Registration.CancelledAt,
			&reg.UserEmail)
		if err != nil {
			return nil, err
		}
		items = append(items, reg)
	}
	return items, rows.Err()
}

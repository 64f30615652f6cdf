package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"summitclub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.NewsRepository
	repository.BlogRepository
	repository.EventRepository
	repository.RegistrationRepository
	repository.AuditLogRepository
	repository.AdminNoteRepository
	repository.NewsletterRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		NewsRepository:         NewNewsRepository(db),
		BlogRepository:         NewBlogRepository(db),
		EventRepository:        NewEventRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
		AuditLogRepository:     NewAuditLogRepository(db),
		AdminNoteRepository:    NewAdminNoteRepository(db),
		NewsletterRepository:   NewNewsletterRepository(db),
	}
}

// notDeleted is the soft-delete policy: every business query combines
// it with its own predicate. Rows with a deletion timestamp only
// surface when explicitly querying history, which nothing here does.
const notDeleted = "deleted_at IS NULL"

// mapNotFound converts the driver's empty-result error into the
// repository sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// slugExists checks slug collisions among live rows, excluding the row
// being updated. The table name is always a compile-time constant from
// this package, never user input.
func slugExists(ctx context.Context, db *sql.DB, table, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE slug = $1 AND id <> $2 AND ` + notDeleted + `)`
	var exists bool
	err := db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	return exists, err
}

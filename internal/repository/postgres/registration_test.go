package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
	"summitclub-backend/internal/repository/postgres"
)

var registrationCols = []string{"id", "event_id", "user_id", "status", "registered_at", "cancelled_at"}

func TestRegistrationRepository_GetForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(registrationCols).
			AddRow("r1", "e1", "u1", "CONFIRMED", time.Now(), nil)

		mock.ExpectQuery("SELECT (.+) FROM event_registrations\\s+WHERE event_id = \\$1 AND user_id = \\$2 AND deleted_at IS NULL").
			WithArgs("e1", "u1").
			WillReturnRows(rows)

		reg, err := repo.GetForUser(ctx, "e1", "u1")
		assert.NoError(t, err)
		assert.NotNil(t, reg)
		assert.Equal(t, domain.RegistrationStatusConfirmed, reg.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM event_registrations").
			WithArgs("e1", "u2").
			WillReturnRows(sqlmock.NewRows(registrationCols))

		reg, err := repo.GetForUser(ctx, "e1", "u2")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, reg)
	})
}

func TestRegistrationRepository_CountConfirmed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM event_registrations WHERE event_id = \\$1 AND status = \\$2 AND deleted_at IS NULL").
		WithArgs("e1", domain.RegistrationStatusConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountConfirmed(ctx, "e1")
	assert.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestRegistrationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	ctx := context.Background()

	reg := &domain.EventRegistration{
		EventID: "e1",
		UserID:  "u1",
		Status:  domain.RegistrationStatusPending,
	}

	mock.ExpectExec("INSERT INTO event_registrations").
		WithArgs(sqlmock.AnyArg(), "e1", "u1", domain.RegistrationStatusPending, sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(ctx, reg))
	assert.NotEmpty(t, reg.ID)
	assert.False(t, reg.RegisteredAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	ctx := context.Background()

	cancelled := time.Now()
	mock.ExpectExec("UPDATE event_registrations SET status = \\$1, cancelled_at = \\$2 WHERE id = \\$3 AND deleted_at IS NULL").
		WithArgs(domain.RegistrationStatusCancelled, &cancelled, "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateStatus(ctx, "r1", domain.RegistrationStatusCancelled, &cancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	ctx := context.Background()

	cols := []string{"id", "event_id", "user_id", "status", "registered_at", "cancelled_at",
		"e_id", "title", "slug", "start_date", "location", "e_status"}
	rows := sqlmock.NewRows(cols).
		AddRow("r1", "e1", "u1", "CONFIRMED", time.Now(), nil,
			"e1", "Summit Day", "summit-day", time.Now(), "Base Camp", "PUBLISHED")

	mock.ExpectQuery("SELECT (.+) FROM event_registrations r\\s+JOIN events e ON e.id = r.event_id").
		WithArgs("u1").
		WillReturnRows(rows)

	items, err := repo.ListForUser(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "summit-day", items[0].Event.Slug)
	assert.Equal(t, domain.RegistrationStatusConfirmed, items[0].Registration.Status)
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, role, phone_number, otp_code, otp_expires_at, verified_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.PhoneNumber,
		&u.OTPCode, &u.OTPExpiresAt, &u.VerifiedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	query := `INSERT INTO users (id, email, password_hash, role, phone_number, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.Role, u.PhoneNumber, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND ` + notDeleted
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND ` + notDeleted
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByPhoneNumber(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1 AND ` + notDeleted
	return scanUser(r.db.QueryRowContext(ctx, query, phone))
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role, verifiedAt *time.Time) error {
	query := `UPDATE users SET role = $1, verified_at = COALESCE($2, verified_at), updated_at = $3 WHERE id = $4 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, role, verifiedAt, time.Now(), id)
	return err
}

func (r *userRepository) SetOTP(ctx context.Context, id string, code *string, expiresAt *time.Time) error {
	query := `UPDATE users SET otp_code = $1, otp_expires_at = $2, updated_at = $3 WHERE id = $4 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, code, expiresAt, time.Now(), id)
	return err
}

func (r *userRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE users SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *userRepository) List(ctx context.Context, page, pageSize int) ([]domain.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE `+notDeleted).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + notDeleted + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + notDeleted + ` ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE `+notDeleted).Scan(&count)
	return count, err
}

func (r *userRepository) ClearExpiredOTPCodes(ctx context.Context) (int64, error) {
	query := `UPDATE users SET otp_code = NULL, otp_expires_at = NULL, updated_at = $1
	          WHERE otp_expires_at IS NOT NULL AND otp_expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type newsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) repository.NewsRepository {
	return &newsRepository{db: db}
}

const newsColumns = `id, title, slug, content, excerpt, image, status, published_at, author_id, created_at, updated_at`

func scanNews(row interface{ Scan(...any) error }) (*domain.News, error) {
	n := &domain.News{}
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Content, &n.Excerpt, &n.Image,
		&n.Status, &n.PublishedAt, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return n, nil
}

func (r *newsRepository) Create(ctx context.Context, n *domain.News) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	query := `INSERT INTO news (id, title, slug, content, excerpt, image, status, published_at, author_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, n.ID, n.Title, n.Slug, n.Content, n.Excerpt, n.Image,
		n.Status, n.PublishedAt, n.AuthorID, n.CreatedAt, n.UpdatedAt)
	return err
}

func (r *newsRepository) GetByID(ctx context.Context, id string) (*domain.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = $1 AND ` + notDeleted
	return scanNews(r.db.QueryRowContext(ctx, query, id))
}

func (r *newsRepository) Update(ctx context.Context, n *domain.News) error {
	n.UpdatedAt = time.Now()
	query := `UPDATE news SET title=$1, slug=$2, content=$3, excerpt=$4, image=$5, status=$6, published_at=$7, updated_at=$8
	          WHERE id=$9 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, n.Title, n.Slug, n.Content, n.Excerpt, n.Image,
		n.Status, n.PublishedAt, n.UpdatedAt, n.ID)
	return err
}

func (r *newsRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE news SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *newsRepository) List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.News, int, error) {
	where := notDeleted
	args := []any{}
	if status != "" {
		where += " AND status = $1"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM news WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	limitPos := len(args) + 1
	query := `SELECT ` + newsColumns + ` FROM news WHERE ` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(limitPos) + ` OFFSET $` + itoa(limitPos+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *n)
	}
	return items, total, rows.Err()
}

func (r *newsRepository) SlugExists(ctx context.Context, slugVal, excludeID string) (bool, error) {
	return slugExists(ctx, r.db, "news", slugVal, excludeID)
}

func (r *newsRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM news WHERE `+notDeleted).Scan(&count)
	return count, err
}

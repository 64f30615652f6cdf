package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type blogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) repository.BlogRepository {
	return &blogRepository{db: db}
}

const blogColumns = `id, title, slug, content, excerpt, image, status, published_at, author_id, created_at, updated_at`

func scanBlog(row interface{ Scan(...any) error }) (*domain.Blog, error) {
	b := &domain.Blog{}
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.Excerpt, &b.Image,
		&b.Status, &b.PublishedAt, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (r *blogRepository) Create(ctx context.Context, b *domain.Blog) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	query := `INSERT INTO blogs (id, title, slug, content, excerpt, image, status, published_at, author_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.Title, b.Slug, b.Content, b.Excerpt, b.Image,
		b.Status, b.PublishedAt, b.AuthorID, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1 AND ` + notDeleted
	return scanBlog(r.db.QueryRowContext(ctx, query, id))
}

func (r *blogRepository) Update(ctx context.Context, b *domain.Blog) error {
	b.UpdatedAt = time.Now()
	query := `UPDATE blogs SET title=$1, slug=$2, content=$3, excerpt=$4, image=$5, status=$6, published_at=$7, updated_at=$8
	          WHERE id=$9 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, b.Title, b.Slug, b.Content, b.Excerpt, b.Image,
		b.Status, b.PublishedAt, b.UpdatedAt, b.ID)
	return err
}

func (r *blogRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE blogs SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND ` + notDeleted
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *blogRepository) List(ctx context.Context, status domain.ContentStatus, page, pageSize int) ([]domain.Blog, int, error) {
	where := notDeleted
	args := []any{}
	if status != "" {
		where += " AND status = $1"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM blogs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	limitPos := len(args) + 1
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE ` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(limitPos) + ` OFFSET $` + itoa(limitPos+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *b)
	}
	return items, total, rows.Err()
}

func (r *blogRepository) ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Blog, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM blogs WHERE author_id = $1 AND `+notDeleted, authorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE author_id = $1 AND ` + notDeleted +
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, authorID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *b)
	}
	return items, total, rows.Err()
}

func (r *blogRepository) SlugExists(ctx context.Context, slugVal, excludeID string) (bool, error) {
	return slugExists(ctx, r.db, "blogs", slugVal, excludeID)
}

func (r *blogRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM blogs WHERE `+notDeleted).Scan(&count)
	return count, err
}

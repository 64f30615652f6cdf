package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"summitclub-backend/internal/domain"
	"summitclub-backend/internal/repository"
)

type newsletterRepository struct {
	db *sql.DB
}

func NewNewsletterRepository(db *sql.DB) repository.NewsletterRepository {
	return &newsletterRepository{db: db}
}

const subscriberColumns = `id, email, is_active, created_at, updated_at`

func scanSubscriber(row interface{ Scan(...any) error }) (*domain.NewsletterSubscriber, error) {
	s := &domain.NewsletterSubscriber{}
	err := row.Scan(&s.ID, &s.Email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return s, nil
}

func (r *newsletterRepository) GetSubscriberByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE email = $1`
	return scanSubscriber(r.db.QueryRowContext(ctx, query, email))
}

func (r *newsletterRepository) CreateSubscriber(ctx context.Context, sub *domain.NewsletterSubscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	query := `INSERT INTO newsletter_subscribers (id, email, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, sub.ID, sub.Email, sub.IsActive, sub.CreatedAt, sub.UpdatedAt)
	return err
}

func (r *newsletterRepository) SetSubscriberActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE newsletter_subscribers SET is_active = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	return err
}

func (r *newsletterRepository) ListSubscribers(ctx context.Context, page, pageSize int) ([]domain.NewsletterSubscriber, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM newsletter_subscribers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers
	          ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.NewsletterSubscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *s)
	}
	return items, total, rows.Err()
}

func (r *newsletterRepository) ListActiveSubscribers(ctx context.Context) ([]domain.NewsletterSubscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE is_active = TRUE ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.NewsletterSubscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *newsletterRepository) CreateCampaign(ctx context.Context, campaign *domain.NewsletterCampaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = time.Now()
	}
	query := `INSERT INTO newsletter_campaigns (id, subject, content, recipient_count, author_id, sent_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, campaign.ID, campaign.Subject, campaign.Content,
		campaign.RecipientCount, campaign.AuthorID, campaign.SentAt, campaign.CreatedAt)
	return err
}

func (r *newsletterRepository) ListCampaigns(ctx context.Context, page, pageSize int) ([]domain.NewsletterCampaign, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM newsletter_campaigns`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, subject, content, recipient_count, author_id, sent_at, created_at
	          FROM newsletter_campaigns ORDER BY sent_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.NewsletterCampaign
	for rows.Next() {
		var c domain.NewsletterCampaign
		err := rows.Scan(&c.ID, &c.Subject, &c.Content, &c.RecipientCount, &c.AuthorID, &c.SentAt, &c.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

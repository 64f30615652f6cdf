package domain

import "time"

type NewsletterSubscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewsletterCampaign logs a send. Dispatch itself goes through the
// Mailer; the default mailer only simulates delivery.
type NewsletterCampaign struct {
	ID             string    `json:"id"`
	Subject        string    `json:"subject"`
	Content        string    `json:"content"`
	RecipientCount int       `json:"recipient_count"`
	AuthorID       string    `json:"author_id"`
	SentAt         time.Time `json:"sent_at"`
	CreatedAt      time.Time `json:"created_at"`
}

package domain

import "time"

// ContentStatus is the lifecycle shared by news, blogs and events.
// FLAGGED and BANNED are moderation states reachable only for blogs,
// and only through an admin action.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "DRAFT"
	StatusPublished ContentStatus = "PUBLISHED"
	StatusArchived  ContentStatus = "ARCHIVED"
	StatusFlagged   ContentStatus = "FLAGGED"
	StatusBanned    ContentStatus = "BANNED"
)

type News struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Content     string        `json:"content"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Image       string        `json:"image,omitempty"`
	Status      ContentStatus `json:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	AuthorID    string        `json:"author_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"-"`
}

type Blog struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Content     string        `json:"content"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Image       string        `json:"image,omitempty"`
	Status      ContentStatus `json:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	AuthorID    string        `json:"author_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"-"`
}

package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "PENDING"
	RegistrationStatusConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationStatusCancelled RegistrationStatus = "CANCELLED"
)

type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Image       string        `json:"image,omitempty"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	// Capacity nil means unlimited.
	Capacity    *int          `json:"capacity,omitempty"`
	Status      ContentStatus `json:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	OrganizerID string        `json:"organizer_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"-"`
}

type EventRegistration struct {
	ID           string             `json:"id"`
	EventID      string             `json:"event_id"`
	UserID       string             `json:"user_id"`
	Status       RegistrationStatus `json:"status"`
	RegisteredAt time.Time          `json:"registered_at"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	DeletedAt    *time.Time         `json:"-"`
}

// EventSummary is the slice of an event shown on member dashboards.
type EventSummary struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Slug      string        `json:"slug"`
	StartDate time.Time     `json:"start_date"`
	Location  string        `json:"location"`
	Status    ContentStatus `json:"status"`
}

// MemberRegistration pairs a registration with its event summary.
type MemberRegistration struct {
	Registration EventRegistration `json:"registration"`
	Event        EventSummary      `json:"event"`
}

// EventRegistrant pairs a registration with the registrant's email,
// for admin registration tables.
type EventRegistrant struct {
	Registration EventRegistration `json:"registration"`
	UserEmail    string            `json:"user_email"`
}

package domain

import "time"

// Audit actions recorded for mutating admin/service calls.
const (
	AuditActionCreate     = "CREATE"
	AuditActionUpdate     = "UPDATE"
	AuditActionDelete     = "DELETE"
	AuditActionPublish    = "PUBLISH"
	AuditActionArchive    = "ARCHIVE"
	AuditActionConfirm    = "CONFIRM"
	AuditActionCancel     = "CANCEL"
	AuditActionFlag       = "FLAG"
	AuditActionBan        = "BAN"
	AuditActionUnban      = "UNBAN"
	AuditActionUpdateRole = "UPDATE_ROLE"
)

// AuditLog rows are append-only; nothing in the codebase updates or
// deletes them.
type AuditLog struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	UserID     *string   `json:"user_id,omitempty"`
	Changes    *string   `json:"changes,omitempty"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	UserAgent  *string   `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type AdminNote struct {
	ID         string     `json:"id"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Content    string     `json:"content"`
	AuthorID   string     `json:"author_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"-"`
}

package domain

import "time"

type Role string

const (
	RoleMemberUnverified Role = "MEMBER_UNVERIFIED"
	RoleMemberVerified   Role = "MEMBER_VERIFIED"
	RoleAdmin            Role = "ADMIN"
	RoleSuspended        Role = "SUSPENDED"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	PhoneNumber  *string    `json:"phone_number,omitempty"`
	OTPCode      *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

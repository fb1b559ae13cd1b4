package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a custom type for our ENUM
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User represents a portal account.
type User struct {
	ID             uuid.UUID
	FullName       string
	Email          *string // Nullable
	Phone          *string // Nullable, E.164
	Role           Role
	TelegramChatID *int64 // Nullable, set once the user links the bot
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user may act as a reviewer.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session returns the session a transport builds for this user.
func (u *User) Session() Session {
	return Session{UserID: u.ID, Role: u.Role}
}

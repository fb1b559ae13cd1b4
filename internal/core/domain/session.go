package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Session is the authenticated caller of a core operation.
// Transports resolve it (JWT, Telegram user lookup) and pass it explicitly.
type Session struct {
	UserID uuid.UUID
	Role   Role
}

// IsZero reports whether the session carries no identity.
func (s Session) IsZero() bool {
	return s.UserID == uuid.Nil
}

// RequireUser fails with ErrUnauthenticated for an empty session.
func (s Session) RequireUser() error {
	if s.IsZero() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireRole fails unless the session is authenticated and holds role.
func (s Session) RequireRole(role Role) error {
	if err := s.RequireUser(); err != nil {
		return err
	}
	if s.Role != role {
		return fmt.Errorf("%w: requires role %q", ErrForbidden, role)
	}
	return nil
}

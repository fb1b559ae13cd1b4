package ports

import (
	"MediVerify/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the persistence operations for Users.
type UserRepository interface {
	// Create saves a new user to the database.
	Create(ctx context.Context, user *domain.User) error

	// GetByID finds a user by their internal UUID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByTelegramChatID finds the user linked to a Telegram chat.
	GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.User, error)

	Update(ctx context.Context, user *domain.User) error

	// CountByRole returns the number of users per role.
	CountByRole(ctx context.Context) (map[domain.Role]int, error)
}

// TelegramLinkRepository keeps the one-time tokens a user hands to the
// bot to bind their chat. Only a keyed hash of the token is stored.
type TelegramLinkRepository interface {
	// Replace stores userID's token, dropping any older one.
	Replace(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error

	// Consume deletes the token and returns its owner. It returns
	// uuid.Nil when the token is unknown or expired at now.
	Consume(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error)
}

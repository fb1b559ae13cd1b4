package postgres

import (
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type telegramLinkRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.TelegramLinkRepository = (*telegramLinkRepository)(nil)

func NewTelegramLinkRepository(db *DB, baseLogger *zerolog.Logger) ports.TelegramLinkRepository {
	return &telegramLinkRepository{
		db:  db,
		log: baseLogger.With().Str("component", "telegram_link_repo").Logger(),
	}
}

// Replace keeps one outstanding token per user.
func (r *telegramLinkRepository) Replace(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO telegram_links (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			token_hash = EXCLUDED.token_hash,
			expires_at = EXCLUDED.expires_at,
			created_at = NOW()
	`
	if _, err := r.db.conn(ctx).Exec(ctx, query, userID, tokenHash, expiresAt); err != nil {
		r.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to store telegram link token")
		return persistErr("replace telegram link", err)
	}
	return nil
}

// Consume deletes the token whether or not it is still valid, so an
// expired token cannot be retried.
func (r *telegramLinkRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error) {
	var (
		userID    uuid.UUID
		expiresAt time.Time
	)
	query := `DELETE FROM telegram_links WHERE token_hash = $1 RETURNING user_id, expires_at`
	err := r.db.conn(ctx).QueryRow(ctx, query, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, nil
		}
		r.log.Error().Err(err).Msg("Failed to consume telegram link token")
		return uuid.Nil, persistErr("consume telegram link", err)
	}
	if now.After(expiresAt) {
		return uuid.Nil, nil
	}
	return userID, nil
}

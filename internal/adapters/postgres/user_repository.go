package postgres

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type userRepository struct {
	db     *DB
	secSvc ports.SecurityPort // Phone numbers are stored encrypted
	log    zerolog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil)

// NewUserRepository returns the postgres-backed account store.
func NewUserRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.UserRepository {
	return &userRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "user_repo").Logger(),
	}
}

const userQueryCols = `id, full_name, email, phone, role, telegram_chat_id, created_at, updated_at`

// Create encrypts the phone number and saves a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	encPhone, err := encryptOptional(r.secSvc, user.Phone)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt phone number")
		return err
	}

	query := `
		INSERT INTO users (id, full_name, email, phone, role, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err = r.db.conn(ctx).QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		encPhone,
		user.Role,
		user.TelegramChatID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to insert new user")
		return persistErr("insert user", err)
	}
	return nil
}

// scanUser scans a row and decrypts the phone number.
func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var encPhone *string

	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&encPhone,
		&user.Role,
		&user.TelegramChatID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Phone, err = decryptOptional(r.secSvc, encPhone)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to decrypt phone number (tampered?)")
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userQueryCols + ` FROM users WHERE ` + where
	user, err := r.scanUser(r.db.conn(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Return nil, nil for "not found"
		}
		r.log.Error().Err(err).Msg("Failed to load user")
		return nil, persistErr("select user", err)
	}
	return user, nil
}

// GetByID loads a user and decrypts the phone. Missing users yield (nil, nil).
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByTelegramChatID finds the user linked to a Telegram chat.
func (r *userRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	return r.getOne(ctx, "telegram_chat_id = $1", chatID)
}

// Update saves all mutable user fields.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	encPhone, err := encryptOptional(r.secSvc, user.Phone)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt phone number for update")
		return err
	}

	query := `
		UPDATE users SET
			full_name = $2, email = $3, phone = $4, role = $5,
			telegram_chat_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.conn(ctx).QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		encPhone,
		user.Role,
		user.TelegramChatID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to update user")
		return persistErr("update user", err)
	}
	return nil
}

// CountByRole returns the number of users per role.
func (r *userRepository) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	rows, err := r.db.conn(ctx).Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, persistErr("count users", err)
	}
	defer rows.Close()

	counts := make(map[domain.Role]int)
	for rows.Next() {
		var role domain.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, persistErr("scan user count", err)
		}
		counts[role] = n
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("count users", err)
	}
	return counts, nil
}

// encryptOptional encrypts a nullable value into its base64 column form.
func encryptOptional(sec ports.SecurityPort, plain *string) (*string, error) {
	if plain == nil {
		return nil, nil
	}
	enc, err := encryptString(sec, *plain)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

func decryptOptional(sec ports.SecurityPort, enc *string) (*string, error) {
	if enc == nil {
		return nil, nil
	}
	dec, err := decryptString(sec, *enc)
	if err != nil {
		return nil, err
	}
	return &dec, nil
}

func encryptString(sec ports.SecurityPort, plain string) (string, error) {
	b, err := sec.Encrypt([]byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decryptString(sec ports.SecurityPort, enc string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	dec, err := sec.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

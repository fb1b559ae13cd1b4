package postgres

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type abhaRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.AbhaRepository = (*abhaRepository)(nil)

func NewAbhaRepository(db *DB, baseLogger *zerolog.Logger) ports.AbhaRepository {
	return &abhaRepository{
		db:  db,
		log: baseLogger.With().Str("component", "abha_repo").Logger(),
	}
}

const abhaQueryCols = `
	id, subject_id, abha_id, status, verification_token, attempts,
	verified_at, created_at, updated_at
`

// Upsert replaces the subject's record with v.
func (r *abhaRepository) Upsert(ctx context.Context, v *domain.AbhaVerification) error {
	query := `
		INSERT INTO abha_verifications (
			id, subject_id, abha_id, status, verification_token, attempts, verified_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (subject_id) DO UPDATE SET
			abha_id            = EXCLUDED.abha_id,
			status             = EXCLUDED.status,
			verification_token = EXCLUDED.verification_token,
			attempts           = EXCLUDED.attempts,
			verified_at        = EXCLUDED.verified_at,
			updated_at         = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		v.ID,
		v.SubjectID,
		v.AbhaID,
		v.Status,
		v.VerificationToken,
		v.Attempts,
		v.VerifiedAt,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("subject_id", v.SubjectID.String()).Msg("Failed to upsert abha verification")
		return persistErr("upsert abha verification", err)
	}
	return nil
}

func (r *abhaRepository) getOne(ctx context.Context, where string, arg any, forUpdate bool) (*domain.AbhaVerification, error) {
	query := `SELECT ` + abhaQueryCols + ` FROM abha_verifications WHERE ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var v domain.AbhaVerification
	err := r.db.conn(ctx).QueryRow(ctx, query, arg).Scan(
		&v.ID,
		&v.SubjectID,
		&v.AbhaID,
		&v.Status,
		&v.VerificationToken,
		&v.Attempts,
		&v.VerifiedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Msg("Failed to load abha verification")
		return nil, persistErr("select abha verification", err)
	}
	return &v, nil
}

func (r *abhaRepository) GetBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AbhaVerification, error) {
	return r.getOne(ctx, "subject_id = $1", subjectID, false)
}

func (r *abhaRepository) LockByID(ctx context.Context, id uuid.UUID) (*domain.AbhaVerification, error) {
	return r.getOne(ctx, "id = $1", id, true)
}

func (r *abhaRepository) FindVerifiedByAbhaID(ctx context.Context, abhaID string) (*domain.AbhaVerification, error) {
	return r.getOne(ctx, "abha_id = $1 AND status = 'verified'", abhaID, false)
}

// Update persists status changes. A second subject verifying the same
// ABHA id trips uniq_abha_verified and surfaces as ErrConflict.
func (r *abhaRepository) Update(ctx context.Context, v *domain.AbhaVerification) error {
	query := `
		UPDATE abha_verifications SET
			status = $2, attempts = $3, verified_at = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query, v.ID, v.Status, v.Attempts, v.VerifiedAt).Scan(&v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		r.log.Error().Err(err).Str("verification_id", v.ID.String()).Msg("Failed to update abha verification")
		return persistErr("update abha verification", err)
	}
	return nil
}

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

type aadhaarRepository struct {
	db     *DB
	secSvc ports.SecurityPort
	log    zerolog.Logger
}

var _ ports.AadhaarRepository = (*aadhaarRepository)(nil)

// NewAadhaarRepository stores Aadhaar numbers encrypted, keyed by an
// HMAC fingerprint so re-issuance for the same number hits the same row.
func NewAadhaarRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.AadhaarRepository {
	return &aadhaarRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "aadhaar_repo").Logger(),
	}
}

const aadhaarQueryCols = `
	id, subject_id, aadhaar_encrypted, code_hash, status, expires_at,
	attempts_count, last_attempt_at, verified_at, created_at, updated_at
`

// Upsert resets the issuance for (subject, number) to a fresh pending code.
func (r *aadhaarRepository) Upsert(ctx context.Context, v *domain.AadhaarVerification) error {
	enc, err := encryptString(r.secSvc, v.AadhaarNumber)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt aadhaar number")
		return err
	}
	fp := r.secSvc.Fingerprint([]byte(v.AadhaarNumber))

	query := `
		INSERT INTO aadhaar_verifications (
			id, subject_id, aadhaar_encrypted, aadhaar_fingerprint, code_hash,
			status, expires_at, attempts_count, last_attempt_at, verified_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (subject_id, aadhaar_fingerprint) DO UPDATE SET
			aadhaar_encrypted = EXCLUDED.aadhaar_encrypted,
			code_hash         = EXCLUDED.code_hash,
			status            = EXCLUDED.status,
			expires_at        = EXCLUDED.expires_at,
			attempts_count    = EXCLUDED.attempts_count,
			last_attempt_at   = EXCLUDED.last_attempt_at,
			verified_at       = EXCLUDED.verified_at,
			updated_at        = NOW()
		RETURNING id, created_at, updated_at
	`
	err = r.db.conn(ctx).QueryRow(ctx, query,
		v.ID,
		v.SubjectID,
		enc,
		fp,
		v.CodeHash,
		v.Status,
		v.ExpiresAt,
		v.AttemptsCount,
		v.LastAttemptAt,
		v.VerifiedAt,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("subject_id", v.SubjectID.String()).Msg("Failed to upsert aadhaar verification")
		return persistErr("upsert aadhaar verification", err)
	}
	return nil
}

func (r *aadhaarRepository) latest(ctx context.Context, subjectID uuid.UUID, forUpdate bool) (*domain.AadhaarVerification, error) {
	query := `SELECT ` + aadhaarQueryCols + ` FROM aadhaar_verifications
		WHERE subject_id = $1
		ORDER BY expires_at DESC
		LIMIT 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var v domain.AadhaarVerification
	var enc string
	err := r.db.conn(ctx).QueryRow(ctx, query, subjectID).Scan(
		&v.ID,
		&v.SubjectID,
		&enc,
		&v.CodeHash,
		&v.Status,
		&v.ExpiresAt,
		&v.AttemptsCount,
		&v.LastAttemptAt,
		&v.VerifiedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("subject_id", subjectID.String()).Msg("Failed to load aadhaar verification")
		return nil, persistErr("select aadhaar verification", err)
	}

	v.AadhaarNumber, err = decryptString(r.secSvc, enc)
	if err != nil {
		r.log.Error().Err(err).Str("verification_id", v.ID.String()).Msg("Failed to decrypt aadhaar number (tampered?)")
		return nil, err
	}
	return &v, nil
}

func (r *aadhaarRepository) LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AadhaarVerification, error) {
	return r.latest(ctx, subjectID, false)
}

func (r *aadhaarRepository) LockLatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AadhaarVerification, error) {
	return r.latest(ctx, subjectID, true)
}

// Update writes the mutable state of an issuance; the number and code
// hash never change after Upsert.
func (r *aadhaarRepository) Update(ctx context.Context, v *domain.AadhaarVerification) error {
	query := `
		UPDATE aadhaar_verifications SET
			status = $2, attempts_count = $3, last_attempt_at = $4,
			verified_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		v.ID,
		v.Status,
		v.AttemptsCount,
		v.LastAttemptAt,
		v.VerifiedAt,
	).Scan(&v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		r.log.Error().Err(err).Str("verification_id", v.ID.String()).Msg("Failed to update aadhaar verification")
		return persistErr("update aadhaar verification", err)
	}
	return nil
}

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

type doctorProfileRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.DoctorProfileRepository = (*doctorProfileRepository)(nil)

func NewDoctorProfileRepository(db *DB, baseLogger *zerolog.Logger) ports.DoctorProfileRepository {
	return &doctorProfileRepository{
		db:  db,
		log: baseLogger.With().Str("component", "doctor_profile_repo").Logger(),
	}
}

const profileQueryCols = `
	id, license_number, specialization, qualification, experience_years,
	consultation_fee, is_verified, created_at, updated_at
`

// Upsert inserts or updates the editable columns. A new row inherits
// is_verified from an already approved verification.
func (r *doctorProfileRepository) Upsert(ctx context.Context, p *domain.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (
			id, license_number, specialization, qualification, experience_years, consultation_fee, is_verified
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			EXISTS (SELECT 1 FROM doctor_verifications WHERE doctor_id = $1 AND status = 'approved')
		)
		ON CONFLICT (id) DO UPDATE SET
			license_number   = EXCLUDED.license_number,
			specialization   = EXCLUDED.specialization,
			qualification    = EXCLUDED.qualification,
			experience_years = EXCLUDED.experience_years,
			consultation_fee = EXCLUDED.consultation_fee,
			updated_at       = NOW()
		RETURNING is_verified, created_at, updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		p.ID,
		p.LicenseNumber,
		p.Specialization,
		p.Qualification,
		p.ExperienceYears,
		p.ConsultationFee,
	).Scan(&p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("doctor_id", p.ID.String()).Msg("Failed to upsert doctor profile")
		return persistErr("upsert doctor profile", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.DoctorProfile, error) {
	var p domain.DoctorProfile
	err := row.Scan(
		&p.ID,
		&p.LicenseNumber,
		&p.Specialization,
		&p.Qualification,
		&p.ExperienceYears,
		&p.ConsultationFee,
		&p.IsVerified,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *doctorProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DoctorProfile, error) {
	query := `SELECT ` + profileQueryCols + ` FROM doctor_profiles WHERE id = $1`
	p, err := scanProfile(r.db.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("doctor_id", id.String()).Msg("Failed to load doctor profile")
		return nil, persistErr("select doctor profile", err)
	}
	return p, nil
}

// SetVerified is a no-op for doctors who have not saved a profile yet;
// Upsert picks the flag up from the verification when they do.
func (r *doctorProfileRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	tag, err := r.db.conn(ctx).Exec(ctx,
		`UPDATE doctor_profiles SET is_verified = $2, updated_at = NOW() WHERE id = $1`,
		id, verified,
	)
	if err != nil {
		r.log.Error().Err(err).Str("doctor_id", id.String()).Msg("Failed to flip doctor verified flag")
		return persistErr("set doctor verified", err)
	}
	if tag.RowsAffected() == 0 {
		r.log.Warn().Str("doctor_id", id.String()).Msg("No doctor profile to flag yet")
	}
	return nil
}

func (r *doctorProfileRepository) ListVerified(ctx context.Context, limit, offset int) ([]*domain.DoctorProfile, error) {
	query := `SELECT ` + profileQueryCols + ` FROM doctor_profiles
		WHERE is_verified
		ORDER BY updated_at DESC, id
		LIMIT $1 OFFSET $2`
	rows, err := r.db.conn(ctx).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, persistErr("list doctor profiles", err)
	}
	defer rows.Close()

	profiles := []*domain.DoctorProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, persistErr("scan doctor profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list doctor profiles", err)
	}
	return profiles, nil
}

func (r *doctorProfileRepository) CountVerified(ctx context.Context) (int, error) {
	var n int
	err := r.db.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctor_profiles WHERE is_verified`).Scan(&n)
	if err != nil {
		return 0, persistErr("count verified doctors", err)
	}
	return n, nil
}

package postgres

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type doctorVerificationRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.DoctorVerificationRepository = (*doctorVerificationRepository)(nil)

func NewDoctorVerificationRepository(db *DB, baseLogger *zerolog.Logger) ports.DoctorVerificationRepository {
	return &doctorVerificationRepository{
		db:  db,
		log: baseLogger.With().Str("component", "doctor_verification_repo").Logger(),
	}
}

const verificationQueryCols = `
	v.id, v.doctor_id, v.status, v.documents, v.submitted_at, v.reviewed_at,
	v.reviewer_id, v.reviewer_notes, v.created_at, v.updated_at
`

func verificationDest(v *domain.DoctorVerification) []any {
	return []any{
		&v.ID,
		&v.DoctorID,
		&v.Status,
		&v.Documents,
		&v.SubmittedAt,
		&v.ReviewedAt,
		&v.ReviewerID,
		&v.ReviewerNotes,
		&v.CreatedAt,
		&v.UpdatedAt,
	}
}

func (r *doctorVerificationRepository) getOne(ctx context.Context, where string, arg any, forUpdate bool) (*domain.DoctorVerification, error) {
	query := `SELECT ` + verificationQueryCols + ` FROM doctor_verifications v WHERE ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var v domain.DoctorVerification
	if err := r.db.conn(ctx).QueryRow(ctx, query, arg).Scan(verificationDest(&v)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Msg("Failed to load doctor verification")
		return nil, persistErr("select doctor verification", err)
	}
	if v.Documents == nil {
		v.Documents = []domain.Document{}
	}
	return &v, nil
}

func (r *doctorVerificationRepository) GetByDoctorID(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorVerification, error) {
	return r.getOne(ctx, "v.doctor_id = $1", doctorID, false)
}

func (r *doctorVerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error) {
	return r.getOne(ctx, "v.id = $1", id, false)
}

func (r *doctorVerificationRepository) LockByDoctorID(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorVerification, error) {
	return r.getOne(ctx, "v.doctor_id = $1", doctorID, true)
}

func (r *doctorVerificationRepository) LockByID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error) {
	return r.getOne(ctx, "v.id = $1", id, true)
}

// Upsert writes the whole record keyed by doctor_id. v.ID is replaced
// by the stored id when a row already exists.
func (r *doctorVerificationRepository) Upsert(ctx context.Context, v *domain.DoctorVerification) error {
	docs := v.Documents
	if docs == nil {
		docs = []domain.Document{}
	}
	query := `
		INSERT INTO doctor_verifications (
			id, doctor_id, status, documents, submitted_at, reviewed_at, reviewer_id, reviewer_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (doctor_id) DO UPDATE SET
			status         = EXCLUDED.status,
			documents      = EXCLUDED.documents,
			submitted_at   = EXCLUDED.submitted_at,
			reviewed_at    = EXCLUDED.reviewed_at,
			reviewer_id    = EXCLUDED.reviewer_id,
			reviewer_notes = EXCLUDED.reviewer_notes,
			updated_at     = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		v.ID,
		v.DoctorID,
		v.Status,
		docs,
		v.SubmittedAt,
		v.ReviewedAt,
		v.ReviewerID,
		v.ReviewerNotes,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("doctor_id", v.DoctorID.String()).Msg("Failed to upsert doctor verification")
		return persistErr("upsert doctor verification", err)
	}
	return nil
}

// ListRequests joins each verification with its doctor and (optional)
// profile, oldest submission first.
func (r *doctorVerificationRepository) ListRequests(ctx context.Context, f domain.VerificationFilter) ([]*domain.VerificationRequest, error) {
	query := `
		SELECT ` + verificationQueryCols + `,
			u.id, u.full_name, u.email, u.role, u.telegram_chat_id, u.created_at, u.updated_at,
			p.id, p.license_number, p.specialization, p.qualification,
			p.experience_years, p.consultation_fee, p.is_verified
		FROM doctor_verifications v
		JOIN users u ON u.id = v.doctor_id
		LEFT JOIN doctor_profiles p ON p.id = v.doctor_id
	`
	args := []any{}
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" WHERE v.status = $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY v.submitted_at ASC NULLS LAST, v.created_at ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list verification requests")
		return nil, persistErr("list verification requests", err)
	}
	defer rows.Close()

	out := []*domain.VerificationRequest{}
	for rows.Next() {
		var (
			v       domain.DoctorVerification
			u       domain.User
			pID     *uuid.UUID
			license *string
			p       domain.DoctorProfile
			pVer    *bool
		)
		dest := append(verificationDest(&v),
			&u.ID, &u.FullName, &u.Email, &u.Role, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
			&pID, &license, &p.Specialization, &p.Qualification,
			&p.ExperienceYears, &p.ConsultationFee, &pVer,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, persistErr("scan verification request", err)
		}

		req := &domain.VerificationRequest{Verification: &v, Doctor: &u}
		if pID != nil {
			p.ID = *pID
			if license != nil {
				p.LicenseNumber = *license
			}
			p.IsVerified = pVer != nil && *pVer
			req.Profile = &p
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list verification requests", err)
	}
	return out, nil
}

func (r *doctorVerificationRepository) CountByStatus(ctx context.Context) (map[domain.DoctorVerificationStatus]int, error) {
	rows, err := r.db.conn(ctx).Query(ctx, `SELECT status, COUNT(*) FROM doctor_verifications GROUP BY status`)
	if err != nil {
		return nil, persistErr("count verifications", err)
	}
	defer rows.Close()

	counts := make(map[domain.DoctorVerificationStatus]int)
	for rows.Next() {
		var status domain.DoctorVerificationStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, persistErr("scan verification count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("count verifications", err)
	}
	return counts, nil
}

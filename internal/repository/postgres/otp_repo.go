package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"societyattendance/internal/domain"
)

type otpRepository struct {
	DB *sql.DB
}

// NewOtpRepository returns a domain.OtpRepository implemented with Postgres.
func NewOtpRepository(db *sql.DB) domain.OtpRepository {
	return &otpRepository{DB: db}
}

func (r *otpRepository) Create(ctx context.Context, o *domain.Otp) error {
	query := `
		INSERT INTO otps (email, code, expires_at, verified, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, o.Email, o.Code, o.ExpiresAt, o.Verified, o.CreatedAt).Scan(&o.ID)
}

func (r *otpRepository) GetLatestUnverified(ctx context.Context, email, code string) (*domain.Otp, error) {
	query := `
		SELECT id, email, code, expires_at, verified, created_at
		FROM otps
		WHERE email = $1 AND code = $2 AND verified = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`
	o := &domain.Otp{}
	err := r.DB.QueryRowContext(ctx, query, email, code).Scan(&o.ID, &o.Email, &o.Code, &o.ExpiresAt, &o.Verified, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOtpInvalid
		}
		return nil, err
	}
	return o, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE otps SET verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrOtpInvalid
	}
	return nil
}

func (r *otpRepository) HasVerified(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM otps WHERE email = $1 AND verified = TRUE)`
	if err := r.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *otpRepository) HasRecent(ctx context.Context, email string, since time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM otps WHERE email = $1 AND created_at >= $2)`
	if err := r.DB.QueryRowContext(ctx, query, email, since).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *otpRepository) DeleteUnverified(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM otps WHERE email = $1 AND verified = FALSE`, email)
	return err
}

func (r *otpRepository) DeleteVerified(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM otps WHERE email = $1 AND verified = TRUE`, email)
	return err
}

func (r *otpRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM otps WHERE id = $1`, id)
	return err
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM otps WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

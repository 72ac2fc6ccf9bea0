package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"societyattendance/internal/domain"
)

type domainRepository struct {
	DB *sql.DB
}

// NewDomainRepository returns a domain.DomainRepository implemented with Postgres.
func NewDomainRepository(db *sql.DB) domain.DomainRepository {
	return &domainRepository{DB: db}
}

func (r *domainRepository) Create(ctx context.Context, d *domain.Domain) error {
	query := `
		INSERT INTO domains (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, d.Name, d.CreatedAt, d.UpdatedAt).Scan(&d.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateDomain
		}
		return err
	}
	return nil
}

func (r *domainRepository) GetByID(ctx context.Context, id string) (*domain.Domain, error) {
	query := `SELECT id, name, created_at, updated_at FROM domains WHERE id = $1`
	d := &domain.Domain{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDomainNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *domainRepository) GetByName(ctx context.Context, name string) (*domain.Domain, error) {
	query := `SELECT id, name, created_at, updated_at FROM domains WHERE name = $1`
	d := &domain.Domain{}
	err := r.DB.QueryRowContext(ctx, query, name).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDomainNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *domainRepository) List(ctx context.Context) ([]*domain.Domain, error) {
	query := `SELECT id, name, created_at, updated_at FROM domains ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []*domain.Domain
	for rows.Next() {
		d := &domain.Domain{}
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

func (r *domainRepository) ListWithMemberCounts(ctx context.Context) ([]*domain.DomainSummary, error) {
	query := `
		SELECT d.id, d.name, COUNT(u.id), d.created_at
		FROM domains d
		LEFT JOIN users u ON u.domain_id = d.id
		GROUP BY d.id, d.name, d.created_at
		ORDER BY d.name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.DomainSummary
	for rows.Next() {
		s := &domain.DomainSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.MemberCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *domainRepository) CountOwned(ctx context.Context, id string) (users, events int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE domain_id = $1),
			(SELECT COUNT(*) FROM events WHERE domain_id = $1)
	`
	err = r.DB.QueryRowContext(ctx, query, id).Scan(&users, &events)
	return users, events, err
}

func (r *domainRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrDomainNotFound
	}
	return nil
}

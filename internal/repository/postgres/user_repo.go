package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"societyattendance/internal/domain"
)

const uniqueViolation = "23505"

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, name, email, personal_email, roll, password_hash, salt, role, domain_id, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var personalEmail sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &personalEmail, &u.Roll, &u.PasswordHash, &u.Salt, &u.Role, &u.DomainID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.PersonalEmail = personalEmail.String
	return u, nil
}

func mapUserConstraintErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if strings.Contains(pqErr.Constraint, "roll") {
			return domain.ErrDuplicateRoll
		}
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, email, personal_email, roll, password_hash, salt, role, domain_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PersonalEmail, u.Roll, u.PasswordHash, u.Salt, u.Role, u.DomainID, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return mapUserConstraintErr(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) ExistsByAnyEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR personal_email = $1)`
	if err := r.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) ExistsByRoll(ctx context.Context, roll string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE roll = $1)`
	if err := r.DB.QueryRowContext(ctx, query, roll).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var conds []string
	var args []any
	if filter.DomainID != nil {
		args = append(args, *filter.DomainID)
		conds = append(conds, fmt.Sprintf("domain_id = $%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR personal_email ILIKE $%d OR roll ILIKE $%d)", n, n, n, n))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) ListByDomainID(ctx context.Context, domainID string, excludeSuperAdmins bool) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE domain_id = $1`
	if excludeSuperAdmins {
		query += ` AND role <> 'SUPER_ADMIN'`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, query, domainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, personal_email = NULLIF($3, ''), roll = $4, role = $5, domain_id = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := r.DB.ExecContext(ctx, query, u.Name, u.Email, u.PersonalEmail, u.Roll, u.Role, u.DomainID, u.UpdatedAt, u.ID)
	if err != nil {
		return mapUserConstraintErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

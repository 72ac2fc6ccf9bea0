package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"societyattendance/internal/domain"
)

type attendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository returns a domain.AttendanceRepository implemented with Postgres.
func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

const attendanceColumns = `id, event_id, user_id, status, marked_by_id, created_at, updated_at`

func scanAttendance(row interface{ Scan(...any) error }) (*domain.Attendance, error) {
	a := &domain.Attendance{}
	err := row.Scan(&a.ID, &a.EventID, &a.UserID, &a.Status, &a.MarkedByID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Upsert relies on the (event_id, user_id) unique constraint so concurrent
// marks for the same pair converge to last-write-wins instead of racing a
// check-then-create sequence.
func (r *attendanceRepository) Upsert(ctx context.Context, a *domain.Attendance) error {
	query := `
		INSERT INTO attendances (event_id, user_id, status, marked_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET status = EXCLUDED.status, marked_by_id = EXCLUDED.marked_by_id, updated_at = NOW()
		RETURNING ` + attendanceColumns
	got, err := scanAttendance(r.DB.QueryRowContext(ctx, query, a.EventID, a.UserID, a.Status, a.MarkedByID))
	if err != nil {
		return err
	}
	*a = *got
	return nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*domain.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`
	a, err := scanAttendance(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter domain.AttendanceFilter) ([]*domain.Attendance, error) {
	query := `SELECT a.id, a.event_id, a.user_id, a.status, a.marked_by_id, a.created_at, a.updated_at FROM attendances a`
	var conds []string
	var args []any
	if filter.EventDomainID != nil {
		query += ` JOIN events e ON e.id = a.event_id`
		args = append(args, *filter.EventDomainID)
		conds = append(conds, fmt.Sprintf("e.domain_id = $%d", len(args)))
	}
	if filter.EventID != nil {
		args = append(args, *filter.EventID)
		conds = append(conds, fmt.Sprintf("a.event_id = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("a.user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendances []*domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

func (r *attendanceRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendance, error) {
	query := `
		SELECT a.id, a.event_id, a.user_id, a.status, a.marked_by_id, a.created_at, a.updated_at
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
		ORDER BY u.name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendances []*domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

func (r *attendanceRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Attendance, error) {
	query := `
		SELECT a.id, a.event_id, a.user_id, a.status, a.marked_by_id, a.created_at, a.updated_at
		FROM attendances a
		JOIN events e ON e.id = a.event_id
		WHERE a.user_id = $1
		ORDER BY e.date DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendances []*domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, id string, status domain.AttendanceStatus, markedByID string) (*domain.Attendance, error) {
	query := `
		UPDATE attendances
		SET status = $1, marked_by_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + attendanceColumns
	a, err := scanAttendance(r.DB.QueryRowContext(ctx, query, status, markedByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

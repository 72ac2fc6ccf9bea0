package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"societyattendance/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `id, title, date, status, domain_id, created_by_id, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Status, &e.DomainID, &e.CreatedByID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, date, status, domain_id, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Date, e.Status, e.DomainID, e.CreatedByID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var conds []string
	var args []any
	if !filter.Unscoped {
		var domainConds []string
		for _, id := range filter.DomainIDs {
			if id == nil {
				domainConds = append(domainConds, "domain_id IS NULL")
				continue
			}
			args = append(args, *id)
			domainConds = append(domainConds, fmt.Sprintf("domain_id = $%d", len(args)))
		}
		if len(domainConds) > 0 {
			conds = append(conds, "("+strings.Join(domainConds, " OR ")+")")
		}
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListByDomainID(ctx context.Context, domainID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE domain_id = $1 ORDER BY date DESC`
	rows, err := r.DB.QueryContext(ctx, query, domainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, date = $2, domain_id = $3, updated_at = $4
		WHERE id = $5
	`
	res, err := r.DB.ExecContext(ctx, query, e.Title, e.Date, e.DomainID, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

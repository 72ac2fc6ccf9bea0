package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"societyattendance/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestDomainRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("success writes back id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO domains`).
			WithArgs("Programming", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("domain-1"))

		repo := NewDomainRepository(db)
		d := &domain.Domain{Name: "Programming", CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repo.Create(ctx, d))
		require.Equal(t, "domain-1", d.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation returns ErrDuplicateDomain", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO domains`).
			WithArgs("Programming", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "domains_name_key"})

		repo := NewDomainRepository(db)
		err = repo.Create(ctx, &domain.Domain{Name: "Programming", CreatedAt: now, UpdatedAt: now})
		require.ErrorIs(t, err, domain.ErrDuplicateDomain)
	})
}

func TestDomainRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("domain-1", "Programming", now, now)
		mock.ExpectQuery(`SELECT id, name, created_at, updated_at FROM domains WHERE id = \$1`).
			WithArgs("domain-1").
			WillReturnRows(rows)

		repo := NewDomainRepository(db)
		d, err := repo.GetByID(ctx, "domain-1")
		require.NoError(t, err)
		require.Equal(t, "Programming", d.Name)
	})

	t.Run("missing returns ErrDomainNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, created_at, updated_at FROM domains WHERE id = \$1`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		repo := NewDomainRepository(db)
		_, err = repo.GetByID(ctx, "ghost")
		require.ErrorIs(t, err, domain.ErrDomainNotFound)
	})
}

func TestDomainRepository_ListWithMemberCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "count", "created_at"}).
		AddRow("domain-1", "Design", 0, now).
		AddRow("domain-2", "Programming", 17, now)
	mock.ExpectQuery(`LEFT JOIN users u ON u\.domain_id = d\.id`).
		WillReturnRows(rows)

	repo := NewDomainRepository(db)
	summaries, err := repo.ListWithMemberCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, 0, summaries[0].MemberCount)
	require.Equal(t, 17, summaries[1].MemberCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDomainRepository_CountOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"users", "events"}).AddRow(3, 5)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE domain_id = \$1`).
		WithArgs("domain-1").
		WillReturnRows(rows)

	repo := NewDomainRepository(db)
	users, events, err := repo.CountOwned(context.Background(), "domain-1")
	require.NoError(t, err)
	require.Equal(t, 3, users)
	require.Equal(t, 5, events)
}

func TestDomainRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM domains WHERE id = \$1`).
			WithArgs("domain-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewDomainRepository(db)
		require.NoError(t, repo.Delete(context.Background(), "domain-1"))
	})

	t.Run("missing returns ErrDomainNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM domains WHERE id = \$1`).
			WithArgs("ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewDomainRepository(db)
		require.ErrorIs(t, repo.Delete(context.Background(), "ghost"), domain.ErrDomainNotFound)
	})
}

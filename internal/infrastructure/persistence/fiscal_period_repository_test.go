package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a gorm DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormFiscalPeriodRepository_FindByID(t *testing.T) {
	t.Run("finds an existing period", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormFiscalPeriodRepository(db)

		periodID := uuid.New()
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "version", "name", "start_date", "end_date", "is_active", "is_closed", "is_published"}).
			AddRow(periodID, 1, "FY2025", start, end, true, false, false)

		mock.ExpectQuery(`SELECT \* FROM "fiscal_periods" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(periodID, 1).
			WillReturnRows(rows)

		period, err := repo.FindByID(context.Background(), periodID)

		require.NoError(t, err)
		require.NotNil(t, period)
		assert.Equal(t, "FY2025", period.Name)
		assert.True(t, period.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without error when missing", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormFiscalPeriodRepository(db)

		periodID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "fiscal_periods" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(periodID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		period, err := repo.FindByID(context.Background(), periodID)

		assert.NoError(t, err)
		assert.Nil(t, period)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFiscalPeriodRepository_SaveWithLock(t *testing.T) {
	t.Run("maps a stale version to a concurrency error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormFiscalPeriodRepository(db)

		period, err := fiscal.NewFiscalPeriod("FY2025",
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC))
		require.NoError(t, err)
		period.Version = 3

		mock.ExpectExec(`UPDATE "fiscal_periods" SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), period)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConcurrentModification))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLedgerEntryRepository_SumPostedByClass(t *testing.T) {
	t.Run("sums credit minus debit for revenue accounts", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLedgerEntryRepository(db)

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(credit - debit\), 0\) FROM "ledger_entries" WHERE .*`).
			WithArgs("REVENUE", "POSTED", from, to).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("1000000.00"))

		sum, err := repo.SumPostedByClass(context.Background(), fiscal.AccountClassRevenue, from, to)

		require.NoError(t, err)
		assert.Equal(t, "1000000", sum.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sums debit minus credit for expense accounts", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLedgerEntryRepository(db)

		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(debit - credit\), 0\) FROM "ledger_entries" WHERE .*`).
			WithArgs("EXPENSE", "POSTED", from, to).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("250000.00"))

		sum, err := repo.SumPostedByClass(context.Background(), fiscal.AccountClassExpense, from, to)

		require.NoError(t, err)
		assert.Equal(t, "250000", sum.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

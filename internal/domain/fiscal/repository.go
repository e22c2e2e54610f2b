package fiscal

import (
	"context"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FiscalPeriodFilter defines filtering options for period queries
type FiscalPeriodFilter struct {
	shared.Filter
	IsClosed    *bool
	IsPublished *bool
	FromDate    *time.Time
	ToDate      *time.Time
}

// FiscalPeriodRepository defines the interface for fiscal period persistence
type FiscalPeriodRepository interface {
	// FindByID finds a fiscal period by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FiscalPeriod, error)

	// FindActive returns the single active period, or nil when none is active
	FindActive(ctx context.Context) (*FiscalPeriod, error)

	// FindAll finds fiscal periods with filtering
	FindAll(ctx context.Context, filter FiscalPeriodFilter) ([]FiscalPeriod, error)

	// Save creates or updates a fiscal period
	Save(ctx context.Context, period *FiscalPeriod) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, period *FiscalPeriod) error

	// Count counts fiscal periods with filtering
	Count(ctx context.Context, filter FiscalPeriodFilter) (int64, error)
}

// ClosingRecordRepository defines the interface for closing record persistence
type ClosingRecordRepository interface {
	// FindByID finds a closing record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ClosingRecord, error)

	// FindByPeriodID finds the closing record of a fiscal period
	FindByPeriodID(ctx context.Context, periodID uuid.UUID) (*ClosingRecord, error)

	// ExistsForPeriod reports whether a closing record exists for the period
	ExistsForPeriod(ctx context.Context, periodID uuid.UUID) (bool, error)

	// Save persists a closing record together with its heir lines
	Save(ctx context.Context, record *ClosingRecord) error
}

// JournalEntryRepository defines the interface for journal entry persistence
type JournalEntryRepository interface {
	// FindByID finds a journal entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)

	// Save persists a journal entry together with its lines
	Save(ctx context.Context, entry *JournalEntry) error
}

// LedgerEntryRepository defines the read-only interface over the
// accounting store consumed by the aggregator
type LedgerEntryRepository interface {
	// SumPostedByClass sums posted amounts of the given account class
	// within [from, to]: credits minus debits for revenue accounts,
	// debits minus credits for expense accounts.
	SumPostedByClass(ctx context.Context, class AccountClass, from, to time.Time) (decimal.Decimal, error)

	// SumPostedVATByClass sums VAT amounts on posted entries of the
	// given account class within [from, to]
	SumPostedVATByClass(ctx context.Context, class AccountClass, from, to time.Time) (decimal.Decimal, error)

	// CountUnclassifiedPosted counts posted entries within [from, to]
	// whose account carries no classification
	CountUnclassifiedPosted(ctx context.Context, from, to time.Time) (int64, error)

	// FindPosted returns posted entries within [from, to]
	FindPosted(ctx context.Context, from, to time.Time, filter shared.Filter) ([]LedgerEntry, error)
}

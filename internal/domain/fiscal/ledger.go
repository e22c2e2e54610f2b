package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountClass classifies a ledger account
type AccountClass string

const (
	AccountClassRevenue   AccountClass = "REVENUE"
	AccountClassExpense   AccountClass = "EXPENSE"
	AccountClassAsset     AccountClass = "ASSET"
	AccountClassLiability AccountClass = "LIABILITY"
	AccountClassEquity    AccountClass = "EQUITY"
)

// EntryStatus is the posting state of a ledger entry
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusPosted    EntryStatus = "POSTED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

// LedgerEntry is a posted financial transaction line. Owned by the
// accounting subsystem; read-only to the closing engine.
type LedgerEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	AccountCode  string          `gorm:"type:varchar(20);not null;index"`
	AccountClass AccountClass    `gorm:"type:varchar(20);index"` // empty when the account is not yet classified
	Status       EntryStatus     `gorm:"type:varchar(20);not null;index"`
	EntryDate    time.Time       `gorm:"not null;index"`
	Debit        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Description  string          `gorm:"type:varchar(500)"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// IsPosted reports whether the entry counts toward period totals
func (e *LedgerEntry) IsPosted() bool {
	return e.Status == EntryStatusPosted
}

// LedgerTotals holds the aggregated figures of a fiscal period
type LedgerTotals struct {
	TotalRevenues decimal.Decimal `json:"total_revenues"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	VATCollected  decimal.Decimal `json:"vat_collected"`
	VATPaid       decimal.Decimal `json:"vat_paid"`
}

// NetIncome returns revenues minus expenses
func (t LedgerTotals) NetIncome() decimal.Decimal {
	return t.TotalRevenues.Sub(t.TotalExpenses)
}

// NetVAT returns VAT collected minus VAT paid
func (t LedgerTotals) NetVAT() decimal.Decimal {
	return t.VATCollected.Sub(t.VATPaid)
}

// Equal reports whether two aggregation runs produced identical figures
func (t LedgerTotals) Equal(other LedgerTotals) bool {
	return t.TotalRevenues.Equal(other.TotalRevenues) &&
		t.TotalExpenses.Equal(other.TotalExpenses) &&
		t.VATCollected.Equal(other.VATCollected) &&
		t.VATPaid.Equal(other.VATPaid)
}

// LedgerAggregator produces revenue/expense totals for a fiscal period.
// It reads only posted entries dated within the period and is idempotent:
// re-running before closing yields identical totals if no new postings
// occurred.
type LedgerAggregator struct {
	ledgerRepo LedgerEntryRepository
}

// NewLedgerAggregator creates a new LedgerAggregator
func NewLedgerAggregator(ledgerRepo LedgerEntryRepository) *LedgerAggregator {
	return &LedgerAggregator{ledgerRepo: ledgerRepo}
}

// Aggregate computes the period totals. Fails with a DATA_INCOMPLETE
// error when posted entries exist whose accounts carry no revenue or
// expense classification; missing tags are surfaced, never defaulted
// to zero.
func (a *LedgerAggregator) Aggregate(ctx context.Context, period *FiscalPeriod) (*LedgerTotals, error) {
	unclassified, err := a.ledgerRepo.CountUnclassifiedPosted(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check account classifications: %w", err)
	}
	if unclassified > 0 {
		return nil, shared.NewDomainError(shared.CodeDataIncomplete,
			fmt.Sprintf("%d posted ledger entries in period %s have no account classification; classify them before closing",
				unclassified, period.Name))
	}

	revenues, err := a.ledgerRepo.SumPostedByClass(ctx, AccountClassRevenue, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenues: %w", err)
	}
	expenses, err := a.ledgerRepo.SumPostedByClass(ctx, AccountClassExpense, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}
	vatCollected, err := a.ledgerRepo.SumPostedVATByClass(ctx, AccountClassRevenue, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collected VAT: %w", err)
	}
	vatPaid, err := a.ledgerRepo.SumPostedVATByClass(ctx, AccountClassExpense, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate paid VAT: %w", err)
	}

	return &LedgerTotals{
		TotalRevenues: revenues,
		TotalExpenses: expenses,
		VATCollected:  vatCollected,
		VATPaid:       vatPaid,
	}, nil
}

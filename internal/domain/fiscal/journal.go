package fiscal

import (
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger account codes used by the generated closing entry
const (
	AccountIncomeSummary       = "3900" // period income summary
	AccountNazerPayable        = "2110"
	AccountWaqifPayable        = "2120"
	AccountStatutoryReserve    = "3310"
	AccountDevelopmentFund     = "3320"
	AccountMaintenanceFund     = "3330"
	AccountWaqfCorpus          = "3100"
	AccountDistributionPayable = "2200" // beneficiary distributions payable
)

// JournalLine is a single debit or credit line of a journal entry
type JournalLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountCode    string          `gorm:"type:varchar(20);not null"`
	Description    string          `gorm:"type:varchar(200)"`
	Debit          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (JournalLine) TableName() string {
	return "journal_lines"
}

// JournalEntry is the balancing entry synthesized when a period closes.
// Total debits must equal total credits; construction fails otherwise.
type JournalEntry struct {
	shared.BaseAggregateRoot
	Reference   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	EntryDate   time.Time       `gorm:"not null"`
	Memo        string          `gorm:"type:varchar(500)"`
	TotalDebit  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCredit decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Lines       []JournalLine   `gorm:"foreignKey:JournalEntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// journalLineSpec is an unsaved line passed to NewJournalEntry
type journalLineSpec struct {
	accountCode string
	description string
	debit       decimal.Decimal
	credit      decimal.Decimal
}

// NewJournalEntry builds a journal entry and verifies the double-entry
// invariant.
func NewJournalEntry(reference, memo string, entryDate time.Time, specs []journalLineSpec) (*JournalEntry, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Journal entry reference cannot be empty")
	}
	if len(specs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Journal entry requires at least one line")
	}

	entry := &JournalEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
		EntryDate:         entryDate,
		Memo:              memo,
		TotalDebit:        decimal.Zero,
		TotalCredit:       decimal.Zero,
		Lines:             make([]JournalLine, 0, len(specs)),
	}

	for _, s := range specs {
		if s.debit.IsZero() && s.credit.IsZero() {
			continue
		}
		entry.Lines = append(entry.Lines, JournalLine{
			ID:             uuid.New(),
			JournalEntryID: entry.ID,
			AccountCode:    s.accountCode,
			Description:    s.description,
			Debit:          s.debit,
			Credit:         s.credit,
		})
		entry.TotalDebit = entry.TotalDebit.Add(s.debit)
		entry.TotalCredit = entry.TotalCredit.Add(s.credit)
	}

	if !entry.TotalDebit.Equal(entry.TotalCredit) {
		return nil, shared.NewDomainError("UNBALANCED_ENTRY",
			fmt.Sprintf("Journal entry %s does not balance: debits %s, credits %s",
				reference, entry.TotalDebit.String(), entry.TotalCredit.String()))
	}

	return entry, nil
}

// NewClosingJournalEntry synthesizes the balancing entry for a period
// closing: one debit against the income summary for the full net income,
// one credit per deduction category and one aggregate credit per
// distribution batch.
func NewClosingJournalEntry(
	periodName string,
	closingDate time.Time,
	netIncome decimal.Decimal,
	breakdown DeductionBreakdown,
	batchTotals []BatchTotal,
) (*JournalEntry, error) {
	specs := []journalLineSpec{
		{AccountIncomeSummary, fmt.Sprintf("Net income of %s", periodName), netIncome, decimal.Zero},
		{AccountNazerPayable, "Nazer share", decimal.Zero, breakdown.NazerShare},
		{AccountWaqifPayable, "Waqif share", decimal.Zero, breakdown.WaqifShare},
		{AccountStatutoryReserve, "Statutory reserve", decimal.Zero, breakdown.ReserveAmount},
		{AccountDevelopmentFund, "Development fund", decimal.Zero, breakdown.DevelopmentAmount},
		{AccountMaintenanceFund, "Maintenance fund", decimal.Zero, breakdown.MaintenanceAmount},
		{AccountWaqfCorpus, "Waqf corpus retention", decimal.Zero, breakdown.WaqfCorpusRetained},
	}
	for _, bt := range batchTotals {
		specs = append(specs, journalLineSpec{
			AccountDistributionPayable,
			fmt.Sprintf("Beneficiary distribution batch %s", bt.BatchID),
			decimal.Zero,
			bt.TotalAmount,
		})
	}

	reference := fmt.Sprintf("CLS-%s", closingDate.Format("20060102"))
	memo := fmt.Sprintf("Closing entry for fiscal period %s", periodName)
	return NewJournalEntry(reference, memo, closingDate, specs)
}

// BatchTotal is the aggregate figure of one distribution batch, used
// when synthesizing the closing entry
type BatchTotal struct {
	BatchID     uuid.UUID
	TotalAmount decimal.Decimal
}

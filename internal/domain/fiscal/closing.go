package fiscal

import (
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// roundingTolerance is the maximum acceptable drift between net income
// and the sum of deduction lines plus beneficiary distributions.
var roundingTolerance = decimal.NewFromFloat(0.01)

// HeirDistribution is one per-heir line of a closing record
type HeirDistribution struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ClosingRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	HeirID          uuid.UUID       `gorm:"type:uuid;not null"`
	HeirType        string          `gorm:"type:varchar(30);not null"`
	ShareAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SharePercentage decimal.Decimal `gorm:"type:decimal(9,6);not null"`
}

// TableName returns the table name for GORM
func (HeirDistribution) TableName() string {
	return "heir_distributions"
}

// ClosingRecord is the immutable snapshot produced when a fiscal period
// closes. Created exactly once per period (unique fiscal_period_id);
// corrections require a new compensating record, never in-place change.
type ClosingRecord struct {
	shared.BaseAggregateRoot
	FiscalPeriodID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ClosingDate    time.Time `gorm:"not null"`

	TotalRevenues decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalExpenses decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetIncome     decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	NazerShare         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WaqifShare         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReserveAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DevelopmentAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaintenanceAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WaqfCorpusRetained decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	TotalBeneficiaryDistributions decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	VATCollected decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATPaid      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetVAT       decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	ClosingJournalEntryID *uuid.UUID `gorm:"type:uuid"`

	HeirDistributions []HeirDistribution `gorm:"foreignKey:ClosingRecordID;references:ID"`
}

// TableName returns the table name for GORM
func (ClosingRecord) TableName() string {
	return "closing_records"
}

// AttachJournalEntry records the id of the posted balancing entry
func (r *ClosingRecord) AttachJournalEntry(entryID uuid.UUID) {
	r.ClosingJournalEntryID = &entryID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// ClosingBuilder assembles the immutable closing snapshot for a fiscal
// period: totals, deduction breakdown, per-heir lines and the generated
// balancing journal entry. Persistence (one atomic write, one record per
// period) is the application layer's responsibility.
type ClosingBuilder struct{}

// NewClosingBuilder creates a new ClosingBuilder
func NewClosingBuilder() *ClosingBuilder {
	return &ClosingBuilder{}
}

// ClosingInput carries everything the builder needs
type ClosingInput struct {
	Totals            LedgerTotals
	Breakdown         DeductionBreakdown
	HeirDistributions []HeirDistribution
	BatchTotals       []BatchTotal
	OpeningBalance    decimal.Decimal
}

// Build closes the period and produces its ClosingRecord and balancing
// journal entry. Fails with PERIOD_ALREADY_CLOSED when the period is
// not currently active or already closed; closing is strictly one-shot.
func (b *ClosingBuilder) Build(period *FiscalPeriod, in ClosingInput) (*ClosingRecord, *JournalEntry, error) {
	if period.IsClosed {
		return nil, nil, shared.NewDomainError(shared.CodePeriodAlreadyClosed,
			fmt.Sprintf("Fiscal period %s is already closed", period.Name))
	}
	if !period.IsActive {
		return nil, nil, shared.NewDomainError(shared.CodePeriodAlreadyClosed,
			fmt.Sprintf("Fiscal period %s is not the active period and cannot be closed", period.Name))
	}

	netIncome := in.Totals.NetIncome()

	totalDistributed := decimal.Zero
	for _, h := range in.HeirDistributions {
		totalDistributed = totalDistributed.Add(h.ShareAmount)
	}

	// Conservation invariant: distributions plus every deduction line
	// must reconstruct net income within the rounding tolerance.
	accounted := totalDistributed.Add(in.Breakdown.TotalDeductions())
	if drift := netIncome.Sub(accounted).Abs(); drift.GreaterThan(roundingTolerance) {
		return nil, nil, shared.NewDomainError("CLOSING_IMBALANCE",
			fmt.Sprintf("Closing does not reconcile: net income %s but deductions plus distributions account for %s (drift %s)",
				netIncome.String(), accounted.String(), drift.String()))
	}

	closingDate := time.Now()

	entry, err := NewClosingJournalEntry(period.Name, closingDate, netIncome, in.Breakdown, in.BatchTotals)
	if err != nil {
		return nil, nil, err
	}

	record := &ClosingRecord{
		BaseAggregateRoot:             shared.NewBaseAggregateRoot(),
		FiscalPeriodID:                period.ID,
		ClosingDate:                   closingDate,
		TotalRevenues:                 in.Totals.TotalRevenues,
		TotalExpenses:                 in.Totals.TotalExpenses,
		NetIncome:                     netIncome,
		NazerShare:                    in.Breakdown.NazerShare,
		WaqifShare:                    in.Breakdown.WaqifShare,
		ReserveAmount:                 in.Breakdown.ReserveAmount,
		DevelopmentAmount:             in.Breakdown.DevelopmentAmount,
		MaintenanceAmount:             in.Breakdown.MaintenanceAmount,
		WaqfCorpusRetained:            in.Breakdown.WaqfCorpusRetained,
		TotalBeneficiaryDistributions: totalDistributed,
		VATCollected:                  in.Totals.VATCollected,
		VATPaid:                       in.Totals.VATPaid,
		NetVAT:                        in.Totals.NetVAT(),
		OpeningBalance:                in.OpeningBalance,
		ClosingBalance:                in.OpeningBalance.Add(in.Breakdown.WaqfCorpusRetained),
		HeirDistributions:             make([]HeirDistribution, 0, len(in.HeirDistributions)),
	}

	for _, h := range in.HeirDistributions {
		h.ID = uuid.New()
		h.ClosingRecordID = record.ID
		record.HeirDistributions = append(record.HeirDistributions, h)
	}

	record.AttachJournalEntry(entry.ID)

	if err := period.Close(); err != nil {
		return nil, nil, err
	}

	record.AddDomainEvent(NewClosingRecordCreatedEvent(record))

	return record, entry, nil
}

package fiscal

import (
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the fiscal bounded context
const (
	EventTypeFiscalPeriodClosed    = "fiscal.period.closed"
	EventTypeFiscalPeriodPublished = "fiscal.period.published"
	EventTypeClosingRecordCreated  = "fiscal.closing_record.created"
)

// FiscalPeriodClosedEvent is emitted when a period transitions to closed
type FiscalPeriodClosedEvent struct {
	shared.BaseDomainEvent
	PeriodName string    `json:"period_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// NewFiscalPeriodClosedEvent creates a new FiscalPeriodClosedEvent
func NewFiscalPeriodClosedEvent(p *FiscalPeriod) *FiscalPeriodClosedEvent {
	return &FiscalPeriodClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFiscalPeriodClosed, "FiscalPeriod", p.ID),
		PeriodName:      p.Name,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
	}
}

// FiscalPeriodPublishedEvent is emitted when a closed period is disclosed
type FiscalPeriodPublishedEvent struct {
	shared.BaseDomainEvent
	PeriodName string `json:"period_name"`
}

// NewFiscalPeriodPublishedEvent creates a new FiscalPeriodPublishedEvent
func NewFiscalPeriodPublishedEvent(p *FiscalPeriod) *FiscalPeriodPublishedEvent {
	return &FiscalPeriodPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFiscalPeriodPublished, "FiscalPeriod", p.ID),
		PeriodName:      p.Name,
	}
}

// ClosingRecordCreatedEvent is emitted when the closing snapshot is built
type ClosingRecordCreatedEvent struct {
	shared.BaseDomainEvent
	FiscalPeriodID uuid.UUID       `json:"fiscal_period_id"`
	NetIncome      decimal.Decimal `json:"net_income"`
	Distributed    decimal.Decimal `json:"total_beneficiary_distributions"`
}

// NewClosingRecordCreatedEvent creates a new ClosingRecordCreatedEvent
func NewClosingRecordCreatedEvent(r *ClosingRecord) *ClosingRecordCreatedEvent {
	return &ClosingRecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClosingRecordCreated, "ClosingRecord", r.ID),
		FiscalPeriodID:  r.FiscalPeriodID,
		NetIncome:       r.NetIncome,
		Distributed:     r.TotalBeneficiaryDistributions,
	}
}

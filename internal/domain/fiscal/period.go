package fiscal

import (
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
)

// FiscalPeriod represents an accounting period of the waqf.
// Exactly one period may be active at a time (enforced by a partial
// unique index at the persistence boundary). Transitions are one-way:
// active -> closed -> published.
type FiscalPeriod struct {
	shared.BaseAggregateRoot
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	IsActive    bool      `gorm:"not null;default:false"`
	IsClosed    bool      `gorm:"not null;default:false"`
	IsPublished bool      `gorm:"not null;default:false"`
	ClosedAt    *time.Time
	PublishedAt *time.Time
}

// TableName returns the table name for GORM
func (FiscalPeriod) TableName() string {
	return "fiscal_periods"
}

// NewFiscalPeriod creates a new, inactive fiscal period
func NewFiscalPeriod(name string, startDate, endDate time.Time) (*FiscalPeriod, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PERIOD_NAME", "Period name cannot be empty")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD_DATES", "Period start and end dates are required")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD_DATES",
			fmt.Sprintf("Period end date %s must be after start date %s",
				endDate.Format("2006-01-02"), startDate.Format("2006-01-02")))
	}

	return &FiscalPeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		StartDate:         startDate,
		EndDate:           endDate,
	}, nil
}

// Activate marks the period as the active one.
// The single-active-period rule is enforced by the persistence layer.
func (p *FiscalPeriod) Activate() error {
	if p.IsClosed {
		return shared.NewDomainError(shared.CodePeriodAlreadyClosed,
			fmt.Sprintf("Fiscal period %s is closed and cannot be reactivated", p.Name))
	}
	if p.IsActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Fiscal period %s is already active", p.Name))
	}

	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Close finalizes the period. Closing is one-way and one-shot.
func (p *FiscalPeriod) Close() error {
	if p.IsClosed {
		return shared.NewDomainError(shared.CodePeriodAlreadyClosed,
			fmt.Sprintf("Fiscal period %s is already closed", p.Name))
	}
	if !p.IsActive {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Fiscal period %s is not active and cannot be closed", p.Name))
	}

	now := time.Now()
	p.IsActive = false
	p.IsClosed = true
	p.ClosedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewFiscalPeriodClosedEvent(p))

	return nil
}

// Publish discloses the closed period. Requires a terminal-approved
// closing; that gate is applied by the application layer.
func (p *FiscalPeriod) Publish() error {
	if !p.IsClosed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Fiscal period %s must be closed before publishing", p.Name))
	}
	if p.IsPublished {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Fiscal period %s is already published", p.Name))
	}

	now := time.Now()
	p.IsPublished = true
	p.PublishedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewFiscalPeriodPublishedEvent(p))

	return nil
}

// Contains reports whether t falls within the period [StartDate, EndDate]
func (p *FiscalPeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PeriodService manages the fiscal period lifecycle up to closing
type PeriodService struct {
	periodRepo fiscal.FiscalPeriodRepository
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(
	periodRepo fiscal.FiscalPeriodRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *PeriodService {
	return &PeriodService{
		periodRepo: periodRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// CreatePeriod registers a new, inactive fiscal period
func (s *PeriodService) CreatePeriod(ctx context.Context, name string, startDate, endDate time.Time) (*fiscal.FiscalPeriod, error) {
	period, err := fiscal.NewFiscalPeriod(name, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	s.logger.Info("fiscal period created",
		zap.String("period", period.Name),
		zap.Time("start", period.StartDate),
		zap.Time("end", period.EndDate))

	return period, nil
}

// ActivatePeriod makes the period the active one. Only one period may
// be active; activating while another is active fails.
func (s *PeriodService) ActivatePeriod(ctx context.Context, periodID uuid.UUID) (*fiscal.FiscalPeriod, error) {
	period, err := s.periodRepo.FindByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fiscal period: %w", err)
	}
	if period == nil {
		return nil, shared.NewDomainError("PERIOD_NOT_FOUND",
			fmt.Sprintf("fiscal period %s not found", periodID))
	}

	active, err := s.periodRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check active period: %w", err)
	}
	if active != nil && active.ID != period.ID {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Fiscal period %s is still active and must be closed first", active.Name))
	}

	if err := period.Activate(); err != nil {
		return nil, err
	}

	if err := s.periodRepo.SaveWithLock(ctx, period); err != nil {
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	s.logger.Info("fiscal period activated", zap.String("period", period.Name))
	return period, nil
}

// GetPeriod loads one fiscal period
func (s *PeriodService) GetPeriod(ctx context.Context, periodID uuid.UUID) (*fiscal.FiscalPeriod, error) {
	period, err := s.periodRepo.FindByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fiscal period: %w", err)
	}
	if period == nil {
		return nil, shared.NewDomainError("PERIOD_NOT_FOUND",
			fmt.Sprintf("fiscal period %s not found", periodID))
	}
	return period, nil
}

// GetActivePeriod returns the active period, or a domain error when no
// period is active
func (s *PeriodService) GetActivePeriod(ctx context.Context) (*fiscal.FiscalPeriod, error) {
	period, err := s.periodRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active period: %w", err)
	}
	if period == nil {
		return nil, shared.NewDomainError("PERIOD_NOT_FOUND", "no fiscal period is active")
	}
	return period, nil
}

// ListPeriods returns periods matching the filter
func (s *PeriodService) ListPeriods(ctx context.Context, filter fiscal.FiscalPeriodFilter) ([]fiscal.FiscalPeriod, int64, error) {
	periods, err := s.periodRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	total, err := s.periodRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count fiscal periods: %w", err)
	}
	return periods, total, nil
}

package fiscal

import (
	"context"
	"fmt"
	"sort"

	"github.com/awqaf/backend/internal/domain/approval"
	"github.com/awqaf/backend/internal/domain/distribution"
	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ClosingWriter persists the artifacts of one closing atomically
type ClosingWriter interface {
	WriteClosing(ctx context.Context, period *fiscal.FiscalPeriod, record *fiscal.ClosingRecord, entry *fiscal.JournalEntry) error
}

// ClosingService runs the fiscal period closing: ledger aggregation,
// deduction computation, reconciliation against executed distribution
// batches and the atomic write of the closing snapshot.
type ClosingService struct {
	periodRepo      fiscal.FiscalPeriodRepository
	closingRepo     fiscal.ClosingRecordRepository
	batchRepo       distribution.DistributionBatchRepository
	beneficiaryRepo distribution.BeneficiaryRepository
	approvalRepo    approval.ApprovalRequestRepository
	aggregator      *fiscal.LedgerAggregator
	writer          ClosingWriter
	eventBus        shared.EventPublisher
	logger          *zap.Logger
}

// NewClosingService creates a new ClosingService
func NewClosingService(
	periodRepo fiscal.FiscalPeriodRepository,
	closingRepo fiscal.ClosingRecordRepository,
	batchRepo distribution.DistributionBatchRepository,
	beneficiaryRepo distribution.BeneficiaryRepository,
	approvalRepo approval.ApprovalRequestRepository,
	aggregator *fiscal.LedgerAggregator,
	writer ClosingWriter,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ClosingService {
	return &ClosingService{
		periodRepo:      periodRepo,
		closingRepo:     closingRepo,
		batchRepo:       batchRepo,
		beneficiaryRepo: beneficiaryRepo,
		approvalRepo:    approvalRepo,
		aggregator:      aggregator,
		writer:          writer,
		eventBus:        eventBus,
		logger:          logger,
	}
}

// ClosePeriodRequest carries the operator-supplied inputs of a closing
type ClosePeriodRequest struct {
	Deductions     fiscal.DeductionConfig
	OpeningBalance decimal.Decimal
}

// ClosingPreview is a dry run of the closing computation. Nothing is
// persisted and the period is not touched.
type ClosingPreview struct {
	PeriodID          uuid.UUID                 `json:"period_id"`
	Totals            fiscal.LedgerTotals       `json:"totals"`
	NetIncome         decimal.Decimal           `json:"net_income"`
	Breakdown         fiscal.DeductionBreakdown `json:"breakdown"`
	DistributedToDate decimal.Decimal           `json:"distributed_to_date"`
}

// PreviewClosing computes the closing figures without closing anything
func (s *ClosingService) PreviewClosing(ctx context.Context, periodID uuid.UUID, req ClosePeriodRequest) (*ClosingPreview, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "closing", "preview")
	defer span.End()

	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	totals, err := s.aggregator.Aggregate(ctx, period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	breakdown, err := fiscal.ComputeDeductions(totals.NetIncome(), req.Deductions)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	executed, err := s.executedBatches(ctx, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	distributed := decimal.Zero
	for _, b := range executed {
		distributed = distributed.Add(b.TotalAmount)
	}

	return &ClosingPreview{
		PeriodID:          periodID,
		Totals:            *totals,
		NetIncome:         totals.NetIncome(),
		Breakdown:         *breakdown,
		DistributedToDate: distributed,
	}, nil
}

// ClosePeriod closes the period and persists its closing record,
// balancing journal entry and heir lines in one transaction. The
// closing reconciles executed distribution batches against the
// computed distributable amount; a period that does not reconcile is
// left untouched.
func (s *ClosingService) ClosePeriod(ctx context.Context, periodID uuid.UUID, req ClosePeriodRequest) (*fiscal.ClosingRecord, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "closing", "close_period")
	defer span.End()

	telemetry.SetAttributes(span, "period_id", periodID.String())

	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	exists, err := s.closingRepo.ExistsForPeriod(ctx, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check for existing closing: %w", err)
	}
	if exists {
		err := shared.NewDomainError(shared.CodePeriodAlreadyClosed,
			fmt.Sprintf("Fiscal period %s already has a closing record", period.Name))
		telemetry.RecordError(span, err)
		return nil, err
	}

	totals, err := s.aggregator.Aggregate(ctx, period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	breakdown, err := fiscal.ComputeDeductions(totals.NetIncome(), req.Deductions)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	executed, err := s.executedBatches(ctx, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	heirLines, err := s.heirLines(ctx, executed)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	batchTotals := make([]fiscal.BatchTotal, 0, len(executed))
	for _, b := range executed {
		batchTotals = append(batchTotals, fiscal.BatchTotal{BatchID: b.ID, TotalAmount: b.TotalAmount})
	}

	// Postings may land while the closing figures are computed. Re-run
	// the aggregation and refuse to snapshot totals that moved.
	recheck, err := s.aggregator.Aggregate(ctx, period)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !totals.Equal(*recheck) {
		err := shared.NewDomainError(shared.CodeReconciliationFailed,
			fmt.Sprintf("ledger totals of period %s changed during closing, rerun the closing", period.Name))
		telemetry.RecordError(span, err)
		return nil, err
	}

	record, entry, err := fiscal.NewClosingBuilder().Build(period, fiscal.ClosingInput{
		Totals:            *totals,
		Breakdown:         *breakdown,
		HeirDistributions: heirLines,
		BatchTotals:       batchTotals,
		OpeningBalance:    req.OpeningBalance,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.writer.WriteClosing(ctx, period, record, entry); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to persist closing: %w", err)
	}

	s.publishEvents(ctx, period.GetDomainEvents())
	period.ClearDomainEvents()
	s.publishEvents(ctx, record.GetDomainEvents())
	record.ClearDomainEvents()

	telemetry.AddEvent(span, "period_closed",
		"closing_record_id", record.ID.String(),
		"net_income", record.NetIncome.String(),
	)

	s.logger.Info("fiscal period closed",
		zap.String("period", period.Name),
		zap.String("closing_record_id", record.ID.String()),
		zap.String("net_income", record.NetIncome.String()),
		zap.String("distributable", breakdown.Distributable.String()))

	return record, nil
}

// PublishClosing discloses a closed period. The closing record must
// carry a terminally approved request; anything less keeps the period
// private.
func (s *ClosingService) PublishClosing(ctx context.Context, periodID uuid.UUID) (*fiscal.FiscalPeriod, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "closing", "publish")
	defer span.End()

	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	record, err := s.closingRepo.FindByPeriodID(ctx, periodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load closing record: %w", err)
	}
	if record == nil {
		err := shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Fiscal period %s has no closing record to publish", period.Name))
		telemetry.RecordError(span, err)
		return nil, err
	}

	request, err := s.approvalRepo.FindBySubject(ctx, approval.SubjectClosingRecord, record.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load approval request: %w", err)
	}
	if request == nil || request.Status != approval.RequestStatusApproved {
		err := shared.NewDomainError("APPROVAL_REQUIRED",
			fmt.Sprintf("Closing of period %s is not approved and cannot be published", period.Name))
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := period.Publish(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.periodRepo.SaveWithLock(ctx, period); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	s.publishEvents(ctx, period.GetDomainEvents())
	period.ClearDomainEvents()

	s.logger.Info("fiscal period published", zap.String("period", period.Name))

	return period, nil
}

// GetClosing returns the closing record of a period with its heir lines
func (s *ClosingService) GetClosing(ctx context.Context, periodID uuid.UUID) (*fiscal.ClosingRecord, error) {
	record, err := s.closingRepo.FindByPeriodID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load closing record: %w", err)
	}
	if record == nil {
		return nil, shared.NewDomainError("CLOSING_NOT_FOUND",
			fmt.Sprintf("no closing record for fiscal period %s", periodID))
	}
	return record, nil
}

func (s *ClosingService) loadPeriod(ctx context.Context, periodID uuid.UUID) (*fiscal.FiscalPeriod, error) {
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

func (s *ClosingService) executedBatches(ctx context.Context, periodID uuid.UUID) ([]distribution.DistributionBatch, error) {
	batches, err := s.batchRepo.FindByPeriodID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution batches: %w", err)
	}
	executed := make([]distribution.DistributionBatch, 0, len(batches))
	for _, b := range batches {
		if b.Status == distribution.BatchStatusExecuted {
			executed = append(executed, b)
		}
	}
	return executed, nil
}

// heirLines folds the detail lines of the executed batches into one
// closing line per beneficiary, ordered by beneficiary id so repeated
// closings of identical inputs produce identical records.
func (s *ClosingService) heirLines(ctx context.Context, executed []distribution.DistributionBatch) ([]fiscal.HeirDistribution, error) {
	perHeir := make(map[uuid.UUID]decimal.Decimal)
	total := decimal.Zero
	for _, b := range executed {
		for _, d := range b.Details {
			perHeir[d.BeneficiaryID] = perHeir[d.BeneficiaryID].Add(d.ShareAmount)
			total = total.Add(d.ShareAmount)
		}
	}

	heirIDs := make([]uuid.UUID, 0, len(perHeir))
	for id := range perHeir {
		heirIDs = append(heirIDs, id)
	}
	sort.Slice(heirIDs, func(i, j int) bool {
		return heirIDs[i].String() < heirIDs[j].String()
	})

	lines := make([]fiscal.HeirDistribution, 0, len(heirIDs))
	for _, heirID := range heirIDs {
		beneficiary, err := s.beneficiaryRepo.FindByID(ctx, heirID)
		if err != nil {
			return nil, fmt.Errorf("failed to load beneficiary %s: %w", heirID, err)
		}
		heirType := string(distribution.HeirCategoryOther)
		if beneficiary != nil {
			heirType = string(beneficiary.Category)
		}

		amount := perHeir[heirID]
		percentage := decimal.Zero
		if total.IsPositive() {
			percentage = amount.Div(total).Round(6)
		}
		lines = append(lines, fiscal.HeirDistribution{
			HeirID:          heirID,
			HeirType:        heirType,
			ShareAmount:     amount,
			SharePercentage: percentage,
		})
	}
	return lines, nil
}

func (s *ClosingService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish closing events", zap.Error(err))
	}
}

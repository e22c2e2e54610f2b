package distribution

import (
	"context"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BeneficiaryRepository reads the beneficiary register. The register is
// maintained by the beneficiary management subsystem; allocation only
// ever reads it.
type BeneficiaryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Beneficiary, error)
	FindActive(ctx context.Context) ([]Beneficiary, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Beneficiary, error)
	Count(ctx context.Context) (int64, error)
}

// DistributionBatchRepository persists distribution batches
type DistributionBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DistributionBatch, error)
	FindByPeriodID(ctx context.Context, periodID uuid.UUID) ([]DistributionBatch, error)
	FindByStatus(ctx context.Context, status BatchStatus, filter shared.Filter) ([]DistributionBatch, error)
	Save(ctx context.Context, batch *DistributionBatch) error
	SaveWithLock(ctx context.Context, batch *DistributionBatch) error
	Count(ctx context.Context) (int64, error)
}

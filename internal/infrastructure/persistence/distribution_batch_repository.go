package persistence

import (
	"context"
	"errors"

	"github.com/awqaf/backend/internal/domain/distribution"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDistributionBatchRepository implements DistributionBatchRepository using GORM
type GormDistributionBatchRepository struct {
	db *gorm.DB
}

// NewGormDistributionBatchRepository creates a new GormDistributionBatchRepository
func NewGormDistributionBatchRepository(db *gorm.DB) *GormDistributionBatchRepository {
	return &GormDistributionBatchRepository{db: db}
}

var _ distribution.DistributionBatchRepository = (*GormDistributionBatchRepository)(nil)

// FindByID finds a distribution batch by ID
func (r *GormDistributionBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*distribution.DistributionBatch, error) {
	var batch distribution.DistributionBatch
	if err := r.db.WithContext(ctx).
		Preload("Details").
		First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// FindByPeriodID finds all batches of a fiscal period
func (r *GormDistributionBatchRepository) FindByPeriodID(ctx context.Context, periodID uuid.UUID) ([]distribution.DistributionBatch, error) {
	var batches []distribution.DistributionBatch
	if err := r.db.WithContext(ctx).
		Preload("Details").
		Where("fiscal_period_id = ?", periodID).
		Order("created_at DESC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByStatus finds batches in the given status
func (r *GormDistributionBatchRepository) FindByStatus(ctx context.Context, status distribution.BatchStatus, filter shared.Filter) ([]distribution.DistributionBatch, error) {
	var batches []distribution.DistributionBatch
	query := r.db.WithContext(ctx).Where("status = ?", status)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Preload("Details").Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch together with its detail lines
func (r *GormDistributionBatchRepository) Save(ctx context.Context, batch *distribution.DistributionBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDistributionBatchRepository) SaveWithLock(ctx context.Context, batch *distribution.DistributionBatch) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.Version-1).
		Updates(batch)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrentModification,
			"distribution batch was modified concurrently, reload and retry")
	}

	// Updates only touches the root row; upsert the detail lines too.
	if len(batch.Details) > 0 {
		if err := r.db.WithContext(ctx).Save(&batch.Details).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts all distribution batches
func (r *GormDistributionBatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&distribution.DistributionBatch{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClosingRecordRepository implements ClosingRecordRepository using GORM
type GormClosingRecordRepository struct {
	db *gorm.DB
}

// NewGormClosingRecordRepository creates a new GormClosingRecordRepository
func NewGormClosingRecordRepository(db *gorm.DB) *GormClosingRecordRepository {
	return &GormClosingRecordRepository{db: db}
}

var _ fiscal.ClosingRecordRepository = (*GormClosingRecordRepository)(nil)

// FindByID finds a closing record by ID
func (r *GormClosingRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*fiscal.ClosingRecord, error) {
	var record fiscal.ClosingRecord
	if err := r.db.WithContext(ctx).
		Preload("HeirDistributions").
		First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindByPeriodID finds the closing record of a fiscal period
func (r *GormClosingRecordRepository) FindByPeriodID(ctx context.Context, periodID uuid.UUID) (*fiscal.ClosingRecord, error) {
	var record fiscal.ClosingRecord
	if err := r.db.WithContext(ctx).
		Preload("HeirDistributions").
		First(&record, "fiscal_period_id = ?", periodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ExistsForPeriod reports whether a closing record exists for the period
func (r *GormClosingRecordRepository) ExistsForPeriod(ctx context.Context, periodID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&fiscal.ClosingRecord{}).
		Where("fiscal_period_id = ?", periodID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a closing record together with its heir lines
func (r *GormClosingRecordRepository) Save(ctx context.Context, record *fiscal.ClosingRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

package persistence

import (
	"context"
	"errors"

	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFiscalPeriodRepository implements FiscalPeriodRepository using GORM
type GormFiscalPeriodRepository struct {
	db *gorm.DB
}

// NewGormFiscalPeriodRepository creates a new GormFiscalPeriodRepository
func NewGormFiscalPeriodRepository(db *gorm.DB) *GormFiscalPeriodRepository {
	return &GormFiscalPeriodRepository{db: db}
}

var _ fiscal.FiscalPeriodRepository = (*GormFiscalPeriodRepository)(nil)

// FindByID finds a fiscal period by ID
func (r *GormFiscalPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*fiscal.FiscalPeriod, error) {
	var period fiscal.FiscalPeriod
	if err := r.db.WithContext(ctx).First(&period, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// FindActive returns the single active period, or nil when none is active
func (r *GormFiscalPeriodRepository) FindActive(ctx context.Context) (*fiscal.FiscalPeriod, error) {
	var period fiscal.FiscalPeriod
	if err := r.db.WithContext(ctx).First(&period, "is_active = ? AND is_closed = ?", true, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// FindAll finds fiscal periods with filtering
func (r *GormFiscalPeriodRepository) FindAll(ctx context.Context, filter fiscal.FiscalPeriodFilter) ([]fiscal.FiscalPeriod, error) {
	var periods []fiscal.FiscalPeriod
	query := r.applyFilter(r.db.WithContext(ctx), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("start_date DESC").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// Save creates or updates a fiscal period
func (r *GormFiscalPeriodRepository) Save(ctx context.Context, period *fiscal.FiscalPeriod) error {
	return r.db.WithContext(ctx).Save(period).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormFiscalPeriodRepository) SaveWithLock(ctx context.Context, period *fiscal.FiscalPeriod) error {
	result := r.db.WithContext(ctx).
		Model(period).
		Where("id = ? AND version = ?", period.ID, period.Version-1).
		Updates(period)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrentModification,
			"fiscal period was modified concurrently, reload and retry")
	}
	return nil
}

// Count counts fiscal periods with filtering
func (r *GormFiscalPeriodRepository) Count(ctx context.Context, filter fiscal.FiscalPeriodFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&fiscal.FiscalPeriod{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormFiscalPeriodRepository) applyFilter(query *gorm.DB, filter fiscal.FiscalPeriodFilter) *gorm.DB {
	if filter.IsClosed != nil {
		query = query.Where("is_closed = ?", *filter.IsClosed)
	}
	if filter.IsPublished != nil {
		query = query.Where("is_published = ?", *filter.IsPublished)
	}
	if filter.FromDate != nil {
		query = query.Where("start_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("end_date <= ?", *filter.ToDate)
	}
	return query
}

package persistence

import (
	"context"
	"errors"

	"github.com/awqaf/backend/internal/domain/distribution"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBeneficiaryRepository implements BeneficiaryRepository using GORM
type GormBeneficiaryRepository struct {
	db *gorm.DB
}

// NewGormBeneficiaryRepository creates a new GormBeneficiaryRepository
func NewGormBeneficiaryRepository(db *gorm.DB) *GormBeneficiaryRepository {
	return &GormBeneficiaryRepository{db: db}
}

var _ distribution.BeneficiaryRepository = (*GormBeneficiaryRepository)(nil)

// FindByID finds a beneficiary by ID
func (r *GormBeneficiaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*distribution.Beneficiary, error) {
	var beneficiary distribution.Beneficiary
	if err := r.db.WithContext(ctx).First(&beneficiary, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &beneficiary, nil
}

// FindActive returns all active beneficiaries ordered by id for
// reproducible allocation input
func (r *GormBeneficiaryRepository) FindActive(ctx context.Context) ([]distribution.Beneficiary, error) {
	var beneficiaries []distribution.Beneficiary
	if err := r.db.WithContext(ctx).
		Where("status = ?", distribution.BeneficiaryStatusActive).
		Order("id ASC").
		Find(&beneficiaries).Error; err != nil {
		return nil, err
	}
	return beneficiaries, nil
}

// FindAll finds beneficiaries with pagination
func (r *GormBeneficiaryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]distribution.Beneficiary, error) {
	var beneficiaries []distribution.Beneficiary
	query := r.db.WithContext(ctx)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("name ASC").Find(&beneficiaries).Error; err != nil {
		return nil, err
	}
	return beneficiaries, nil
}

// Count counts all beneficiaries
func (r *GormBeneficiaryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&distribution.Beneficiary{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

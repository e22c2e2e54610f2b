package persistence

import (
	"context"
	"time"

	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM.
// Revenue accounts carry credit-normal balances and expense accounts
// debit-normal ones, so the signed sum differs per class.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

var _ fiscal.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)

// SumPostedByClass sums posted amounts of the given account class within [from, to]
func (r *GormLedgerEntryRepository) SumPostedByClass(ctx context.Context, class fiscal.AccountClass, from, to time.Time) (decimal.Decimal, error) {
	expr := "COALESCE(SUM(credit - debit), 0)"
	if class == fiscal.AccountClassExpense {
		expr = "COALESCE(SUM(debit - credit), 0)"
	}

	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&fiscal.LedgerEntry{}).
		Select(expr).
		Where("account_class = ? AND status = ? AND entry_date >= ? AND entry_date <= ?",
			class, fiscal.EntryStatusPosted, from, to).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// SumPostedVATByClass sums VAT amounts on posted entries of the given account class within [from, to]
func (r *GormLedgerEntryRepository) SumPostedVATByClass(ctx context.Context, class fiscal.AccountClass, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&fiscal.LedgerEntry{}).
		Select("COALESCE(SUM(vat_amount), 0)").
		Where("account_class = ? AND status = ? AND entry_date >= ? AND entry_date <= ?",
			class, fiscal.EntryStatusPosted, from, to).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// CountUnclassifiedPosted counts posted entries within [from, to] whose
// account carries no classification
func (r *GormLedgerEntryRepository) CountUnclassifiedPosted(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&fiscal.LedgerEntry{}).
		Where("(account_class IS NULL OR account_class = '') AND status = ? AND entry_date >= ? AND entry_date <= ?",
			fiscal.EntryStatusPosted, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindPosted returns posted entries within [from, to]
func (r *GormLedgerEntryRepository) FindPosted(ctx context.Context, from, to time.Time, filter shared.Filter) ([]fiscal.LedgerEntry, error) {
	var entries []fiscal.LedgerEntry
	query := r.db.WithContext(ctx).
		Where("status = ? AND entry_date >= ? AND entry_date <= ?",
			fiscal.EntryStatusPosted, from, to)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("entry_date ASC, created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

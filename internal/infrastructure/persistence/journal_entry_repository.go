package persistence

import (
	"context"
	"errors"

	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

var _ fiscal.JournalEntryRepository = (*GormJournalEntryRepository)(nil)

// FindByID finds a journal entry by ID
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*fiscal.JournalEntry, error) {
	var entry fiscal.JournalEntry
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Save persists a journal entry together with its lines
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *fiscal.JournalEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

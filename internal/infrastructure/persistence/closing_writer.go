package persistence

import (
	"context"

	"github.com/awqaf/backend/internal/domain/fiscal"
	"gorm.io/gorm"
)

// ClosingTxWriter persists the artifacts of one period closing in a
// single database transaction: the balancing journal entry, the closing
// record with its heir lines and the closed period itself. Either all
// three land or none do.
type ClosingTxWriter struct {
	db *Database
}

// NewClosingTxWriter creates a new ClosingTxWriter
func NewClosingTxWriter(db *Database) *ClosingTxWriter {
	return &ClosingTxWriter{db: db}
}

// WriteClosing writes the closing artifacts atomically. The period is
// saved with its version check so a concurrent close of the same period
// rolls the whole transaction back.
func (w *ClosingTxWriter) WriteClosing(
	ctx context.Context,
	period *fiscal.FiscalPeriod,
	record *fiscal.ClosingRecord,
	entry *fiscal.JournalEntry,
) error {
	return w.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewGormJournalEntryRepository(tx).Save(ctx, entry); err != nil {
			return err
		}
		if err := NewGormClosingRecordRepository(tx).Save(ctx, record); err != nil {
			return err
		}
		return NewGormFiscalPeriodRepository(tx).SaveWithLock(ctx, period)
	})
}

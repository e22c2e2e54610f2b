package persistence

import (
	"context"
	"time"

	"github.com/awqaf/backend/internal/domain/approval"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// approvalLevelRow is the storage shape of one approval chain level
type approvalLevelRow struct {
	SubjectType string    `gorm:"type:varchar(30);primaryKey"`
	Level       int       `gorm:"primaryKey"`
	Role        string    `gorm:"type:varchar(50);not null"`
	SLAHours    int       `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name
func (approvalLevelRow) TableName() string {
	return "approval_levels"
}

// GormLevelConfigRepository implements LevelConfigRepository using GORM.
// A chain is stored as one row per level.
type GormLevelConfigRepository struct {
	db *gorm.DB
}

// NewGormLevelConfigRepository creates a new GormLevelConfigRepository
func NewGormLevelConfigRepository(db *gorm.DB) *GormLevelConfigRepository {
	return &GormLevelConfigRepository{db: db}
}

var _ approval.LevelConfigRepository = (*GormLevelConfigRepository)(nil)

// FindBySubjectType loads the approval chain for a subject type,
// or nil when none is configured
func (r *GormLevelConfigRepository) FindBySubjectType(ctx context.Context, subjectType approval.SubjectType) (*approval.LevelConfig, error) {
	var rows []approvalLevelRow
	if err := r.db.WithContext(ctx).
		Where("subject_type = ?", subjectType).
		Order("level ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	levels := make([]approval.ApprovalLevel, len(rows))
	for i, row := range rows {
		levels[i] = approval.ApprovalLevel{
			Level:    row.Level,
			Role:     row.Role,
			SLAHours: row.SLAHours,
		}
	}
	return approval.NewLevelConfig(subjectType, levels)
}

// Save replaces the stored chain for the config's subject type
func (r *GormLevelConfigRepository) Save(ctx context.Context, config *approval.LevelConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("subject_type = ? AND level > ?", config.SubjectType, config.MaxLevel()).
			Delete(&approvalLevelRow{}).Error; err != nil {
			return err
		}

		rows := make([]approvalLevelRow, len(config.Levels))
		for i, l := range config.Levels {
			rows[i] = approvalLevelRow{
				SubjectType: string(config.SubjectType),
				Level:       l.Level,
				Role:        l.Role,
				SLAHours:    l.SLAHours,
			}
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_type"}, {Name: "level"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "sla_hours", "updated_at"}),
		}).Create(&rows).Error
	})
}

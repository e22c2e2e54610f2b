package approval

import (
	"fmt"
	"sort"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
)

// ApprovalLevel is one rung of an approval chain. SLAHours bounds how
// long the request may sit at this level before escalation.
type ApprovalLevel struct {
	Level    int    `json:"level"`
	Role     string `json:"role"`
	SLAHours int    `json:"sla_hours"`
}

// SLA returns the level's time budget as a duration
func (l ApprovalLevel) SLA() time.Duration {
	return time.Duration(l.SLAHours) * time.Hour
}

// LevelConfig is the ordered approval chain for one subject type
type LevelConfig struct {
	SubjectType SubjectType     `json:"subject_type"`
	Levels      []ApprovalLevel `json:"levels"`
}

// NewLevelConfig validates and normalizes an approval chain. Levels
// must be contiguous starting at one, each with a role and a positive
// SLA.
func NewLevelConfig(subjectType SubjectType, levels []ApprovalLevel) (*LevelConfig, error) {
	if !subjectType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("unknown approval subject type %q", subjectType))
	}
	if len(levels) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
			"an approval chain requires at least one level")
	}

	sorted := make([]ApprovalLevel, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	for i, l := range sorted {
		if l.Level != i+1 {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("approval levels must be contiguous from 1, found level %d at position %d", l.Level, i+1))
		}
		if l.Role == "" {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("approval level %d has no role", l.Level))
		}
		if l.SLAHours <= 0 {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("approval level %d has a non-positive SLA", l.Level))
		}
	}

	return &LevelConfig{SubjectType: subjectType, Levels: sorted}, nil
}

// MaxLevel returns the highest level of the chain
func (c *LevelConfig) MaxLevel() int {
	return len(c.Levels)
}

// LevelAt returns the configuration of one level
func (c *LevelConfig) LevelAt(level int) (ApprovalLevel, error) {
	if level < 1 || level > len(c.Levels) {
		return ApprovalLevel{}, shared.NewDomainError(shared.CodeInvalidConfiguration,
			fmt.Sprintf("approval chain for %s has no level %d", c.SubjectType, level))
	}
	return c.Levels[level-1], nil
}

// DefaultClosingLevelConfig is the seed chain for closing records:
// supervisor review, then finance manager, then the nazer.
func DefaultClosingLevelConfig() *LevelConfig {
	cfg, _ := NewLevelConfig(SubjectClosingRecord, []ApprovalLevel{
		{Level: 1, Role: "supervisor", SLAHours: 24},
		{Level: 2, Role: "finance_manager", SLAHours: 48},
		{Level: 3, Role: "nazer", SLAHours: 72},
	})
	return cfg
}

// DefaultDistributionLevelConfig is the seed chain for distribution
// batches.
func DefaultDistributionLevelConfig() *LevelConfig {
	cfg, _ := NewLevelConfig(SubjectDistributionBatch, []ApprovalLevel{
		{Level: 1, Role: "finance_manager", SLAHours: 24},
		{Level: 2, Role: "nazer", SLAHours: 48},
	})
	return cfg
}

package approval

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRequest(t *testing.T) *ApprovalRequest {
	t.Helper()
	req, err := NewApprovalRequest(SubjectClosingRecord, uuid.New(), uuid.New())
	require.NoError(t, err)
	return req
}

func TestNewApprovalRequest(t *testing.T) {
	t.Run("opens pending at level one", func(t *testing.T) {
		req := createTestRequest(t)

		assert.Equal(t, RequestStatusPending, req.Status)
		assert.Equal(t, 1, req.CurrentLevel)
		assert.False(t, req.LevelStartedAt.IsZero())
		assert.Nil(t, req.ResolvedAt)

		events := req.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRequestSubmitted, events[0].EventType())
	})

	t.Run("rejects an unknown subject type", func(t *testing.T) {
		_, err := NewApprovalRequest("invoice", uuid.New(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects a nil subject id", func(t *testing.T) {
		_, err := NewApprovalRequest(SubjectClosingRecord, uuid.Nil, uuid.New())
		assert.Error(t, err)
	})
}

func TestApprovalRequestDecide(t *testing.T) {
	cfg := DefaultClosingLevelConfig()

	t.Run("walks all levels to final approval", func(t *testing.T) {
		req := createTestRequest(t)

		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictApprove, "figures check out"))
		assert.Equal(t, RequestStatusPending, req.Status)
		assert.Equal(t, 2, req.CurrentLevel)

		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictApprove, ""))
		assert.Equal(t, 3, req.CurrentLevel)

		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictApprove, ""))
		assert.Equal(t, RequestStatusApproved, req.Status)
		assert.NotNil(t, req.ResolvedAt)
		require.Len(t, req.Decisions, 3)
		assert.Equal(t, "supervisor", req.Decisions[0].Role)
		assert.Equal(t, "nazer", req.Decisions[2].Role)
	})

	t.Run("approval restarts the level clock", func(t *testing.T) {
		req := createTestRequest(t)
		before := req.LevelStartedAt

		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictApprove, ""))
		assert.True(t, req.LevelStartedAt.After(before) || req.LevelStartedAt.Equal(before))
		assert.Equal(t, 2, req.CurrentLevel)
	})

	t.Run("rejection at any level is terminal", func(t *testing.T) {
		req := createTestRequest(t)
		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictApprove, ""))
		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictReject, "deduction config outdated"))

		assert.Equal(t, RequestStatusRejected, req.Status)
		assert.NotNil(t, req.ResolvedAt)
		assert.Error(t, req.Decide(cfg, uuid.New(), VerdictApprove, ""))
	})

	t.Run("advances the version with every decision", func(t *testing.T) {
		req := createTestRequest(t)
		require.Equal(t, 1, req.Version)

		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictApprove, ""))
		assert.Equal(t, 2, req.Version)

		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictReject, "hold"))
		assert.Equal(t, 3, req.Version)
	})

	t.Run("rejects a config for another subject type", func(t *testing.T) {
		req := createTestRequest(t)
		assert.Error(t, req.Decide(DefaultDistributionLevelConfig(), uuid.New(), VerdictApprove, ""))
	})

	t.Run("rejects an unknown verdict", func(t *testing.T) {
		req := createTestRequest(t)
		assert.Error(t, req.Decide(cfg, uuid.New(), "defer", ""))
	})
}

func TestApprovalRequestCheckSLA(t *testing.T) {
	cfg := DefaultClosingLevelConfig()

	t.Run("escalates 26 hours into a 24 hour level", func(t *testing.T) {
		req := createTestRequest(t)
		now := req.LevelStartedAt.Add(26 * time.Hour)

		moved, err := req.CheckSLA(cfg, now)
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, 2, req.CurrentLevel)
		assert.Equal(t, RequestStatusPending, req.Status)
		assert.True(t, req.LevelStartedAt.Equal(now))

		require.Len(t, req.Escalations, 1)
		assert.Equal(t, 1, req.Escalations[0].FromLevel)
		assert.Equal(t, 2, req.Escalations[0].ToLevel)
		assert.Equal(t, "SLA exceeded", req.Escalations[0].Reason)
	})

	t.Run("does nothing inside the SLA window", func(t *testing.T) {
		req := createTestRequest(t)
		now := req.LevelStartedAt.Add(23 * time.Hour)

		moved, err := req.CheckSLA(cfg, now)
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, 1, req.CurrentLevel)
		assert.Empty(t, req.Escalations)
	})

	t.Run("locks escalated when the final level lapses", func(t *testing.T) {
		req := createTestRequest(t)

		// Each level's clock restarts on escalation, so lapse each
		// level's SLA in turn relative to the restarted clock.
		for _, hours := range []int{25, 49, 73} {
			now := req.LevelStartedAt.Add(time.Duration(hours) * time.Hour)
			moved, err := req.CheckSLA(cfg, now)
			require.NoError(t, err)
			assert.True(t, moved)
		}

		assert.Equal(t, RequestStatusEscalated, req.Status)
		assert.NotNil(t, req.ResolvedAt)
		require.Len(t, req.Escalations, 3)
		last := req.Escalations[2]
		assert.Equal(t, 3, last.FromLevel)
		assert.Equal(t, 3, last.ToLevel)
		assert.Equal(t, "SLA exceeded", last.Reason)

		assert.Error(t, req.Decide(cfg, uuid.New(), VerdictApprove, ""))
	})

	t.Run("is idempotent on terminal requests", func(t *testing.T) {
		req := createTestRequest(t)
		require.NoError(t, req.Decide(cfg, uuid.New(), VerdictReject, "not ready"))

		moved, err := req.CheckSLA(cfg, time.Now().Add(1000*time.Hour))
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, RequestStatusRejected, req.Status)
	})

	t.Run("advances the version on escalation", func(t *testing.T) {
		req := createTestRequest(t)
		require.Equal(t, 1, req.Version)

		moved, err := req.CheckSLA(cfg, req.LevelStartedAt.Add(25*time.Hour))
		require.NoError(t, err)
		require.True(t, moved)
		assert.Equal(t, 2, req.Version)
	})

	t.Run("IsOverdue reports without mutating", func(t *testing.T) {
		req := createTestRequest(t)
		assert.False(t, req.IsOverdue(cfg, req.LevelStartedAt.Add(time.Hour)))
		assert.True(t, req.IsOverdue(cfg, req.LevelStartedAt.Add(25*time.Hour)))
		assert.Equal(t, 1, req.CurrentLevel)
		assert.Empty(t, req.Escalations)
	})
}

func TestNewLevelConfig(t *testing.T) {
	t.Run("sorts and validates a contiguous chain", func(t *testing.T) {
		cfg, err := NewLevelConfig(SubjectDistributionBatch, []ApprovalLevel{
			{Level: 2, Role: "nazer", SLAHours: 48},
			{Level: 1, Role: "finance_manager", SLAHours: 24},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.MaxLevel())
		level, err := cfg.LevelAt(1)
		require.NoError(t, err)
		assert.Equal(t, "finance_manager", level.Role)
	})

	t.Run("rejects a gap in levels", func(t *testing.T) {
		_, err := NewLevelConfig(SubjectClosingRecord, []ApprovalLevel{
			{Level: 1, Role: "supervisor", SLAHours: 24},
			{Level: 3, Role: "nazer", SLAHours: 24},
		})
		assert.Error(t, err)
	})

	t.Run("rejects a non-positive SLA", func(t *testing.T) {
		_, err := NewLevelConfig(SubjectClosingRecord, []ApprovalLevel{
			{Level: 1, Role: "supervisor", SLAHours: 0},
		})
		assert.Error(t, err)
	})

	t.Run("rejects an empty chain", func(t *testing.T) {
		_, err := NewLevelConfig(SubjectClosingRecord, nil)
		assert.Error(t, err)
	})
}

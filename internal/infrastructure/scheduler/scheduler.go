package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// sweepLockKey names the cross-instance lock guarding a sweep run
const sweepLockKey = "approval:escalation:sweep"

// Sweeper is the unit of work the scheduler runs on each tick
type Sweeper interface {
	// SweepOverdue escalates all pending approval requests whose
	// current level SLA has lapsed and returns how many moved.
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

// Config holds escalation scheduler configuration
type Config struct {
	Enabled       bool
	SweepInterval time.Duration
	SweepLockTTL  time.Duration
}

// EscalationScheduler periodically runs the SLA sweep. A distributed
// mutex ensures that with several instances running, each tick sweeps
// exactly once.
type EscalationScheduler struct {
	cfg     Config
	sweeper Sweeper
	mutex   shared.MutexStore
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewEscalationScheduler creates a new EscalationScheduler
func NewEscalationScheduler(cfg Config, sweeper Sweeper, mutex shared.MutexStore, logger *zap.Logger) *EscalationScheduler {
	return &EscalationScheduler{
		cfg:     cfg,
		sweeper: sweeper,
		mutex:   mutex,
		logger:  logger,
	}
}

// Start launches the sweep loop. It is a no-op when disabled.
func (s *EscalationScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Enabled || s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("escalation scheduler started",
		zap.Duration("sweep_interval", s.cfg.SweepInterval),
	)
}

// Stop terminates the sweep loop and waits for an in-flight sweep
func (s *EscalationScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("escalation scheduler stopped")
}

func (s *EscalationScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

// sweepOnce runs one guarded sweep. Losing the lock race means another
// instance is already sweeping this tick.
func (s *EscalationScheduler) sweepOnce(ctx context.Context) {
	acquired, err := s.mutex.Acquire(ctx, sweepLockKey, s.cfg.SweepLockTTL)
	if err != nil {
		s.logger.Error("failed to acquire sweep lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("sweep already running on another instance")
		return
	}
	defer func() {
		if err := s.mutex.Release(ctx, sweepLockKey); err != nil {
			s.logger.Warn("failed to release sweep lock", zap.Error(err))
		}
	}()

	escalated, err := s.sweeper.SweepOverdue(ctx, time.Now())
	if err != nil {
		s.logger.Error("escalation sweep failed", zap.Error(err))
		return
	}
	if escalated > 0 {
		s.logger.Info("escalation sweep completed", zap.Int("escalated", escalated))
	}
}

// Package scheduler runs the periodic document sweeps.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSweeperNotRunning is returned when interacting with a stopped sweeper
var ErrSweeperNotRunning = errors.New("sweeper is not running")

// SweepFunc processes one batch and reports how many documents it transitioned
type SweepFunc func(ctx context.Context, batchSize int) (int, error)

// Sweeper periodically runs a sweep function. Each tick processes batches
// until a batch comes back smaller than the batch size, so a backlog drains
// in one tick instead of one batch per interval.
type Sweeper struct {
	name      string
	interval  time.Duration
	batchSize int
	sweep     SweepFunc
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweeper creates a sweeper that runs sweep every interval
func NewSweeper(name string, interval time.Duration, batchSize int, sweep SweepFunc, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		name:      name,
		interval:  interval,
		batchSize: batchSize,
		sweep:     sweep,
		logger:    logger,
	}
}

// Start starts the sweep loop. The first sweep runs immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("sweeper started",
		zap.String("sweeper", s.name),
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize),
	)

	return nil
}

// Stop gracefully stops the sweep loop
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("sweeper stopped", zap.String("sweeper", s.name))
		return nil
	case <-ctx.Done():
		s.logger.Warn("sweeper stop timed out", zap.String("sweeper", s.name))
		return ctx.Err()
	}
}

// runLoop runs sweeps until the context is cancelled
func (s *Sweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce drains the current backlog in batches
func (s *Sweeper) runOnce(ctx context.Context) {
	total := 0
	for {
		if ctx.Err() != nil {
			return
		}

		n, err := s.sweep(ctx, s.batchSize)
		if err != nil {
			s.logger.Error("sweep failed",
				zap.String("sweeper", s.name),
				zap.Int("processed", total),
				zap.Error(err),
			)
			return
		}

		total += n
		if n < s.batchSize {
			break
		}
	}

	if total > 0 {
		s.logger.Info("sweep completed",
			zap.String("sweeper", s.name),
			zap.Int("processed", total),
		)
	}
}

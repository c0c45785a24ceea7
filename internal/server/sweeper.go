package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper runs a task on a fixed interval until stopped. A failing run is
// logged and retried on the next tick.
type Sweeper struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewSweeper creates a Sweeper.
//
// Precondition: interval > 0; task and logger must be non-nil.
func NewSweeper(name string, interval time.Duration, task func(ctx context.Context) error, logger *zap.Logger) *Sweeper {
	if interval <= 0 || task == nil || logger == nil {
		panic("server.NewSweeper: precondition violated")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{name: name, interval: interval, task: task, logger: logger, ctx: ctx, cancel: cancel}
}

// Start ticks until Stop is called.
func (s *Sweeper) Start() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.task(s.ctx); err != nil && s.ctx.Err() == nil {
				s.logger.Warn("sweep failed", zap.String("sweeper", s.name), zap.Error(err))
			}
		}
	}
}

// Stop ends the loop. It is safe to call more than once.
func (s *Sweeper) Stop() {
	s.once.Do(s.cancel)
}

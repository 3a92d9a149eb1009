package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/metrics"
)

// Trigger names, used in logs and metrics.
const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerWatch    = "watch"
	TriggerManual   = "manual"
)

// Cleaner removes favorites whose resource is gone.
type Cleaner interface {
	CleanupInvalid() int
}

// CleanupRunner runs cleanup on start, on every interval tick and whenever
// it is triggered. Triggers arriving while a pass is pending are coalesced.
type CleanupRunner struct {
	target   Cleaner
	logger   logger.Logger
	metrics  *metrics.Metrics
	interval time.Duration
	trigger  chan string
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewCleanupRunner creates a runner. A zero interval disables the ticker.
func NewCleanupRunner(
	target Cleaner,
	log logger.Logger,
	m *metrics.Metrics,
	interval time.Duration,
) *CleanupRunner {
	return &CleanupRunner{
		target:   target,
		logger:   log,
		metrics:  m,
		interval: interval,
		trigger:  make(chan string, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one pass immediately and then serves ticks and triggers until
// Stop or ctx is done.
func (c *CleanupRunner) Start(ctx context.Context) {
	c.Run(TriggerStartup)

	go func() {
		defer close(c.done)

		var tick <-chan time.Time
		if c.interval > 0 {
			ticker := time.NewTicker(c.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				c.Run(TriggerInterval)
			case reason := <-c.trigger:
				c.Run(reason)
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Trigger asks for a pass without blocking.
func (c *CleanupRunner) Trigger(reason string) {
	select {
	case c.trigger <- reason:
	default:
	}
}

// Stop ends the loop and waits for a running pass to finish. It must only be
// called after Start.
func (c *CleanupRunner) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
}

// Run performs one cleanup pass and returns how many entries were removed.
func (c *CleanupRunner) Run(reason string) int {
	c.metrics.CleanupRun(reason)

	removed := c.target.CleanupInvalid()
	if removed > 0 {
		c.logger.Info("cleanup removed stale favorites",
			logger.String("trigger", reason),
			logger.Int("removed", removed))
	} else {
		c.logger.Debug("cleanup found nothing to remove", logger.String("trigger", reason))
	}
	return removed
}

package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/folio/internal/logger"
)

const (
	// DefaultInboxRetention is how long contact messages are kept
	DefaultInboxRetention = 365 * 24 * time.Hour
	// DefaultSweepInterval is used when no positive interval is given
	DefaultSweepInterval = 24 * time.Hour
)

// InboxPruner deletes messages older than a cutoff.
type InboxPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// InboxSweeper periodically removes contact messages past retention
type InboxSweeper struct {
	inbox     InboxPruner
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewInboxSweeper creates a new inbox sweeper
func NewInboxSweeper(
	inbox InboxPruner,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *InboxSweeper {
	if retention <= 0 {
		retention = DefaultInboxRetention
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &InboxSweeper{
		inbox:     inbox,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (s *InboxSweeper) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Warn("initial inbox sweep failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					s.logger.Error("inbox sweep failed",
						logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper
func (s *InboxSweeper) Stop() {
	close(s.stopCh)
}

// Sweep deletes messages older than the retention window
func (s *InboxSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)

	deleted, err := s.inbox.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info("inbox sweep completed",
			logger.Int("deleted", deleted),
			logger.String("cutoff", cutoff.Format(time.RFC3339)))
	} else {
		s.logger.Debug("no inbox messages past retention")
	}
	return deleted, nil
}

package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor or an atomic
// rename produces into a single reload.
const DefaultDebounce = 500 * time.Millisecond

// DefaultRefreshInterval is used when no positive interval is given.
const DefaultRefreshInterval = 24 * time.Hour

// ContentSource loads the stored document.
type ContentSource interface {
	Load(ctx context.Context) (*domain.PortfolioData, error)
}

// ViewInvalidator drops cached views.
type ViewInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ContentReloader keeps cached views in step with the data file: it
// flushes them periodically, on manual trigger, and when the file changes
// on disk outside the server.
type ContentReloader struct {
	dataFile      string
	source        ContentSource
	views         ViewInvalidator
	logger        logger.Logger
	interval      time.Duration
	watch         bool
	debounce      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	onReload      func()
}

// NewContentReloader creates a new content reloader
func NewContentReloader(
	dataFile string,
	source ContentSource,
	views ViewInvalidator,
	log logger.Logger,
	interval time.Duration,
	watch bool,
	manualTrigger chan struct{},
) *ContentReloader {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &ContentReloader{
		dataFile:      filepath.Clean(dataFile),
		source:        source,
		views:         views,
		logger:        log,
		interval:      interval,
		watch:         watch,
		debounce:      DefaultDebounce,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// OnReload registers a hook run after every successful reload.
func (cr *ContentReloader) OnReload(fn func()) { cr.onReload = fn }

// Start validates the stored document, then runs the reload loop.
// A data file that fails validation at startup is fatal.
func (cr *ContentReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	var watcher *fsnotify.Watcher
	if cr.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		// Watch the directory: an atomic rename replaces the file's inode.
		dir := filepath.Dir(cr.dataFile)
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watcher, events, errs = w, w.Events, w.Errors
		cr.logger.Info("watching data file for changes", logger.String("file", cr.dataFile))
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		if watcher != nil {
			defer func() { _ = watcher.Close() }()
		}

		var timer *time.Timer
		var debounced <-chan time.Time
		for {
			select {
			case <-ticker.C:
				cr.reloadLogged(ctx, "periodic")
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				cr.reloadLogged(ctx, "manual")
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if !cr.relevant(ev) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(cr.debounce)
				debounced = timer.C
			case <-debounced:
				debounced = nil
				cr.reloadLogged(ctx, "file change")
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				cr.logger.Warn("data file watcher error", logger.Error(err))
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *ContentReloader) Stop() {
	close(cr.stopCh)
}

// Reload validates the stored document and flushes cached views.
// Views are flushed even when validation fails so no stale page outlives
// a broken edit.
func (cr *ContentReloader) Reload(ctx context.Context) error {
	data, loadErr := cr.source.Load(ctx)

	if err := cr.views.Invalidate(ctx); err != nil {
		cr.logger.Warn("failed to flush view cache", logger.Error(err))
	}
	if loadErr != nil {
		return fmt.Errorf("failed to load content: %w", loadErr)
	}

	cr.logger.Info("content reloaded",
		logger.Int("portfolio_items", len(data.PortfolioItems)),
		logger.Int("testimonials", len(data.Testimonials)),
		logger.Int("skills", len(data.Skills)))
	if cr.onReload != nil {
		cr.onReload()
	}
	return nil
}

func (cr *ContentReloader) reloadLogged(ctx context.Context, reason string) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload content",
			logger.String("reason", reason),
			logger.Error(err))
	}
}

func (cr *ContentReloader) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != cr.dataFile {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

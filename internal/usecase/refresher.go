package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"EstatePulse/internal/domain/models"
	domrepo "EstatePulse/internal/domain/repository"
	xlogger "EstatePulse/pkg/logger"
)

// Notifier receives refreshed indicator sets, e.g. the websocket hub.
type Notifier interface {
	NotifyIndicators(set *models.IndicatorSet)
}

// SnapshotRefresher periodically pulls the feed, persists an indicator
// snapshot, updates the indicator gauges and notifies stream clients.
type SnapshotRefresher struct {
	feed     domrepo.EconomicFeed
	store    domrepo.SnapshotStore
	metrics  domrepo.Metrics
	logger   *xlogger.Logger
	notifier Notifier
	interval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSnapshotRefresher creates a refresher. store and notifier may be nil.
func NewSnapshotRefresher(
	feed domrepo.EconomicFeed,
	store domrepo.SnapshotStore,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
	notifier Notifier,
	interval time.Duration,
) *SnapshotRefresher {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SnapshotRefresher{
		feed:     feed,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		notifier: notifier,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the refresh loop until the context is cancelled or Shutdown is
// called. The first refresh happens immediately.
func (r *SnapshotRefresher) Start(ctx context.Context) error {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := r.RefreshOnce(ctx); err != nil {
			r.logger.Warn("initial refresh failed", xlogger.Error(err))
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopCh:
				return
			case <-ticker.C:
				if err := r.RefreshOnce(ctx); err != nil {
					r.logger.Warn("refresh failed", xlogger.Error(err))
				}
			}
		}
	}()
	return nil
}

// RefreshOnce performs a single pull-snapshot-notify cycle.
func (r *SnapshotRefresher) RefreshOnce(ctx context.Context) error {
	set, err := r.feed.Indicators(ctx)
	if err != nil {
		return fmt.Errorf("refresh indicators: %w", err)
	}

	recordIndicators(r.metrics, set)

	if r.store != nil {
		snap := &models.IndicatorSnapshot{
			ID:         uuid.NewString(),
			TakenAt:    time.Now().UTC(),
			Source:     "feed",
			Indicators: *set,
		}
		if err := r.store.Insert(ctx, snap); err != nil {
			r.logger.Warn("snapshot insert failed", xlogger.Error(err))
		}
	}

	if r.notifier != nil {
		r.notifier.NotifyIndicators(set)
	}
	return nil
}

// Shutdown stops the refresh loop and waits for it to exit.
func (r *SnapshotRefresher) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stopCh) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func recordIndicators(m domrepo.Metrics, set *models.IndicatorSet) {
	for _, spec := range overviewTiles {
		if v := set.Value(spec.Key); v != nil {
			m.RecordIndicator(spec.Key, *v)
		}
	}
}

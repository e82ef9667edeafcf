package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"EstatePulse/internal/domain/models"
	domrepo "EstatePulse/internal/domain/repository"
	"EstatePulse/internal/service/feed"
	"EstatePulse/pkg/cache"
	xlogger "EstatePulse/pkg/logger"
)

// IndicatorIngestHandler consumes FeedUpdate messages published by the
// ingest pipeline: it refreshes the indicator cache so the next dashboard
// load sees the update, persists a snapshot, and notifies stream clients.
type IndicatorIngestHandler struct {
	topic    string
	cache    cache.Service
	cacheTTL time.Duration
	store    domrepo.SnapshotStore
	metrics  domrepo.Metrics
	logger   *xlogger.Logger
	notifier Notifier
}

// NewIndicatorIngestHandler creates the handler for the given topic.
func NewIndicatorIngestHandler(
	topic string,
	c cache.Service,
	cacheTTL time.Duration,
	store domrepo.SnapshotStore,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
	notifier Notifier,
) *IndicatorIngestHandler {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &IndicatorIngestHandler{
		topic:    topic,
		cache:    c,
		cacheTTL: cacheTTL,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		notifier: notifier,
	}
}

// Topic returns the Kafka topic this handler consumes.
func (h *IndicatorIngestHandler) Topic() string { return h.topic }

// Handle decodes and applies one FeedUpdate message.
func (h *IndicatorIngestHandler) Handle(ctx context.Context, data []byte) error {
	var update models.FeedUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return fmt.Errorf("decode feed update: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, feed.KeyIndicators, &update.Indicators, h.cacheTTL); err != nil {
			h.logger.Warn("ingest cache set failed", xlogger.Error(err))
		}
	}

	recordIndicators(h.metrics, &update.Indicators)

	if h.store != nil {
		takenAt := time.Now().UTC()
		if update.ObservedAt > 0 {
			takenAt = time.Unix(update.ObservedAt, 0).UTC()
		}
		source := update.Source
		if source == "" {
			source = "ingest"
		}
		snap := &models.IndicatorSnapshot{
			ID:         uuid.NewString(),
			TakenAt:    takenAt,
			Source:     source,
			Indicators: update.Indicators,
		}
		if err := h.store.Insert(ctx, snap); err != nil {
			return fmt.Errorf("ingest snapshot insert: %w", err)
		}
	}

	if h.notifier != nil {
		h.notifier.NotifyIndicators(&update.Indicators)
	}

	h.logger.Debug("indicator update ingested", xlogger.String("source", update.Source))
	return nil
}

package repository

import (
	"context"
	"time"

	"EstatePulse/internal/domain/models"
)

// EconomicFeed provides the three dashboard resources from the upstream
// data feed. Implementations must be safe for concurrent use.
type EconomicFeed interface {
	Indicators(ctx context.Context) (*models.IndicatorSet, error)
	MarketImpact(ctx context.Context) (*models.MarketImpact, error)
	Insights(ctx context.Context) ([]models.Insight, error)
}

// SnapshotStore persists indicator snapshots for the history endpoint.
type SnapshotStore interface {
	Insert(ctx context.Context, snap *models.IndicatorSnapshot) error
	History(ctx context.Context, from, to time.Time, limit int) ([]models.IndicatorSnapshot, error)
	Health(ctx context.Context) error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordSectionLoad(section, outcome string)
	RecordFeedRequest(resource, outcome string)
	RecordFeedLatency(resource string, seconds float64)
	RecordIndicator(indicator string, value float64)
	SetStreamClients(n int)
}

// NopMetrics is a Metrics implementation that records nothing.
type NopMetrics struct{}

func (NopMetrics) RecordSectionLoad(string, string)  {}
func (NopMetrics) RecordFeedRequest(string, string)  {}
func (NopMetrics) RecordFeedLatency(string, float64) {}
func (NopMetrics) RecordIndicator(string, float64)   {}
func (NopMetrics) SetStreamClients(int)              {}

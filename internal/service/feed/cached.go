package feed

import (
	"context"
	"time"

	"EstatePulse/internal/domain/models"
	domrepo "EstatePulse/internal/domain/repository"
	"EstatePulse/pkg/cache"
)

// Cache keys for the three feed resources.
const (
	KeyIndicators = "feed:indicators"
	KeyImpact     = "feed:impact"
	KeyInsights   = "feed:insights"
)

// TTLs holds per-resource cache lifetimes.
type TTLs struct {
	Indicators time.Duration
	Impact     time.Duration
	Insights   time.Duration
}

// CachedFeed decorates an EconomicFeed with a cache layer. A cache read
// failure falls through to the inner feed; a cache write failure is ignored
// so the caller still gets fresh data.
type CachedFeed struct {
	inner domrepo.EconomicFeed
	cache cache.Service
	ttls  TTLs
}

// NewCached wraps feed with the given cache.
func NewCached(inner domrepo.EconomicFeed, c cache.Service, ttls TTLs) *CachedFeed {
	return &CachedFeed{inner: inner, cache: c, ttls: ttls}
}

func (f *CachedFeed) Indicators(ctx context.Context) (*models.IndicatorSet, error) {
	var cached models.IndicatorSet
	if err := f.cache.Get(ctx, KeyIndicators, &cached); err == nil {
		return &cached, nil
	}

	set, err := f.inner.Indicators(ctx)
	if err != nil {
		return nil, err
	}
	_ = f.cache.Set(ctx, KeyIndicators, set, f.ttls.Indicators)
	return set, nil
}

func (f *CachedFeed) MarketImpact(ctx context.Context) (*models.MarketImpact, error) {
	var cached models.MarketImpact
	if err := f.cache.Get(ctx, KeyImpact, &cached); err == nil {
		return &cached, nil
	}

	impact, err := f.inner.MarketImpact(ctx)
	if err != nil {
		return nil, err
	}
	_ = f.cache.Set(ctx, KeyImpact, impact, f.ttls.Impact)
	return impact, nil
}

func (f *CachedFeed) Insights(ctx context.Context) ([]models.Insight, error) {
	var cached []models.Insight
	if err := f.cache.Get(ctx, KeyInsights, &cached); err == nil {
		return cached, nil
	}

	insights, err := f.inner.Insights(ctx)
	if err != nil {
		return nil, err
	}
	_ = f.cache.Set(ctx, KeyInsights, insights, f.ttls.Insights)
	return insights, nil
}

package feed

import (
	"context"
	"fmt"
	"time"

	"EstatePulse/internal/domain/models"
	domrepo "EstatePulse/internal/domain/repository"
	xhttp "EstatePulse/pkg/http"
)

// Upstream resource paths.
const (
	pathIndicators = "/v1/economic-indicators"
	pathImpact     = "/v1/market-impact"
	pathInsights   = "/v1/economic-insights"
)

// Client implements an EconomicFeed backed by the upstream HTTP data feed.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	metrics domrepo.Metrics
}

// New creates a feed client. timeout bounds each upstream call.
func New(baseURL, apiKey string, timeout time.Duration, metrics domrepo.Metrics) *Client {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: metrics,
	}
}

// Indicators fetches the current indicator set.
func (c *Client) Indicators(ctx context.Context) (*models.IndicatorSet, error) {
	var set models.IndicatorSet
	if err := c.fetch(ctx, "indicators", pathIndicators, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// MarketImpact fetches the market impact assessment.
func (c *Client) MarketImpact(ctx context.Context) (*models.MarketImpact, error) {
	var impact models.MarketImpact
	if err := c.fetch(ctx, "impact", pathImpact, &impact); err != nil {
		return nil, err
	}
	return &impact, nil
}

// Insights fetches the current advisory insights.
func (c *Client) Insights(ctx context.Context) ([]models.Insight, error) {
	var list models.InsightList
	if err := c.fetch(ctx, "insights", pathInsights, &list); err != nil {
		return nil, err
	}
	return list.Insights, nil
}

func (c *Client) fetch(ctx context.Context, resource, path string, dest interface{}) error {
	opts := &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + path,
	}
	if c.apiKey != "" {
		opts.Headers = map[string]string{"Authorization": "Bearer " + c.apiKey}
	}

	start := time.Now()
	err := c.http.SendAndParse(ctx, opts, dest)
	c.metrics.RecordFeedLatency(resource, time.Since(start).Seconds())

	if err != nil {
		c.metrics.RecordFeedRequest(resource, "error")
		return fmt.Errorf("feed %s: %w", resource, err)
	}
	c.metrics.RecordFeedRequest(resource, "ok")
	return nil
}

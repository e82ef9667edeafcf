package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"EstatePulse/internal/domain/models"
	domrepo "EstatePulse/internal/domain/repository"
	xlogger "EstatePulse/pkg/logger"
)

// Section names used for metrics and logging.
const (
	sectionOverview = "overview"
	sectionImpact   = "impact"
	sectionInsights = "insights"
)

// TileSpec is one row of the fixed overview configuration: the key set and
// ordering never depend on the feed payload, so tile order stays stable even
// if the feed grows new fields.
type TileSpec struct {
	Key     string
	Label   string
	Icon    string
	Color   string
	Percent bool
}

// overviewTiles drives the overview grid in render order.
var overviewTiles = []TileSpec{
	{Key: "policy_rate", Label: "Policy Rate", Icon: "bank", Color: "primary", Percent: true},
	{Key: "prime_rate", Label: "Prime Rate", Icon: "percent", Color: "info", Percent: true},
	{Key: "mortgage_rate", Label: "Mortgage Rate", Icon: "house", Color: "success", Percent: true},
	{Key: "inflation_rate", Label: "Inflation", Icon: "graph-up", Color: "warning", Percent: true},
	{Key: "unemployment_rate", Label: "Unemployment", Icon: "people", Color: "danger", Percent: true},
	{Key: "gdp_growth", Label: "GDP Growth", Icon: "activity", Color: "secondary", Percent: false},
}

// Proportion chart fallbacks used when a field is absent.
const (
	defaultInflation    = 2
	defaultUnemployment = 5
	defaultGDPGrowth    = 2
)

// DashboardLoader populates the three dashboard sections from the feed.
// Each section tolerates the others' failure: the loaders own disjoint parts
// of the view and never share state.
type DashboardLoader struct {
	feed    domrepo.EconomicFeed
	metrics domrepo.Metrics
	logger  *xlogger.Logger
}

// NewDashboardLoader creates a loader over the given feed.
func NewDashboardLoader(feed domrepo.EconomicFeed, metrics domrepo.Metrics, logger *xlogger.Logger) *DashboardLoader {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &DashboardLoader{feed: feed, metrics: metrics, logger: logger}
}

// Build loads all three sections concurrently and assembles the view.
// The sections have no ordering dependency and may complete in any order.
func (l *DashboardLoader) Build(ctx context.Context) *models.DashboardView {
	view := &models.DashboardView{GeneratedAt: time.Now().UTC()}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		view.Overview = l.LoadOverview(ctx)
	}()
	go func() {
		defer wg.Done()
		view.Impact = l.LoadMarketImpact(ctx)
	}()
	go func() {
		defer wg.Done()
		view.Insights = l.LoadInsights(ctx)
	}()
	wg.Wait()

	return view
}

// LoadOverview builds the indicator overview grid and its two charts.
// On feed failure the section carries only the unavailable notice and no
// charts are built.
func (l *DashboardLoader) LoadOverview(ctx context.Context) models.OverviewSection {
	set, err := l.feed.Indicators(ctx)
	if err != nil {
		l.logError(sectionOverview, err)
		l.metrics.RecordSectionLoad(sectionOverview, "error")
		return models.OverviewSection{
			Unavailable: true,
			Notice:      models.OverviewUnavailable,
		}
	}

	tiles := make([]models.OverviewTile, 0, len(overviewTiles))
	for _, spec := range overviewTiles {
		tiles = append(tiles, models.OverviewTile{
			Key:   spec.Key,
			Label: spec.Label,
			Icon:  spec.Icon,
			Color: spec.Color,
			Value: FormatIndicator(set.Value(spec.Key), spec.Percent),
		})
	}

	l.metrics.RecordSectionLoad(sectionOverview, "ok")
	return models.OverviewSection{
		Tiles:           tiles,
		RateChart:       buildRateChart(set),
		ProportionChart: buildProportionChart(set),
	}
}

// LoadMarketImpact fills the three fixed impact slots. On feed failure the
// slots keep their loading placeholder; the error is logged only.
func (l *DashboardLoader) LoadMarketImpact(ctx context.Context) models.ImpactSection {
	section := models.NewImpactSection()

	impact, err := l.feed.MarketImpact(ctx)
	if err != nil {
		l.logError(sectionImpact, err)
		l.metrics.RecordSectionLoad(sectionImpact, "error")
		return section
	}

	section.InterestEnvironment = impactSlot(impact.InterestEnvironment)
	section.EconomicMomentum = impactSlot(impact.EconomicMomentum)
	section.AffordabilityPressure = impactSlot(impact.AffordabilityPressure)

	l.metrics.RecordSectionLoad(sectionImpact, "ok")
	return section
}

// LoadInsights builds the insights panel. An empty list renders the static
// placeholder sentence; a feed failure renders the unavailable notice.
func (l *DashboardLoader) LoadInsights(ctx context.Context) models.InsightsSection {
	insights, err := l.feed.Insights(ctx)
	if err != nil {
		l.logError(sectionInsights, err)
		l.metrics.RecordSectionLoad(sectionInsights, "error")
		return models.InsightsSection{
			Unavailable: true,
			Notice:      models.InsightsUnavailable,
		}
	}

	l.metrics.RecordSectionLoad(sectionInsights, "ok")

	if len(insights) == 0 {
		return models.InsightsSection{Notice: models.InsightsEmptyText}
	}

	notices := make([]models.InsightNotice, 0, len(insights))
	for _, in := range insights {
		title := in.Title
		if title == "" {
			title = models.DefaultInsightTitle
		}
		severity := in.Type
		if severity == "" {
			severity = models.DefaultInsightSeverity
		}
		notices = append(notices, models.InsightNotice{
			ID:       in.ID,
			Title:    title,
			Message:  in.Message,
			Severity: severity,
		})
	}

	return models.InsightsSection{Notices: notices}
}

// FormatIndicator renders an indicator value for a tile: absent values show
// "N/A", percentage-class values get two decimals and a "%" suffix, others
// two decimals unitless. A NaN passes through as literal "NaN" text.
func FormatIndicator(v *float64, percent bool) string {
	if v == nil {
		return "N/A"
	}
	if percent {
		return fmt.Sprintf("%.2f%%", *v)
	}
	return fmt.Sprintf("%.2f", *v)
}

// buildRateChart builds the grouped bar chart of the three rate fields.
// Absent rates chart as zero.
func buildRateChart(set *models.IndicatorSet) *models.ChartData {
	return &models.ChartData{
		Labels: []string{"Policy Rate", "Prime Rate", "Mortgage Rate"},
		Values: []float64{
			valueOr(set.PolicyRate, 0),
			valueOr(set.PrimeRate, 0),
			valueOr(set.MortgageRate, 0),
		},
	}
}

// buildProportionChart builds the proportion chart of inflation,
// unemployment and GDP growth magnitudes with fixed fallback defaults.
func buildProportionChart(set *models.IndicatorSet) *models.ChartData {
	return &models.ChartData{
		Labels: []string{"Inflation", "Unemployment", "GDP Growth"},
		Values: []float64{
			math.Abs(valueOr(set.InflationRate, defaultInflation)),
			math.Abs(valueOr(set.UnemploymentRate, defaultUnemployment)),
			math.Abs(valueOr(set.GDPGrowth, defaultGDPGrowth)),
		},
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func impactSlot(entry models.ImpactEntry) models.ImpactSlot {
	label := entry.Label
	if label == "" {
		label = "N/A"
	}
	return models.ImpactSlot{Label: label, Description: entry.Description}
}

func (l *DashboardLoader) logError(section string, err error) {
	if l.logger == nil {
		return
	}
	l.logger.Error("section load failed",
		xlogger.String("section", section),
		xlogger.Error(err),
	)
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstatePulse/internal/domain/models"
)

type stubFeed struct {
	indicators *models.IndicatorSet
	impact     *models.MarketImpact
	insights   []models.Insight

	indicatorsErr error
	impactErr     error
	insightsErr   error
}

func (f *stubFeed) Indicators(context.Context) (*models.IndicatorSet, error) {
	return f.indicators, f.indicatorsErr
}

func (f *stubFeed) MarketImpact(context.Context) (*models.MarketImpact, error) {
	return f.impact, f.impactErr
}

func (f *stubFeed) Insights(context.Context) ([]models.Insight, error) {
	return f.insights, f.insightsErr
}

func ptr(v float64) *float64 { return &v }

func fullIndicatorSet() *models.IndicatorSet {
	return &models.IndicatorSet{
		PolicyRate:       ptr(4.5),
		PrimeRate:        ptr(6.45),
		MortgageRate:     ptr(5.25),
		InflationRate:    ptr(2.8),
		UnemploymentRate: ptr(6.1),
		GDPGrowth:        ptr(1.9),
	}
}

func TestLoadOverviewTileOrderIsFixed(t *testing.T) {
	loader := NewDashboardLoader(&stubFeed{indicators: fullIndicatorSet()}, nil, nil)

	section := loader.LoadOverview(context.Background())
	require.False(t, section.Unavailable)
	require.Len(t, section.Tiles, 6)

	keys := make([]string, 0, len(section.Tiles))
	for _, tile := range section.Tiles {
		keys = append(keys, tile.Key)
	}
	assert.Equal(t, []string{
		"policy_rate", "prime_rate", "mortgage_rate",
		"inflation_rate", "unemployment_rate", "gdp_growth",
	}, keys)
}

func TestLoadOverviewFormatsValues(t *testing.T) {
	loader := NewDashboardLoader(&stubFeed{indicators: fullIndicatorSet()}, nil, nil)

	section := loader.LoadOverview(context.Background())
	require.Len(t, section.Tiles, 6)

	byKey := map[string]string{}
	for _, tile := range section.Tiles {
		byKey[tile.Key] = tile.Value
	}
	assert.Equal(t, "4.50%", byKey["policy_rate"])
	assert.Equal(t, "6.45%", byKey["prime_rate"])
	assert.Equal(t, "5.25%", byKey["mortgage_rate"])
	assert.Equal(t, "2.80%", byKey["inflation_rate"])
	assert.Equal(t, "6.10%", byKey["unemployment_rate"])
	// GDP growth is the one unitless value in the grid
	assert.Equal(t, "1.90", byKey["gdp_growth"])
}

func TestLoadOverviewMissingValuesShowNA(t *testing.T) {
	set := &models.IndicatorSet{PolicyRate: ptr(4.5)}
	loader := NewDashboardLoader(&stubFeed{indicators: set}, nil, nil)

	section := loader.LoadOverview(context.Background())
	require.Len(t, section.Tiles, 6)
	assert.Equal(t, "4.50%", section.Tiles[0].Value)
	for _, tile := range section.Tiles[1:] {
		assert.Equal(t, "N/A", tile.Value, "key %s", tile.Key)
	}
}

func TestLoadOverviewFeedFailure(t *testing.T) {
	loader := NewDashboardLoader(&stubFeed{indicatorsErr: errors.New("boom")}, nil, nil)

	section := loader.LoadOverview(context.Background())
	assert.True(t, section.Unavailable)
	assert.Equal(t, models.OverviewUnavailable, section.Notice)
	assert.Empty(t, section.Tiles)
	assert.Nil(t, section.RateChart)
	assert.Nil(t, section.ProportionChart)
}

func TestRateChartAbsentValuesChartAsZero(t *testing.T) {
	set := &models.IndicatorSet{PrimeRate: ptr(6.45)}
	loader := NewDashboardLoader(&stubFeed{indicators: set}, nil, nil)

	section := loader.LoadOverview(context.Background())
	require.NotNil(t, section.RateChart)
	assert.Equal(t, []string{"Policy Rate", "Prime Rate", "Mortgage Rate"}, section.RateChart.Labels)
	assert.Equal(t, []float64{0, 6.45, 0}, section.RateChart.Values)
}

func TestProportionChartDefaultsAndMagnitude(t *testing.T) {
	set := &models.IndicatorSet{GDPGrowth: ptr(-1.5)}
	loader := NewDashboardLoader(&stubFeed{indicators: set}, nil, nil)

	section := loader.LoadOverview(context.Background())
	require.NotNil(t, section.ProportionChart)
	// inflation and unemployment fall back, negative growth charts by magnitude
	assert.Equal(t, []float64{2, 5, 1.5}, section.ProportionChart.Values)
}

func TestLoadMarketImpactSuccess(t *testing.T) {
	impact := &models.MarketImpact{
		InterestEnvironment:   models.ImpactEntry{Label: "Restrictive", Description: "Borrowing costs are elevated."},
		EconomicMomentum:      models.ImpactEntry{Label: "Slowing", Description: "Growth is cooling."},
		AffordabilityPressure: models.ImpactEntry{Label: "High", Description: "Prices outpace incomes."},
	}
	loader := NewDashboardLoader(&stubFeed{impact: impact}, nil, nil)

	section := loader.LoadMarketImpact(context.Background())
	assert.Equal(t, "Restrictive", section.InterestEnvironment.Label)
	assert.Equal(t, "Slowing", section.EconomicMomentum.Label)
	assert.Equal(t, "High", section.AffordabilityPressure.Label)
}

func TestLoadMarketImpactMissingLabelDefaultsToNA(t *testing.T) {
	impact := &models.MarketImpact{
		InterestEnvironment: models.ImpactEntry{Description: "no label supplied"},
	}
	loader := NewDashboardLoader(&stubFeed{impact: impact}, nil, nil)

	section := loader.LoadMarketImpact(context.Background())
	assert.Equal(t, "N/A", section.InterestEnvironment.Label)
	assert.Equal(t, "no label supplied", section.InterestEnvironment.Description)
	assert.Equal(t, "N/A", section.EconomicMomentum.Label)
	assert.Empty(t, section.EconomicMomentum.Description)
}

func TestLoadMarketImpactFailureKeepsPlaceholders(t *testing.T) {
	loader := NewDashboardLoader(&stubFeed{impactErr: errors.New("down")}, nil, nil)

	section := loader.LoadMarketImpact(context.Background())
	assert.Equal(t, models.LoadingText, section.InterestEnvironment.Label)
	assert.Equal(t, models.LoadingText, section.EconomicMomentum.Description)
	assert.Equal(t, models.LoadingText, section.AffordabilityPressure.Label)
}

func TestLoadInsightsDefaultsTitleAndSeverity(t *testing.T) {
	insights := []models.Insight{
		{ID: "a", Title: "Rates", Message: "Mortgage rates climbed.", Type: "warning"},
		{ID: "b", Message: "Inventory grew."},
	}
	loader := NewDashboardLoader(&stubFeed{insights: insights}, nil, nil)

	section := loader.LoadInsights(context.Background())
	require.Len(t, section.Notices, 2)
	assert.Equal(t, "Rates", section.Notices[0].Title)
	assert.Equal(t, "warning", section.Notices[0].Severity)
	assert.Equal(t, models.DefaultInsightTitle, section.Notices[1].Title)
	assert.Equal(t, models.DefaultInsightSeverity, section.Notices[1].Severity)
}

func TestLoadInsightsEmptyList(t *testing.T) {
	loader := NewDashboardLoader(&stubFeed{insights: []models.Insight{}}, nil, nil)

	section := loader.LoadInsights(context.Background())
	assert.False(t, section.Unavailable)
	assert.Equal(t, models.InsightsEmptyText, section.Notice)
	assert.Empty(t, section.Notices)
}

func TestLoadInsightsFailure(t *testing.T) {
	loader := NewDashboardLoader(&stubFeed{insightsErr: errors.New("down")}, nil, nil)

	section := loader.LoadInsights(context.Background())
	assert.True(t, section.Unavailable)
	assert.Equal(t, models.InsightsUnavailable, section.Notice)
}

// One section failing must not empty the others.
func TestBuildSectionsAreIndependent(t *testing.T) {
	feed := &stubFeed{
		indicators:  fullIndicatorSet(),
		impactErr:   errors.New("impact down"),
		insightsErr: errors.New("insights down"),
	}
	loader := NewDashboardLoader(feed, nil, nil)

	view := loader.Build(context.Background())
	require.NotNil(t, view)
	assert.False(t, view.Overview.Unavailable)
	assert.Len(t, view.Overview.Tiles, 6)
	assert.Equal(t, models.LoadingText, view.Impact.InterestEnvironment.Label)
	assert.True(t, view.Insights.Unavailable)
	assert.False(t, view.GeneratedAt.IsZero())
}

func TestFormatIndicator(t *testing.T) {
	assert.Equal(t, "N/A", FormatIndicator(nil, true))
	assert.Equal(t, "N/A", FormatIndicator(nil, false))
	assert.Equal(t, "3.14%", FormatIndicator(ptr(3.14159), true))
	assert.Equal(t, "0.00%", FormatIndicator(ptr(0), true))
	assert.Equal(t, "-0.70", FormatIndicator(ptr(-0.7), false))
}

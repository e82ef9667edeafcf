package models

import "time"

// Fallback texts shown when a section cannot be populated.
const (
	LoadingText           = "Loading..."
	OverviewUnavailable   = "Economic indicators are temporarily unavailable."
	InsightsUnavailable   = "Market insights are temporarily unavailable."
	InsightsEmptyText     = "No market insights available at this time."
	DefaultInsightTitle   = "Market Insight"
	DefaultInsightSeverity = "info"
)

// OverviewTile is one summary tile of the indicator overview grid.
type OverviewTile struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Value string `json:"value"`
}

// ChartData is a labelled series consumed by the dashboard charts.
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// OverviewSection is the rendered indicator overview plus its two charts.
// When Unavailable is set the tiles and charts are absent and Notice holds
// the fallback text.
type OverviewSection struct {
	Unavailable     bool           `json:"unavailable"`
	Notice          string         `json:"notice,omitempty"`
	Tiles           []OverviewTile `json:"tiles,omitempty"`
	RateChart       *ChartData     `json:"rate_chart,omitempty"`
	ProportionChart *ChartData     `json:"proportion_chart,omitempty"`
}

// ImpactSlot is one rendered slot of the market impact panel.
type ImpactSlot struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ImpactSection holds the three fixed market impact slots. Slots start out
// with the loading placeholder and keep it if the fetch fails.
type ImpactSection struct {
	InterestEnvironment   ImpactSlot `json:"interest_environment"`
	EconomicMomentum      ImpactSlot `json:"economic_momentum"`
	AffordabilityPressure ImpactSlot `json:"affordability_pressure"`
}

// NewImpactSection returns an ImpactSection with loading placeholders.
func NewImpactSection() ImpactSection {
	slot := ImpactSlot{Label: LoadingText, Description: LoadingText}
	return ImpactSection{
		InterestEnvironment:   slot,
		EconomicMomentum:      slot,
		AffordabilityPressure: slot,
	}
}

// InsightNotice is one dismissible notice of the insights panel.
type InsightNotice struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// InsightsSection is the rendered insights panel.
type InsightsSection struct {
	Unavailable bool            `json:"unavailable"`
	Notice      string          `json:"notice,omitempty"`
	Notices     []InsightNotice `json:"notices,omitempty"`
}

// DashboardView is the full server-rendered dashboard model. The three
// sections are independent: one failing never empties the others.
type DashboardView struct {
	DemoMode    bool            `json:"demo_mode"`
	GeneratedAt time.Time       `json:"generated_at"`
	Overview    OverviewSection `json:"overview"`
	Impact      ImpactSection   `json:"impact"`
	Insights    InsightsSection `json:"insights"`
}

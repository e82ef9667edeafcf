package models

import "time"

// IndicatorSet holds the macroeconomic indicators the dashboard renders.
// Fields are pointers because the feed may omit any of them; an absent
// indicator renders as "N/A".
type IndicatorSet struct {
	PolicyRate       *float64 `json:"policy_rate"`
	PrimeRate        *float64 `json:"prime_rate"`
	MortgageRate     *float64 `json:"mortgage_rate"`
	InflationRate    *float64 `json:"inflation_rate"`
	UnemploymentRate *float64 `json:"unemployment_rate"`
	GDPGrowth        *float64 `json:"gdp_growth"`
}

// Value returns the indicator for a known key, nil otherwise.
func (s *IndicatorSet) Value(key string) *float64 {
	switch key {
	case "policy_rate":
		return s.PolicyRate
	case "prime_rate":
		return s.PrimeRate
	case "mortgage_rate":
		return s.MortgageRate
	case "inflation_rate":
		return s.InflationRate
	case "unemployment_rate":
		return s.UnemploymentRate
	case "gdp_growth":
		return s.GDPGrowth
	}
	return nil
}

// ImpactEntry is one (label, description) pair of the market impact panel.
type ImpactEntry struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// MarketImpact describes how the current indicators translate into housing
// market conditions. The three keys are fixed.
type MarketImpact struct {
	InterestEnvironment  ImpactEntry `json:"interest_environment"`
	EconomicMomentum     ImpactEntry `json:"economic_momentum"`
	AffordabilityPressure ImpactEntry `json:"affordability_pressure"`
}

// Insight is a short advisory message with an optional title and severity.
type Insight struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// InsightList is the wire shape of the insights resource.
type InsightList struct {
	Insights []Insight `json:"insights"`
}

// IndicatorSnapshot is a point-in-time copy of an IndicatorSet kept for the
// history endpoint.
type IndicatorSnapshot struct {
	ID         string       `json:"id"`
	TakenAt    time.Time    `json:"taken_at"`
	Source     string       `json:"source"`
	Indicators IndicatorSet `json:"indicators"`
}

// FeedUpdate is the message shape published by the ingest pipeline on the
// indicators topic.
type FeedUpdate struct {
	Indicators IndicatorSet `json:"indicators"`
	Source     string       `json:"source"`
	ObservedAt int64        `json:"observed_at"` // unix seconds
}

// Package region models the target-region profile the opportunity
// orchestrator consumes: macro indicators plus a set of raw latent features
// synthesized from the mission's declared industries.
package region

// Feature is a single latent regional asset with scoring attributes.
// RarityScore and RelevanceScore are 0-10; MarketProxy is an indicative
// annual market size in USD feeding the viability and cascade models, and
// doubles as a tie-breaker when ranking features.
type Feature struct {
	Name           string  `json:"name"`
	RarityScore    int     `json:"rarity_score"`
	RelevanceScore int     `json:"relevance_score"`
	MarketProxy    float64 `json:"market_proxy"`
}

// Profile is the assembled picture of a target region.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Population  int64     `json:"population"`
	GDP         float64   `json:"gdp"`
	RawFeatures []Feature `json:"raw_features"`
}

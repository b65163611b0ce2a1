package opportunity

import (
	"math"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/region"
)

// SCFResult is the symbiotic cascade forecast: the projected employment and
// economic ripple of activating the identified opportunities.
type SCFResult struct {
	TotalEconomicImpactUSD float64 `json:"total_economic_impact_usd"`
	DirectJobs             int     `json:"direct_jobs"`
	IndirectJobs           int     `json:"indirect_jobs"`
	AnnualizedImpact       float64 `json:"annualized_impact"`
}

// Employment-multiplier model constants.
const (
	// scfCapitalMultiplier converts aggregate market proxy into mobilized
	// capital: every proxy dollar attracts co-investment.
	scfCapitalMultiplier = 4.2
	// scfCostPerJob is the capital cost of one direct position.
	scfCostPerJob = 90_000.0
	// scfIndirectMultiplier is the regional ripple per direct job.
	scfIndirectMultiplier = 1.8
	// scfOutputPerJob is annual economic output per position.
	scfOutputPerJob = 118_000.0
	// Impact is discounted over a fixed horizon.
	scfHorizonYears = 7
	scfDiscountRate = 0.06
)

// ComputeSCF derives the cascade forecast from a region's feature set.  An
// empty feature set yields the zero value.
func ComputeSCF(r region.Profile) SCFResult {
	var sumProxy float64
	for _, f := range r.RawFeatures {
		sumProxy += f.MarketProxy
	}
	if sumProxy <= 0 {
		return SCFResult{}
	}

	capital := sumProxy * scfCapitalMultiplier
	direct := int(capital / scfCostPerJob)
	if direct < 1 {
		direct = 1
	}
	indirect := int(math.Round(float64(direct) * scfIndirectMultiplier))

	annual := float64(direct+indirect) * scfOutputPerJob

	// Present value of the annual impact across the horizon.
	var total float64
	for year := 1; year <= scfHorizonYears; year++ {
		total += annual / math.Pow(1+scfDiscountRate, float64(year))
	}

	return SCFResult{
		TotalEconomicImpactUSD: math.Round(total),
		DirectJobs:             direct,
		IndirectJobs:           indirect,
		AnnualizedImpact:       math.Round(annual),
	}
}

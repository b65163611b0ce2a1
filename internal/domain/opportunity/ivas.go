package opportunity

import (
	"math"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/region"
)

// IVASResult is the investment viability assessment: how quickly capital can
// be deployed in the region, on a 0-100 scale.
type IVASResult struct {
	IVASScore        int           `json:"ivas_score"`
	ActivationMonths int           `json:"activation_months"`
	Breakdown        IVASBreakdown `json:"breakdown"`
}

// IVASBreakdown exposes the two opposing inputs of the score.
type IVASBreakdown struct {
	// ActivationFriction grows with market size: larger populations and
	// economies carry more institutional drag.
	ActivationFriction float64 `json:"activation_friction"`
	// OpportunityQuantum grows with the aggregate market proxy of the
	// selected features.
	OpportunityQuantum float64 `json:"opportunity_quantum"`
}

// IVAS model constants.  Friction and quantum are logarithmic so the score
// stays meaningful from town-scale to national-scale inputs.
const (
	frictionPopCoeff = 8.0
	frictionGDPCoeff = 4.0
	frictionGDPBase  = 9.0 // log10 of $1B; GDP below that adds no friction
	frictionMin      = 5.0
	frictionMax      = 95.0

	quantumCoeff = 12.0

	ivasQuantumWeight  = 0.65
	ivasFrictionWeight = 0.35

	monthsBase        = 2.0
	monthsPerFriction = 7.0
)

// ComputeIVAS derives the viability score for a region.  An empty feature
// set yields the zero value: no features means nothing to activate.
func ComputeIVAS(r region.Profile) IVASResult {
	if len(r.RawFeatures) == 0 {
		return IVASResult{}
	}

	friction := frictionPopCoeff * math.Log10(float64(r.Population)+1)
	if gdpLog := math.Log10(r.GDP+1) - frictionGDPBase; gdpLog > 0 {
		friction += frictionGDPCoeff * gdpLog
	}
	friction = clampF(friction, frictionMin, frictionMax)

	var sumProxy float64
	for _, f := range r.RawFeatures {
		sumProxy += f.MarketProxy
	}
	quantum := clampF(quantumCoeff*math.Log10(sumProxy+1), 0, 100)

	score := int(math.Round(ivasQuantumWeight*quantum + ivasFrictionWeight*(100-friction)))
	months := int(math.Round(monthsBase + friction/monthsPerFriction))
	if months < 1 {
		months = 1
	}

	return IVASResult{
		IVASScore:        clampInt(score, 0, 100),
		ActivationMonths: months,
		Breakdown: IVASBreakdown{
			ActivationFriction: round2(friction),
			OpportunityQuantum: round2(quantum),
		},
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

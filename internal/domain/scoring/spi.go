// Package scoring implements the Strategic Probability Index (SPI): a
// deterministic 0-100 partnership-viability score computed from a mission
// profile.  CalculateSPI is pure and total; every heuristic degrades to a
// neutral mid-range score when its inputs are missing.
package scoring

import (
	"math"
	"strings"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
)

// Canonical sub-factor labels, in presentation order.
const (
	FactorEconomicReadiness  = "Economic Readiness"
	FactorSymbiosisPotential = "Symbiosis Potential"
	FactorCulturalCompat     = "Cultural Compatibility"
	FactorPartnerReliability = "Partner Reliability"
	FactorActivationVelocity = "Activation Velocity"
	FactorEthicalAlignment   = "Ethical Alignment"
	FactorUserTransparency   = "User Transparency"
)

// neutralScore is the value every heuristic falls back to when its inputs
// are absent.
const neutralScore = 50

// Factor is one named breakdown entry of an SPI result.
type Factor struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Result carries the headline SPI and its ordered breakdown.  The SPI is a
// fixed-weight linear combination of the breakdown values.
type Result struct {
	SPI       int      `json:"spi"`
	Breakdown []Factor `json:"breakdown"`
}

// Factor weights.  They sum to 1.0; the SPI is the weighted sum of the seven
// sub-factors, rounded to the nearest integer.
const (
	weightEconomic     = 0.20
	weightSymbiosis    = 0.20
	weightCultural     = 0.12
	weightPartner      = 0.13
	weightVelocity     = 0.15
	weightEthical      = 0.12
	weightTransparency = 0.08
)

// CalculateSPI computes the Strategic Probability Index for a mission
// profile.  Identical input always yields identical output, and each
// documented heuristic is monotonic: adding capabilities never lowers
// Symbiosis Potential, lengthening the problem statement never lowers
// Economic Readiness, and so on.
func CalculateSPI(p mission.Profile) Result {
	breakdown := []Factor{
		{FactorEconomicReadiness, economicReadiness(p)},
		{FactorSymbiosisPotential, symbiosisPotential(p)},
		{FactorCulturalCompat, culturalCompatibility(p)},
		{FactorPartnerReliability, partnerReliability(p)},
		{FactorActivationVelocity, activationVelocity(p)},
		{FactorEthicalAlignment, ethicalAlignment(p)},
		{FactorUserTransparency, userTransparency(p)},
	}

	weighted := weightEconomic*float64(breakdown[0].Value) +
		weightSymbiosis*float64(breakdown[1].Value) +
		weightCultural*float64(breakdown[2].Value) +
		weightPartner*float64(breakdown[3].Value) +
		weightVelocity*float64(breakdown[4].Value) +
		weightEthical*float64(breakdown[5].Value) +
		weightTransparency*float64(breakdown[6].Value)

	return Result{
		SPI:       clampScore(int(math.Round(weighted))),
		Breakdown: breakdown,
	}
}

// FactorValue returns the breakdown value for label, or neutralScore when the
// label is absent.  Consumers such as the ethical safeguard engine read
// individual factors through this accessor.
func (r Result) FactorValue(label string) int {
	for _, f := range r.Breakdown {
		if f.Label == label {
			return f.Value
		}
	}
	return neutralScore
}

// economicReadiness rewards a present, specific, quantified problem
// statement.  Empty input is neutral; more words never lower the score.
func economicReadiness(p mission.Profile) int {
	statement := strings.TrimSpace(p.ProblemStatement)
	if statement == "" {
		return neutralScore
	}
	words := len(strings.Fields(statement))
	score := neutralScore + minInt(30, words/2)
	if strings.ContainsAny(statement, "0123456789") {
		// Quantified statements signal readiness to commit.
		score += 10
	}
	return clampScore(score)
}

// industryNeeds maps an industry tag to the capability tags that market
// typically demands.  Unknown industries fall back to genericNeeds.
var industryNeeds = map[string][]string{
	"logistics":     {"warehousing", "fleet", "customs", "cold chain", "capital"},
	"agriculture":   {"irrigation", "cold chain", "distribution", "capital", "land"},
	"manufacturing": {"tooling", "skilled labor", "supply chain", "capital", "energy"},
	"technology":    {"talent", "capital", "connectivity", "research"},
	"tourism":       {"hospitality", "transport", "marketing", "capital"},
	"energy":        {"grid access", "capital", "engineering", "permits"},
	"healthcare":    {"clinical staff", "equipment", "capital", "regulatory"},
	"education":     {"faculty", "facilities", "accreditation", "capital"},
}

var genericNeeds = []string{"capital", "talent", "logistics"}

// symbiosisPotential rewards declared capabilities and, more strongly,
// overlap between what the organization has and what its target industries
// need.  Monotonic: adding a capability never lowers the score.
func symbiosisPotential(p mission.Profile) int {
	have := p.Calibration.CapabilitiesHave
	score := neutralScore + minInt(16, 4*len(have))

	needs := map[string]bool{}
	for _, ind := range p.TargetIndustries {
		list, ok := industryNeeds[strings.ToLower(strings.TrimSpace(ind))]
		if !ok {
			list = genericNeeds
		}
		for _, n := range list {
			needs[n] = true
		}
	}
	overlap := 0
	for _, c := range have {
		if needs[strings.ToLower(strings.TrimSpace(c))] {
			overlap++
		}
	}
	score += minInt(24, 6*overlap)
	return clampScore(score)
}

// regionAffinity is a fixed country-to-market affinity table.  Pairs not
// listed score neutral.
var regionAffinity = map[string]map[string]int{
	"australia":      {"oceania": 78, "southeast asia": 66, "east asia": 60},
	"germany":        {"europe": 80, "eastern europe": 70, "north africa": 55},
	"united states":  {"north america": 80, "latin america": 64, "europe": 62},
	"japan":          {"east asia": 76, "southeast asia": 68, "oceania": 58},
	"brazil":         {"latin america": 78, "africa": 60},
	"india":          {"south asia": 78, "middle east": 64, "africa": 62},
	"united kingdom": {"europe": 72, "north america": 66, "africa": 58},
	"kenya":          {"africa": 78, "middle east": 60},
}

// culturalCompatibility looks up the profile's home country against the
// target region.  Unknown combinations are neutral.
func culturalCompatibility(p mission.Profile) int {
	country := strings.ToLower(strings.TrimSpace(p.Country))
	region := strings.ToLower(strings.TrimSpace(p.TargetRegion))
	if country == "" || region == "" {
		return neutralScore
	}
	if regions, ok := regionAffinity[country]; ok {
		if v, ok := regions[region]; ok {
			return clampScore(v)
		}
	}
	return neutralScore
}

// orgTypeReliability reflects institutional permanence per organization type.
var orgTypeReliability = map[mission.OrgType]int{
	mission.OrgGovernment: 72,
	mission.OrgAcademic:   68,
	mission.OrgNGO:        64,
	mission.OrgPrivate:    60,
	mission.OrgIndividual: 45,
}

func partnerReliability(p mission.Profile) int {
	score, ok := orgTypeReliability[p.OrgType]
	if !ok {
		score = neutralScore
	}
	if strings.TrimSpace(p.OrgName) != "" {
		score += 6
	}
	if strings.TrimSpace(p.OrgSubType) != "" {
		score += 4
	}
	return clampScore(score)
}

var timelineVelocity = map[mission.Timeline]int{
	mission.TimelineImmediate: 78,
	mission.TimelineQuarter:   68,
	mission.TimelineYear:      55,
	mission.TimelineMultiYear: 42,
}

var budgetVelocityAdj = map[mission.BudgetCeiling]int{
	mission.BudgetFlagship: 10,
	mission.BudgetGrowth:   5,
	mission.BudgetSeed:     0,
	mission.BudgetMicro:    -8,
}

// activationVelocity reflects how quickly the declared timeline and budget
// allow capital to move.
func activationVelocity(p mission.Profile) int {
	score, ok := timelineVelocity[p.Calibration.Timeline]
	if !ok {
		score = neutralScore
	}
	score += budgetVelocityAdj[p.Calibration.BudgetCeiling]
	return clampScore(score)
}

// sensitiveIndustries attract a fixed ethical-alignment penalty.
var sensitiveIndustries = map[string]bool{
	"gambling":          true,
	"tobacco":           true,
	"surveillance":      true,
	"arms":              true,
	"extractive mining": true,
}

var stewardshipKeywords = []string{"sustainab", "community", "steward", "inclusive", "regenerat"}

func ethicalAlignment(p mission.Profile) int {
	score := neutralScore
	if len(p.TargetIndustries) > 0 {
		sensitive := false
		for _, ind := range p.TargetIndustries {
			if sensitiveIndustries[strings.ToLower(strings.TrimSpace(ind))] {
				sensitive = true
				break
			}
		}
		if sensitive {
			score -= 22
		} else {
			score += 12
		}
	}
	intent := strings.ToLower(p.StrategicIntent)
	bonus := 0
	for _, kw := range stewardshipKeywords {
		if strings.Contains(intent, kw) {
			bonus += 5
		}
	}
	score += minInt(15, bonus)
	return clampScore(score)
}

// userTransparency measures intake completeness: the share of profile fields
// the operator actually filled in.
func userTransparency(p mission.Profile) int {
	fields := []bool{
		strings.TrimSpace(p.OrgName) != "",
		p.OrgType != "",
		strings.TrimSpace(p.Country) != "",
		strings.TrimSpace(p.City) != "",
		strings.TrimSpace(p.TargetRegion) != "",
		len(p.TargetIndustries) > 0,
		strings.TrimSpace(p.StrategicIntent) != "",
		strings.TrimSpace(p.ProblemStatement) != "",
		p.Calibration.BudgetCeiling != "",
		p.Calibration.Timeline != "",
		len(p.Calibration.CapabilitiesHave) > 0,
		len(p.Calibration.CapabilitiesNeed) > 0,
	}
	filled := 0
	for _, f := range fields {
		if f {
			filled++
		}
	}
	return clampScore(int(math.Round(100 * float64(filled) / float64(len(fields)))))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

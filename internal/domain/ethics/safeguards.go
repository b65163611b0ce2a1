// Package ethics implements the ethical safeguard engine.  A fixed, ordered
// rule set evaluates a mission profile (plus its SPI breakdown) and produces
// blocking or cautionary flags with mitigations.  Rule order is part of the
// contract: flags always come back in evaluation order.
package ethics

import (
	"fmt"
	"strings"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/scoring"
)

// Severity of a raised flag.
type Severity string

const (
	SeverityBlock   Severity = "BLOCK"
	SeverityCaution Severity = "CAUTION"
)

// Flag is one raised safeguard with its remediation guidance.
type Flag struct {
	Rule       string   `json:"rule"`
	Severity   Severity `json:"severity"`
	Reason     string   `json:"reason"`
	Mitigation string   `json:"mitigation"`
}

// CheckResult is the outcome of a full safeguard evaluation.
type CheckResult struct {
	// OverallFlag is the worst severity raised, or empty when clean.
	OverallFlag Severity `json:"overall_flag,omitempty"`
	// Score is 100 minus accumulated penalties, clamped to [0,100].
	Score int    `json:"score"`
	Flags []Flag `json:"flags"`
}

// Passed reports whether the mission may proceed to report generation.
// Cautions pass; any block fails.
func (r CheckResult) Passed() bool {
	return r.OverallFlag != SeverityBlock
}

// Penalty points per severity.
const (
	penaltyBlock   = 35
	penaltyCaution = 12
)

// restrictedPairings are industry/region combinations the engine refuses
// outright.  Keys are lower-cased "industry|region".
var restrictedPairings = map[string]string{
	"arms|middle east":         "export-controlled category in an embargoed corridor",
	"arms|africa":              "export-controlled category in an embargoed corridor",
	"gambling|southeast asia":  "licensing regimes in the corridor prohibit foreign operators",
	"surveillance|east asia":   "dual-use technology restrictions apply across the corridor",
	"extractive mining|africa": "corridor flagged for unresolved land-rights exposure",
}

// Evaluate runs every safeguard rule against the profile in fixed order and
// returns the raised flags, the worst severity, and a penalty-based score.
// It never returns an error: missing data raises flags instead of failing.
func Evaluate(p mission.Profile, spi scoring.Result) CheckResult {
	var flags []Flag

	flags = append(flags, checkIdentity(p)...)
	flags = append(flags, checkRestrictedPairings(p)...)
	flags = append(flags, checkBudgetTimeline(p)...)
	flags = append(flags, checkContext(p)...)
	flags = append(flags, checkTransparency(spi)...)
	flags = append(flags, checkAlignment(spi)...)

	result := CheckResult{Flags: flags, Score: 100}
	penalty := 0
	for _, f := range flags {
		switch f.Severity {
		case SeverityBlock:
			penalty += penaltyBlock
			result.OverallFlag = SeverityBlock
		case SeverityCaution:
			penalty += penaltyCaution
			if result.OverallFlag != SeverityBlock {
				result.OverallFlag = SeverityCaution
			}
		}
	}
	result.Score = clamp(100 - penalty)
	return result
}

// checkIdentity blocks anonymous missions.  Capital cannot move toward an
// unidentified counterparty.
func checkIdentity(p mission.Profile) []Flag {
	if strings.TrimSpace(p.OrgName) != "" && p.OrgType != "" {
		return nil
	}
	return []Flag{{
		Rule:       "identity",
		Severity:   SeverityBlock,
		Reason:     "organization name or type is missing",
		Mitigation: "Complete the organization identity section before requesting a report",
	}}
}

func checkRestrictedPairings(p mission.Profile) []Flag {
	region := strings.ToLower(strings.TrimSpace(p.TargetRegion))
	var flags []Flag
	for _, ind := range p.TargetIndustries {
		key := strings.ToLower(strings.TrimSpace(ind)) + "|" + region
		if reason, ok := restrictedPairings[key]; ok {
			flags = append(flags, Flag{
				Rule:       "restricted_pairing",
				Severity:   SeverityBlock,
				Reason:     fmt.Sprintf("%s in %s: %s", strings.TrimSpace(ind), p.TargetRegion, reason),
				Mitigation: "Select a different target region or remove the restricted industry",
			})
		}
	}
	return flags
}

// checkBudgetTimeline cautions when the declared budget cannot plausibly fund
// the declared pace.
func checkBudgetTimeline(p mission.Profile) []Flag {
	c := p.Calibration
	conflict := (c.BudgetCeiling == mission.BudgetMicro && c.Timeline == mission.TimelineImmediate) ||
		(c.BudgetCeiling == mission.BudgetSeed && c.Timeline == mission.TimelineImmediate)
	if !conflict {
		return nil
	}
	return []Flag{{
		Rule:       "budget_timeline",
		Severity:   SeverityCaution,
		Reason:     fmt.Sprintf("%s budget with %s timeline is unlikely to execute", c.BudgetCeiling, c.Timeline),
		Mitigation: "Extend the activation timeline or raise the budget ceiling",
	}}
}

// checkContext cautions when the mission is too thin to assess: no intent,
// no problem statement, and no declared capabilities.
func checkContext(p mission.Profile) []Flag {
	if strings.TrimSpace(p.StrategicIntent) != "" ||
		strings.TrimSpace(p.ProblemStatement) != "" ||
		len(p.Calibration.CapabilitiesHave) > 0 {
		return nil
	}
	return []Flag{{
		Rule:       "insufficient_context",
		Severity:   SeverityCaution,
		Reason:     "no strategic intent, problem statement, or capabilities supplied",
		Mitigation: "Describe the mission's intent or the problem it addresses",
	}}
}

const transparencyFloor = 35

func checkTransparency(spi scoring.Result) []Flag {
	v := spi.FactorValue(scoring.FactorUserTransparency)
	if v >= transparencyFloor {
		return nil
	}
	return []Flag{{
		Rule:       "transparency_deficit",
		Severity:   SeverityCaution,
		Reason:     fmt.Sprintf("intake completeness scored %d, below the %d floor", v, transparencyFloor),
		Mitigation: "Fill in the remaining intake fields to improve assessment quality",
	}}
}

const (
	alignmentBlockFloor   = 25
	alignmentCautionFloor = 40
)

func checkAlignment(spi scoring.Result) []Flag {
	v := spi.FactorValue(scoring.FactorEthicalAlignment)
	switch {
	case v < alignmentBlockFloor:
		return []Flag{{
			Rule:       "ethical_alignment",
			Severity:   SeverityBlock,
			Reason:     fmt.Sprintf("ethical alignment scored %d, below the %d block floor", v, alignmentBlockFloor),
			Mitigation: "Remove sensitive industries from the mission scope",
		}}
	case v < alignmentCautionFloor:
		return []Flag{{
			Rule:       "ethical_alignment",
			Severity:   SeverityCaution,
			Reason:     fmt.Sprintf("ethical alignment scored %d, below the %d caution floor", v, alignmentCautionFloor),
			Mitigation: "Reframe the mission around non-sensitive industries or add stewardship commitments",
		}}
	}
	return nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

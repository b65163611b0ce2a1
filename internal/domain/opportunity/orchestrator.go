package opportunity

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/region"
	"github.com/nexus-advisory/nexus-intelligence/pkg/nsil"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

// Details groups the three computed engines of a report.
type Details struct {
	LAIs []LAI      `json:"lais"`
	IVAS IVASResult `json:"ivas"`
	SCF  SCFResult  `json:"scf"`
}

// Result is the full output of one orchestration run.
type Result struct {
	Details    Details `json:"details"`
	NSILOutput string  `json:"nsil_output"`
}

// Options control report assembly.  Zero values are usable: a case id is
// generated, the mode defaults to Discovery, and Now defaults to the wall
// clock.
type Options struct {
	CaseID string
	Mode   string
	// Now pins the generation timestamp, for reproducible output.
	Now time.Time
}

// Overall-score weights and confidence buckets.
const (
	overallIVASWeight    = 0.7
	overallQuantumWeight = 0.3

	confidenceHighFloor   = 75
	confidenceMediumFloor = 45
)

// Roadmap stage shares of the activation window.
var roadmapStages = []struct {
	name       string
	share      float64
	milestones []string
	resources  []string
}{
	{
		name:       "Foundation",
		share:      0.25,
		milestones: []string{"Stakeholder mapping", "Regulatory clearance", "Site due diligence"},
		resources:  []string{"Legal counsel", "Local liaison"},
	},
	{
		name:       "Activation",
		share:      0.35,
		milestones: []string{"Capital deployment", "Anchor partnership signed", "First hires"},
		resources:  []string{"Project management office", "Recruitment partner"},
	},
	{
		name:       "Scale",
		share:      0.40,
		milestones: []string{"Second-phase expansion", "Supply chain integration", "Community program launch"},
		resources:  []string{"Operations team", "Regional investment fund"},
	},
}

// Orchestrate runs LAI extraction, IVAS, and SCF over a region profile and
// assembles the NSIL report.  It is total: an empty feature set produces an
// empty LAI list, zero-valued scores, and a minimal but well-formed document.
func Orchestrate(r region.Profile, opts Options) Result {
	if opts.CaseID == "" {
		opts.CaseID = string(common.NewID())
	}
	if opts.Mode == "" {
		opts.Mode = "Discovery"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	details := Details{
		LAIs: ExtractLAIs(r.RawFeatures),
		IVAS: ComputeIVAS(r),
		SCF:  ComputeSCF(r),
	}

	doc := &nsil.Document{
		Mode:      opts.Mode,
		Summary:   buildSummary(r, details),
		Scenarios: buildScenarios(r, details),
		Roadmap:   buildRoadmap(details),
		Meta: nsil.Metadata{
			CaseID:          opts.CaseID,
			GeneratedAt:     opts.Now,
			Version:         nsil.Version,
			ConfidenceLevel: confidenceLevel(details.IVAS.IVASScore),
		},
	}

	return Result{Details: details, NSILOutput: nsil.Marshal(doc)}
}

// OverallScore is the headline figure of the executive summary: the IVAS
// blended with the raw opportunity quantum.
func OverallScore(d Details) int {
	v := overallIVASWeight*float64(d.IVAS.IVASScore) +
		overallQuantumWeight*d.IVAS.Breakdown.OpportunityQuantum
	return clampInt(int(math.Round(v)), 0, 100)
}

func confidenceLevel(ivasScore int) string {
	switch {
	case ivasScore >= confidenceHighFloor:
		return nsil.ConfidenceHigh
	case ivasScore >= confidenceMediumFloor:
		return nsil.ConfidenceMedium
	default:
		return nsil.ConfidenceLow
	}
}

func buildSummary(r region.Profile, d Details) nsil.ExecutiveSummary {
	regionName := r.Name
	if regionName == "" {
		regionName = "the target region"
	}

	if len(d.LAIs) == 0 {
		return nsil.ExecutiveSummary{
			OverallScore:     OverallScore(d),
			KeyFindings:      []string{"No latent assets identified from the supplied region data"},
			StrategicOutlook: fmt.Sprintf("Insufficient feature data for %s; expand the regional survey before committing capital.", regionName),
		}
	}

	findings := []string{
		fmt.Sprintf("%d latent asset cluster(s) identified, led by %s", len(d.LAIs), d.LAIs[0].Title),
		fmt.Sprintf("Investment viability scored %d with an estimated %d-month activation window", d.IVAS.IVASScore, d.IVAS.ActivationMonths),
		fmt.Sprintf("Cascade forecast projects %d direct and %d indirect positions", d.SCF.DirectJobs, d.SCF.IndirectJobs),
	}
	outlook := fmt.Sprintf(
		"%s presents a %s-confidence activation corridor worth an estimated %s over the forecast horizon.",
		regionName,
		strings.ToLower(confidenceLevel(d.IVAS.IVASScore)),
		formatUSD(d.SCF.TotalEconomicImpactUSD),
	)
	return nsil.ExecutiveSummary{
		OverallScore:     OverallScore(d),
		KeyFindings:      findings,
		StrategicOutlook: outlook,
	}
}

// Scenario framings applied to the base forecast.
var scenarioFrames = []struct {
	name        string
	probability int
	impactScale float64
	advice      string
}{
	{"Optimistic", 25, 1.3, "Accelerate capital deployment to capture first-mover position"},
	{"Base", 50, 1.0, "Proceed on the modelled activation schedule with quarterly review gates"},
	{"Pessimistic", 25, 0.6, "Stage commitments behind verified milestones and retain exit optionality"},
}

func buildScenarios(r region.Profile, d Details) []nsil.Scenario {
	if len(d.LAIs) == 0 {
		return nil
	}

	drivers := d.LAIs[0].Components
	regionName := r.Name
	if regionName == "" {
		regionName = "the target region"
	}

	scenarios := make([]nsil.Scenario, 0, len(scenarioFrames))
	for _, frame := range scenarioFrames {
		impact := d.SCF.TotalEconomicImpactUSD * frame.impactScale
		scenarios = append(scenarios, nsil.Scenario{
			Name:        frame.name,
			Probability: frame.probability,
			Drivers:     drivers,
			RegionalImpact: fmt.Sprintf("Projected %s economic impact for %s",
				formatUSD(impact), regionName),
			Recommendation: frame.advice,
		})
	}
	return scenarios
}

func buildRoadmap(d Details) []nsil.Phase {
	months := d.IVAS.ActivationMonths
	if months <= 0 {
		return nil
	}

	capital := d.SCF.TotalEconomicImpactUSD
	phases := make([]nsil.Phase, 0, len(roadmapStages))
	for _, stage := range roadmapStages {
		duration := int(math.Round(float64(months) * stage.share))
		if duration < 1 {
			duration = 1
		}
		phases = append(phases, nsil.Phase{
			Name:       stage.name,
			Duration:   fmt.Sprintf("%d months", duration),
			Cost:       formatUSD(capital * stage.share),
			Milestones: stage.milestones,
			Resources:  stage.resources,
		})
	}
	return phases
}

// formatUSD renders a dollar figure in compact form: "$1.2M", "$850.0K",
// "$3.4B".
func formatUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

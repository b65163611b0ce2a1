package nsil

import (
	"fmt"
	"strings"
	"time"
)

// Marshal renders doc to the canonical NSIL wire text.  Output is fully
// deterministic for a given Document; optional blocks are omitted entirely
// rather than emitted empty.
//
// Text content is written verbatim.  NSIL readers are required to be lenient,
// so no XML escaping is applied; prose containing '&' or '<' survives the
// round trip as long as it does not spell out a known NSIL tag.
func Marshal(doc *Document) string {
	var b strings.Builder

	mode := doc.Mode
	if mode == "" {
		mode = "Discovery"
	}
	fmt.Fprintf(&b, "<analysis_report mode=%q>\n", mode)

	writeSummary(&b, doc.Summary)
	if doc.Match != nil {
		writeMatch(&b, doc.Match)
	}
	for i := range doc.Scenarios {
		writeScenario(&b, &doc.Scenarios[i])
	}
	if len(doc.Roadmap) > 0 {
		b.WriteString("  <implementation_roadmap>\n")
		for i := range doc.Roadmap {
			writePhase(&b, &doc.Roadmap[i])
		}
		b.WriteString("  </implementation_roadmap>\n")
	}
	writeMetadata(&b, doc.Meta)

	b.WriteString("</analysis_report>\n")
	return b.String()
}

func writeSummary(b *strings.Builder, s ExecutiveSummary) {
	b.WriteString("  <executive_summary>\n")
	fmt.Fprintf(b, "    <overall_score>%d</overall_score>\n", s.OverallScore)
	fmt.Fprintf(b, "    <key_findings>%s</key_findings>\n", strings.Join(s.KeyFindings, "; "))
	fmt.Fprintf(b, "    <strategic_outlook>%s</strategic_outlook>\n", s.StrategicOutlook)
	b.WriteString("  </executive_summary>\n")
}

func writeMatch(b *strings.Builder, m *MatchScore) {
	fmt.Fprintf(b, "  <match_score value=%q confidence=%q>\n", fmt.Sprintf("%d", m.Value), m.Confidence)
	fmt.Fprintf(b, "    <rationale>%s</rationale>\n", m.Rationale)
	b.WriteString("  </match_score>\n")
}

func writeScenario(b *strings.Builder, s *Scenario) {
	fmt.Fprintf(b, "  <scenario name=%q probability=%q>\n", s.Name, fmt.Sprintf("%d", s.Probability))
	fmt.Fprintf(b, "    <drivers>%s</drivers>\n", strings.Join(s.Drivers, ", "))
	fmt.Fprintf(b, "    <regional_impact>%s</regional_impact>\n", s.RegionalImpact)
	fmt.Fprintf(b, "    <recommendation>%s</recommendation>\n", s.Recommendation)
	b.WriteString("  </scenario>\n")
}

func writePhase(b *strings.Builder, p *Phase) {
	fmt.Fprintf(b, "    <phase name=%q duration=%q cost=%q>\n", p.Name, p.Duration, p.Cost)
	fmt.Fprintf(b, "      <milestones>%s</milestones>\n", strings.Join(p.Milestones, ", "))
	fmt.Fprintf(b, "      <resources>%s</resources>\n", strings.Join(p.Resources, ", "))
	b.WriteString("    </phase>\n")
}

func writeMetadata(b *strings.Builder, m Metadata) {
	version := m.Version
	if version == "" {
		version = Version
	}
	b.WriteString("  <metadata>\n")
	fmt.Fprintf(b, "    <case_id>%s</case_id>\n", m.CaseID)
	fmt.Fprintf(b, "    <generated_at>%s</generated_at>\n", m.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(b, "    <version>%s</version>\n", version)
	fmt.Fprintf(b, "    <confidence_level>%s</confidence_level>\n", m.ConfidenceLevel)
	b.WriteString("  </metadata>\n")
}

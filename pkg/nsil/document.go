// Package nsil implements the Nexus Strategic Intelligence Language, the
// tagged-text report format produced by the opportunity orchestrator and
// consumed by report viewers.
//
// NSIL looks like XML but is deliberately not parsed as XML: documents are
// assembled from computed values and free-form prose, so the reader must
// tolerate unescaped ampersands, missing sections, and unclosed tags.  The
// Writer emits a canonical document; Parse performs a lenient, tag-name-based
// extraction that never fails on malformed input.
package nsil

import "time"

// Version is the format revision stamped into every generated document.
const Version = "NSIL-2.1"

// Confidence buckets carried by match_score and metadata elements.
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)

// Document is the writer-side model.  The orchestrator populates it from
// computed results; Marshal renders it to the wire text.
type Document struct {
	// Mode is the free-form analysis mode label on the root element,
	// e.g. "Discovery".
	Mode string

	Summary   ExecutiveSummary
	Match     *MatchScore // omitted from output when nil
	Scenarios []Scenario
	Roadmap   []Phase
	Meta      Metadata
}

// ExecutiveSummary is the headline block of a report.
type ExecutiveSummary struct {
	OverallScore     int
	KeyFindings      []string
	StrategicOutlook string
}

// MatchScore is the optional partner-match block.
type MatchScore struct {
	Value      int
	Confidence string
	Rationale  string
}

// Scenario is one optimistic/base/pessimistic framing of the forecast.
type Scenario struct {
	Name           string
	Probability    int
	Drivers        []string
	RegionalImpact string
	Recommendation string
}

// Phase is one stage of the implementation roadmap.
type Phase struct {
	Name       string
	Duration   string
	Cost       string
	Milestones []string
	Resources  []string
}

// Metadata is the trailing provenance block.
type Metadata struct {
	CaseID          string
	GeneratedAt     time.Time
	Version         string
	ConfidenceLevel string
}

// RenderModel is the parser-side view model consumed by report renderers.
// Pointer fields are nil when the corresponding element is absent; slice
// fields are empty, never nil-checked by callers.
type RenderModel struct {
	Mode             string         `json:"mode"`
	Score            *int           `json:"score"`
	KeyFindings      []string       `json:"key_findings"`
	StrategicOutlook string         `json:"strategic_outlook"`
	MatchValue       *int           `json:"match_value"`
	MatchConfidence  string         `json:"match_confidence,omitempty"`
	MatchRationale   string         `json:"match_rationale,omitempty"`
	Scenarios        []ScenarioView `json:"scenarios"`
	Phases           []PhaseView    `json:"phases"`
	Meta             *MetadataView  `json:"metadata"`
}

// Empty reports whether the document carried no usable score data.  Callers
// render a waiting state for empty models, not an error state.
func (m *RenderModel) Empty() bool {
	return m.Score == nil && m.MatchValue == nil
}

// ScenarioView is the parsed form of a scenario element.
type ScenarioView struct {
	Name           string   `json:"name"`
	Probability    *int     `json:"probability"`
	Drivers        []string `json:"drivers"`
	RegionalImpact string   `json:"regional_impact"`
	Recommendation string   `json:"recommendation"`
}

// PhaseView is the parsed form of a roadmap phase element.
type PhaseView struct {
	Name       string   `json:"name"`
	Duration   string   `json:"duration"`
	Cost       string   `json:"cost"`
	Milestones []string `json:"milestones"`
	Resources  []string `json:"resources"`
}

// MetadataView is the parsed form of the metadata element.  GeneratedAt is
// kept as the raw string; hand-assembled documents may carry timestamps the
// strict ISO-8601 parser would reject.
type MetadataView struct {
	CaseID          string `json:"case_id"`
	GeneratedAt     string `json:"generated_at"`
	Version         string `json:"version"`
	ConfidenceLevel string `json:"confidence_level"`
}

package nsil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BareRoot(t *testing.T) {
	m := Parse(`<analysis_report mode="Discovery"></analysis_report>`)

	assert.Equal(t, "Discovery", m.Mode)
	assert.Nil(t, m.Score)
	assert.Nil(t, m.MatchValue)
	assert.Empty(t, m.Scenarios)
	assert.Empty(t, m.Phases)
	assert.Nil(t, m.Meta)
	assert.True(t, m.Empty())
}

func TestParse_EmptyInput(t *testing.T) {
	m := Parse("")
	assert.True(t, m.Empty())
	assert.Empty(t, m.Scenarios)
	assert.Empty(t, m.Phases)
}

func TestParse_GarbageInput(t *testing.T) {
	m := Parse("not nsil at all <<<>>> &&& </closing_without_open>")
	assert.True(t, m.Empty())
}

func TestParse_ExecutiveSummary(t *testing.T) {
	doc := `<analysis_report mode="Discovery">
  <executive_summary>
    <overall_score>72</overall_score>
    <key_findings>Port capacity is underused; Skilled labor pool is deep; R&D grants available</key_findings>
    <strategic_outlook>Favorable entry conditions over the next two quarters.</strategic_outlook>
  </executive_summary>
</analysis_report>`

	m := Parse(doc)
	require.NotNil(t, m.Score)
	assert.Equal(t, 72, *m.Score)
	assert.Equal(t, []string{
		"Port capacity is underused",
		"Skilled labor pool is deep",
		"R&D grants available",
	}, m.KeyFindings)
	assert.Equal(t, "Favorable entry conditions over the next two quarters.", m.StrategicOutlook)
	assert.False(t, m.Empty())
}

func TestParse_UnescapedAmpersand(t *testing.T) {
	doc := `<analysis_report mode="Discovery">
  <executive_summary>
    <overall_score>51</overall_score>
    <strategic_outlook>Supply & demand are balanced; margins < historical norms.</strategic_outlook>
  </executive_summary>
</analysis_report>`

	m := Parse(doc)
	require.NotNil(t, m.Score)
	assert.Equal(t, 51, *m.Score)
	assert.Equal(t, "Supply & demand are balanced; margins < historical norms.", m.StrategicOutlook)
}

func TestParse_MatchScore(t *testing.T) {
	doc := `<analysis_report mode="Partnering">
  <match_score value="64" confidence="Medium">
    <rationale>Capability overlap on logistics and cold chain.</rationale>
  </match_score>
</analysis_report>`

	m := Parse(doc)
	require.NotNil(t, m.MatchValue)
	assert.Equal(t, 64, *m.MatchValue)
	assert.Equal(t, "Medium", m.MatchConfidence)
	assert.Equal(t, "Capability overlap on logistics and cold chain.", m.MatchRationale)
	assert.Nil(t, m.Score)
	assert.False(t, m.Empty())
}

func TestParse_Scenarios(t *testing.T) {
	doc := `<analysis_report mode="Discovery">
  <scenario name="Optimistic" probability="25">
    <drivers>Port Access, Skilled Labor</drivers>
    <regional_impact>Accelerated employment growth.</regional_impact>
    <recommendation>Commit anchor capital early.</recommendation>
  </scenario>
  <scenario name="Base" probability="50">
    <drivers>Port Access</drivers>
    <regional_impact>Steady expansion.</regional_impact>
    <recommendation>Phase investment against milestones.</recommendation>
  </scenario>
</analysis_report>`

	m := Parse(doc)
	require.Len(t, m.Scenarios, 2)

	assert.Equal(t, "Optimistic", m.Scenarios[0].Name)
	require.NotNil(t, m.Scenarios[0].Probability)
	assert.Equal(t, 25, *m.Scenarios[0].Probability)
	assert.Equal(t, []string{"Port Access", "Skilled Labor"}, m.Scenarios[0].Drivers)
	assert.Equal(t, "Phase investment against milestones.", m.Scenarios[1].Recommendation)
}

func TestParse_Roadmap(t *testing.T) {
	doc := `<analysis_report mode="Discovery">
  <implementation_roadmap>
    <phase name="Foundation" duration="2 months" cost="$350K">
      <milestones>Entity setup, Local partner MOU</milestones>
      <resources>Legal counsel, Country manager</resources>
    </phase>
    <phase name="Activation" duration="3 months" cost="$1.1M">
      <milestones>Pilot launch</milestones>
      <resources>Operations team</resources>
    </phase>
  </implementation_roadmap>
</analysis_report>`

	m := Parse(doc)
	require.Len(t, m.Phases, 2)
	assert.Equal(t, "Foundation", m.Phases[0].Name)
	assert.Equal(t, "2 months", m.Phases[0].Duration)
	assert.Equal(t, "$350K", m.Phases[0].Cost)
	assert.Equal(t, []string{"Entity setup", "Local partner MOU"}, m.Phases[0].Milestones)
	assert.Equal(t, []string{"Operations team"}, m.Phases[1].Resources)
}

func TestParse_Metadata(t *testing.T) {
	doc := `<analysis_report mode="Discovery">
  <metadata>
    <case_id>b8e7f7a0-1111-4222-8333-444455556666</case_id>
    <generated_at>2026-08-28T10:00:00Z</generated_at>
    <version>NSIL-2.1</version>
    <confidence_level>High</confidence_level>
  </metadata>
</analysis_report>`

	m := Parse(doc)
	require.NotNil(t, m.Meta)
	assert.Equal(t, "b8e7f7a0-1111-4222-8333-444455556666", m.Meta.CaseID)
	assert.Equal(t, "2026-08-28T10:00:00Z", m.Meta.GeneratedAt)
	assert.Equal(t, "NSIL-2.1", m.Meta.Version)
	assert.Equal(t, "High", m.Meta.ConfidenceLevel)
}

func TestParse_UnclosedTags(t *testing.T) {
	// Truncated document: root and summary never close.
	doc := `<analysis_report mode="Discovery">
  <executive_summary>
    <overall_score>40</overall_score>
    <strategic_outlook>Partial data only`

	m := Parse(doc)
	require.NotNil(t, m.Score)
	assert.Equal(t, 40, *m.Score)
	assert.Equal(t, "Partial data only", m.StrategicOutlook)
}

func TestParse_SummaryFieldsWithoutSummaryBlock(t *testing.T) {
	// Lenient extraction is tag-name based, not positional.
	doc := `<analysis_report mode="Discovery"><overall_score>33</overall_score></analysis_report>`
	m := Parse(doc)
	require.NotNil(t, m.Score)
	assert.Equal(t, 33, *m.Score)
}

func TestParse_SingleQuotedAndDecoratedAttrs(t *testing.T) {
	doc := `<analysis_report mode='Deep Dive'>
  <match_score value="58%" confidence='Low'></match_score>
</analysis_report>`

	m := Parse(doc)
	assert.Equal(t, "Deep Dive", m.Mode)
	require.NotNil(t, m.MatchValue)
	assert.Equal(t, 58, *m.MatchValue)
	assert.Equal(t, "Low", m.MatchConfidence)
}

func TestParse_TagNamePrefixNotConfused(t *testing.T) {
	// <scenarios> must not be mistaken for a <scenario> element.
	doc := `<analysis_report mode="Discovery">
  <scenarios>ignored wrapper</scenarios>
  <scenario name="Base" probability="60"><drivers>X</drivers></scenario>
</analysis_report>`

	m := Parse(doc)
	require.Len(t, m.Scenarios, 1)
	assert.Equal(t, "Base", m.Scenarios[0].Name)
}

func TestParseIntPtr(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"42", intPtr(42)},
		{" 42 ", intPtr(42)},
		{"42%", intPtr(42)},
		{"-7", intPtr(-7)},
		{"", nil},
		{"n/a", nil},
	}
	for _, tt := range tests {
		got := parseIntPtr(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
		} else {
			require.NotNil(t, got, "input %q", tt.in)
			assert.Equal(t, *tt.want, *got, "input %q", tt.in)
		}
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a; b;", ";"))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b", ","))
	assert.Empty(t, splitList("   ", ";"))
	assert.Empty(t, splitList("", ","))
}

func intPtr(n int) *int { return &n }

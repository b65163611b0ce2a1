package nsil

import (
	"strings"
)

// Parse extracts a RenderModel from NSIL text.  It is a best-effort,
// tag-name-based scan: sections may appear in any order, any section may be
// missing, tags may be left unclosed, and text content may contain characters
// a strict XML parser would reject.  Parse never fails; the worst outcome is
// an empty model (see RenderModel.Empty).
func Parse(text string) *RenderModel {
	m := &RenderModel{
		KeyFindings: []string{},
		Scenarios:   []ScenarioView{},
		Phases:      []PhaseView{},
	}

	scope := text
	if root, ok := findFirst(text, "analysis_report"); ok {
		m.Mode = root.attrs["mode"]
		scope = root.inner
	}

	// Executive summary.  The child elements are looked up inside the summary
	// block when one exists, and against the whole document otherwise, so that
	// partially assembled reports still surface whatever they carry.
	sumScope := scope
	if sum, ok := findFirst(scope, "executive_summary"); ok {
		sumScope = sum.inner
	}
	if v := childText(sumScope, "overall_score"); v != "" {
		m.Score = parseIntPtr(v)
	}
	if v := childText(sumScope, "key_findings"); v != "" {
		m.KeyFindings = splitList(v, ";")
	}
	m.StrategicOutlook = childText(sumScope, "strategic_outlook")

	// Match score.
	if match, ok := findFirst(scope, "match_score"); ok {
		m.MatchValue = parseIntPtr(match.attrs["value"])
		m.MatchConfidence = match.attrs["confidence"]
		m.MatchRationale = childText(match.inner, "rationale")
	}

	// Scenarios.
	for _, el := range findAll(scope, "scenario") {
		m.Scenarios = append(m.Scenarios, ScenarioView{
			Name:           el.attrs["name"],
			Probability:    parseIntPtr(el.attrs["probability"]),
			Drivers:        splitList(childText(el.inner, "drivers"), ","),
			RegionalImpact: childText(el.inner, "regional_impact"),
			Recommendation: childText(el.inner, "recommendation"),
		})
	}

	// Roadmap phases.  Preferred location is inside implementation_roadmap,
	// but stray phase elements are accepted anywhere.
	phaseScope := scope
	if roadmap, ok := findFirst(scope, "implementation_roadmap"); ok {
		phaseScope = roadmap.inner
	}
	for _, el := range findAll(phaseScope, "phase") {
		m.Phases = append(m.Phases, PhaseView{
			Name:       el.attrs["name"],
			Duration:   el.attrs["duration"],
			Cost:       el.attrs["cost"],
			Milestones: splitList(childText(el.inner, "milestones"), ","),
			Resources:  splitList(childText(el.inner, "resources"), ","),
		})
	}

	// Metadata.
	if meta, ok := findFirst(scope, "metadata"); ok {
		m.Meta = &MetadataView{
			CaseID:          childText(meta.inner, "case_id"),
			GeneratedAt:     childText(meta.inner, "generated_at"),
			Version:         childText(meta.inner, "version"),
			ConfidenceLevel: childText(meta.inner, "confidence_level"),
		}
	}

	return m
}

// element is one extracted tagged section.
type element struct {
	attrs map[string]string
	inner string
}

// findFirst returns the first occurrence of <tag ...>...</tag> in s.
func findFirst(s, tag string) (element, bool) {
	els := scan(s, tag, 1)
	if len(els) == 0 {
		return element{}, false
	}
	return els[0], true
}

// findAll returns every occurrence of <tag ...>...</tag> in s.
func findAll(s, tag string) []element {
	return scan(s, tag, -1)
}

// scan walks s collecting up to limit elements named tag (limit < 0 means
// unbounded).  An element with no closing tag consumes the remainder of the
// input; an element whose open tag never terminates is skipped.
func scan(s, tag string, limit int) []element {
	var out []element
	open := "<" + tag
	pos := 0
	for limit < 0 || len(out) < limit {
		idx := strings.Index(s[pos:], open)
		if idx < 0 {
			break
		}
		idx += pos
		after := idx + len(open)
		if after < len(s) && !isTagBoundary(s[after]) {
			// Prefix of a longer tag name, e.g. <scenario vs <scenarios.
			pos = after
			continue
		}
		gt := strings.IndexByte(s[after:], '>')
		if gt < 0 {
			break
		}
		gt += after

		el := element{attrs: parseAttrs(s[after:gt])}
		if gt > 0 && s[gt-1] == '/' {
			// Self-closing.
			out = append(out, el)
			pos = gt + 1
			continue
		}

		innerStart := gt + 1
		closeIdx := strings.Index(s[innerStart:], "</"+tag)
		if closeIdx < 0 {
			el.inner = s[innerStart:]
			out = append(out, el)
			break
		}
		closeIdx += innerStart
		el.inner = s[innerStart:closeIdx]
		out = append(out, el)

		pos = closeIdx + len("</"+tag)
		if end := strings.IndexByte(s[pos:], '>'); end >= 0 {
			pos += end + 1
		}
	}
	return out
}

func isTagBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

// parseAttrs extracts key="value" pairs from the text between a tag name and
// its closing '>'.  Single quotes, double quotes, and bare values are all
// accepted; an unterminated quote swallows the rest of the input.
func parseAttrs(s string) map[string]string {
	attrs := map[string]string{}
	i := 0
	for i < len(s) {
		// Skip separators.
		for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == '/') {
			i++
		}
		if i >= len(s) {
			break
		}
		keyStart := i
		for i < len(s) && s[i] != '=' && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		key := s[keyStart:i]
		if i >= len(s) || s[i] != '=' {
			// Bare attribute without a value.
			if key != "" {
				attrs[key] = ""
			}
			continue
		}
		i++ // consume '='
		if i >= len(s) {
			attrs[key] = ""
			break
		}
		var val string
		if q := s[i]; q == '"' || q == '\'' {
			i++
			end := strings.IndexByte(s[i:], q)
			if end < 0 {
				val = s[i:]
				i = len(s)
			} else {
				val = s[i : i+end]
				i += end + 1
			}
		} else {
			end := i
			for end < len(s) && s[end] != ' ' && s[end] != '\t' {
				end++
			}
			val = s[i:end]
			i = end
		}
		attrs[key] = val
	}
	return attrs
}

// childText returns the trimmed inner text of the first tag element in scope,
// or "" when absent.
func childText(scope, tag string) string {
	el, ok := findFirst(scope, tag)
	if !ok {
		return ""
	}
	return strings.TrimSpace(el.inner)
}

// splitList splits s on any rune in seps, trimming whitespace and dropping
// empty entries.
func splitList(s, seps string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parseIntPtr extracts a leading integer from s, tolerating surrounding
// whitespace and trailing decorations such as '%'.  Returns nil when no
// integer is present.
func parseIntPtr(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i = 1
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return nil
	}
	n := 0
	for _, c := range s[start:i] {
		n = n*10 + int(c-'0')
	}
	if s[0] == '-' {
		n = -n
	}
	return &n
}

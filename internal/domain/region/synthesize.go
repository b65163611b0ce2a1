package region

import (
	"sort"
	"strings"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
)

// Macro defaults applied when the caller supplies no figures for the region.
const (
	DefaultPopulation int64   = 250_000
	DefaultGDP        float64 = 8e9
)

// industryFeatures maps a declared industry to the latent regional assets it
// tends to activate.  Values are fixed so synthesis stays deterministic;
// rarity and relevance sit on the 0-10 feature scale.
var industryFeatures = map[string][]Feature{
	"logistics": {
		{Name: "Deepwater port access", RarityScore: 7, RelevanceScore: 9, MarketProxy: 1.4e9},
		{Name: "Intermodal rail corridor", RarityScore: 6, RelevanceScore: 8, MarketProxy: 9.5e8},
		{Name: "Bonded warehouse capacity", RarityScore: 5, RelevanceScore: 7, MarketProxy: 4.2e8},
	},
	"agriculture": {
		{Name: "Irrigated arable belt", RarityScore: 7, RelevanceScore: 9, MarketProxy: 1.1e9},
		{Name: "Cold chain processing hubs", RarityScore: 7, RelevanceScore: 8, MarketProxy: 6.8e8},
		{Name: "Agronomy research station", RarityScore: 6, RelevanceScore: 7, MarketProxy: 2.4e8},
	},
	"manufacturing": {
		{Name: "Industrial estate with grid headroom", RarityScore: 6, RelevanceScore: 9, MarketProxy: 1.6e9},
		{Name: "Certified metal fabrication cluster", RarityScore: 6, RelevanceScore: 8, MarketProxy: 7.3e8},
		{Name: "Vocational trades pipeline", RarityScore: 5, RelevanceScore: 7, MarketProxy: 3.1e8},
	},
	"technology": {
		{Name: "Fibre backbone with spare capacity", RarityScore: 6, RelevanceScore: 9, MarketProxy: 8.9e8},
		{Name: "University computing faculty", RarityScore: 7, RelevanceScore: 8, MarketProxy: 5.2e8},
		{Name: "Startup incubation precinct", RarityScore: 5, RelevanceScore: 7, MarketProxy: 2.7e8},
	},
	"tourism": {
		{Name: "Heritage waterfront precinct", RarityScore: 7, RelevanceScore: 8, MarketProxy: 6.1e8},
		{Name: "Regional airport with spare slots", RarityScore: 6, RelevanceScore: 7, MarketProxy: 4.4e8},
		{Name: "Event-grade venue stock", RarityScore: 5, RelevanceScore: 6, MarketProxy: 1.9e8},
	},
	"energy": {
		{Name: "High-yield renewables corridor", RarityScore: 8, RelevanceScore: 9, MarketProxy: 2.2e9},
		{Name: "Transmission substation headroom", RarityScore: 7, RelevanceScore: 8, MarketProxy: 1.3e9},
		{Name: "Legacy generation workforce", RarityScore: 6, RelevanceScore: 7, MarketProxy: 5.6e8},
	},
	"healthcare": {
		{Name: "Regional referral hospital", RarityScore: 7, RelevanceScore: 9, MarketProxy: 9.8e8},
		{Name: "Allied health training campus", RarityScore: 6, RelevanceScore: 8, MarketProxy: 4.7e8},
		{Name: "Aged-care demand catchment", RarityScore: 5, RelevanceScore: 7, MarketProxy: 3.6e8},
	},
	"education": {
		{Name: "Accredited tertiary campus", RarityScore: 7, RelevanceScore: 8, MarketProxy: 7.9e8},
		{Name: "International student pipeline", RarityScore: 6, RelevanceScore: 8, MarketProxy: 5.1e8},
		{Name: "Trade certification authority", RarityScore: 5, RelevanceScore: 7, MarketProxy: 2.2e8},
	},
}

// genericFeatures back unknown industries so synthesis is total.
var genericFeatures = []Feature{
	{Name: "Serviced land bank", RarityScore: 6, RelevanceScore: 7, MarketProxy: 5.0e8},
	{Name: "Local government co-investment fund", RarityScore: 6, RelevanceScore: 6, MarketProxy: 3.0e8},
}

// Synthesize builds a deterministic region profile from the mission's target
// region and industries.  Duplicate features (two industries activating the
// same asset) are deduplicated by name, first occurrence wins.  With no
// industries declared it returns macro defaults and an empty feature set.
func Synthesize(p mission.Profile) Profile {
	name := strings.TrimSpace(p.TargetRegion)
	prof := Profile{
		ID:          regionID(name),
		Name:        name,
		Country:     strings.TrimSpace(p.Country),
		Population:  DefaultPopulation,
		GDP:         DefaultGDP,
		RawFeatures: []Feature{},
	}

	seen := map[string]bool{}
	for _, ind := range p.TargetIndustries {
		key := strings.ToLower(strings.TrimSpace(ind))
		feats, ok := industryFeatures[key]
		if !ok {
			feats = genericFeatures
		}
		for _, f := range feats {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			prof.RawFeatures = append(prof.RawFeatures, f)
		}
	}

	// Stable presentation order regardless of industry declaration order.
	sort.SliceStable(prof.RawFeatures, func(i, j int) bool {
		a, b := prof.RawFeatures[i], prof.RawFeatures[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return a.Name < b.Name
	})
	return prof
}

// regionID derives a stable slug identifier from the region name, so the
// same mission always maps to the same region id.
func regionID(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "region-unspecified"
	}
	return "region-" + slug
}

// Package opportunity implements the opportunity orchestrator: latent asset
// identification (LAI), the investment viability assessment score (IVAS), the
// symbiotic cascade forecast (SCF), and their assembly into an NSIL report.
// Every function here is pure; the orchestrator is total over any
// syntactically valid region profile.
package opportunity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/region"
)

// LAI is one cluster of correlated high-value regional features, named and
// described for presentation.
type LAI struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Components  []string `json:"components"`
}

const (
	// laiTopN caps how many features feed clustering.
	laiTopN = 5
	// laiClusterSize caps features per cluster.
	laiClusterSize = 3
)

// synergy is the ranking key for feature selection.
func synergy(f region.Feature) int {
	return f.RarityScore * f.RelevanceScore
}

// ExtractLAIs ranks features by synergy and chunks the top candidates into
// clusters.  Ordering is fully deterministic: synergy descending, then
// marketProxy descending, then name ascending.  An empty feature set yields
// an empty (non-nil) slice.
func ExtractLAIs(features []region.Feature) []LAI {
	ranked := make([]region.Feature, len(features))
	copy(ranked, features)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := synergy(ranked[i]), synergy(ranked[j])
		if si != sj {
			return si > sj
		}
		if ranked[i].MarketProxy != ranked[j].MarketProxy {
			return ranked[i].MarketProxy > ranked[j].MarketProxy
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > laiTopN {
		ranked = ranked[:laiTopN]
	}

	lais := []LAI{}
	for start := 0; start < len(ranked); start += laiClusterSize {
		end := start + laiClusterSize
		if end > len(ranked) {
			end = len(ranked)
		}
		cluster := ranked[start:end]

		names := make([]string, len(cluster))
		for i, f := range cluster {
			names[i] = f.Name
		}
		lais = append(lais, LAI{
			Title:       clusterTitle(names),
			Description: clusterDescription(names),
			Components:  names,
		})
	}
	return lais
}

func clusterTitle(names []string) string {
	if len(names) == 1 {
		return names[0] + " Activation"
	}
	return names[0] + " Convergence"
}

func clusterDescription(names []string) string {
	if len(names) == 1 {
		return fmt.Sprintf("Standalone opportunity anchored on %s.", names[0])
	}
	return fmt.Sprintf("Correlated opportunity linking %s.", joinNatural(names))
}

// joinNatural renders ["a","b","c"] as "a, b and c".
func joinNatural(names []string) string {
	if len(names) == 0 {
		return ""
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

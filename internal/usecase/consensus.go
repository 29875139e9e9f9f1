package usecase

import (
	"fmt"
	"sort"
	"strings"

	"usem/internal/adapter/analyzer"
	"usem/internal/domain"
)

// translationGroup collects the sources agreeing on one translation.
// Grouping folds diacritics and case so "tịre" and "tire" count as the same
// answer; Display keeps the verbatim string from the first source in the
// group.
type translationGroup struct {
	Display string
	Sources []string
}

// reconcile groups found results by normalized translation and computes the
// cross-source consensus. The returned notes list which sources support
// which answer; that audit trail matters for debuggability, not just the
// final pick.
func reconcile(norm *analyzer.Normalizer, results []domain.SourceResult) (consensus float64, conflicting bool, notes []string) {
	groups := make(map[string]*translationGroup)
	var order []string
	totalFound := 0

	for _, r := range results {
		if !r.Found {
			continue
		}
		totalFound++
		key := analyzer.FoldDiacritics(norm.Normalize(r.Translation))
		g, ok := groups[key]
		if !ok {
			g = &translationGroup{Display: r.Translation}
			groups[key] = g
			order = append(order, key)
		}
		g.Sources = append(g.Sources, r.Source)
	}

	if totalFound == 0 {
		return 0, false, nil
	}

	largest := 0
	for _, g := range groups {
		if len(g.Sources) > largest {
			largest = len(g.Sources)
		}
	}
	consensus = 100 * float64(largest) / float64(totalFound)
	conflicting = len(groups) > 1

	// Largest group first, insertion order as tiebreak.
	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]].Sources) > len(groups[order[j]].Sources)
	})
	if conflicting {
		for _, key := range order {
			g := groups[key]
			notes = append(notes, fmt.Sprintf("%q supported by %s", g.Display, strings.Join(g.Sources, ", ")))
		}
	}
	return consensus, conflicting, notes
}

// selectPrimary picks the winning source result by raw confidence weighted
// with the per-source trust factor. Returns the index into results, or -1
// when nothing was found.
func selectPrimary(results []domain.SourceResult, trust map[string]float64) int {
	best := -1
	bestScore := -1.0
	for i, r := range results {
		if !r.Found {
			continue
		}
		w, ok := trust[r.Source]
		if !ok {
			w = 0.5
		}
		score := r.Confidence * w
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

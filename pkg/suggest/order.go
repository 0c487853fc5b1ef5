package suggest

import (
	"sort"
	"strings"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

// Order sorts suggestions in place into the final priority order:
// security-related first (highest risk leading), then blocking suggestions
// (missing or broken packages), then ascending risk, then a fixed kind
// priority, then an impact score rewarding low-effort, low-surprise fixes.
// The sort is stable, so generation order breaks remaining ties.
func Order(suggestions []deps.FixSuggestion) {
	keys := make([]sortKey, len(suggestions))
	for i, s := range suggestions {
		keys[i] = keyFor(s)
	}
	idx := make([]int, len(suggestions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].less(keys[idx[b]])
	})
	sorted := make([]deps.FixSuggestion, len(suggestions))
	for i, j := range idx {
		sorted[i] = suggestions[j]
	}
	copy(suggestions, sorted)
}

type sortKey struct {
	security     bool
	blocking     bool
	riskRank     int
	kindPriority int
	impactScore  int
}

func (a sortKey) less(b sortKey) bool {
	if a.security != b.security {
		return a.security
	}
	if a.security && b.security && a.riskRank != b.riskRank {
		return a.riskRank > b.riskRank
	}
	if a.blocking != b.blocking {
		return a.blocking
	}
	if a.riskRank != b.riskRank {
		return a.riskRank < b.riskRank
	}
	if a.kindPriority != b.kindPriority {
		return a.kindPriority < b.kindPriority
	}
	return a.impactScore < b.impactScore
}

func keyFor(s deps.FixSuggestion) sortKey {
	text := strings.ToLower(s.Description + " " + s.EstimatedImpact)
	return sortKey{
		security:     containsAny(text, "security", "vulnerability", "cve-", "advisory"),
		blocking:     s.Kind == deps.SuggestInstallMissing || containsAny(text, "missing", "broken", "corrupt"),
		riskRank:     s.Risk.Rank(),
		kindPriority: kindPriority(s.Kind),
		impactScore:  impactScore(s, text),
	}
}

func kindPriority(k deps.SuggestionKind) int {
	switch k {
	case deps.SuggestInstallMissing:
		return 0
	case deps.SuggestResolveConflict:
		return 1
	case deps.SuggestUpdateOutdated:
		return 2
	case deps.SuggestRegenerateLockfile:
		return 3
	default:
		return 4
	}
}

// impactScore penalizes suggestions needing manual work, multiple actions,
// or carrying breaking-change language, and rewards explicitly low-risk,
// backward-compatible ones. Lower sorts earlier.
func impactScore(s deps.FixSuggestion, text string) int {
	score := 0
	if strings.Contains(text, "manual") {
		score += 2
	}
	if len(s.Actions) > 1 {
		score++
	}
	if strings.Contains(text, "breaking") {
		score += 2
	}
	if containsAny(text, "low-risk", "backward compatible") {
		score--
	}
	return score
}

func containsAny(text string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

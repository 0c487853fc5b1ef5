package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

func plainSuggestion(kind deps.SuggestionKind, risk deps.RiskLevel, desc, impact string) deps.FixSuggestion {
	return deps.FixSuggestion{
		Kind:            kind,
		Description:     desc,
		Risk:            risk,
		Actions:         []deps.FixAction{{Kind: deps.ActionUpdate, Package: "p", Version: "1.0.0"}},
		EstimatedImpact: impact,
	}
}

func TestOrder_SecurityFirst(t *testing.T) {
	s := []deps.FixSuggestion{
		plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskLow, "Update a from 1.0.0 to 1.0.1", "bug fixes only"),
		plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskMedium, "Update b to fix security vulnerability GHSA-1", "fixes known security vulnerability"),
		plainSuggestion(deps.SuggestInstallMissing, deps.RiskLow, "Install missing dependency c", "restores a package the project requires"),
		plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskCritical, "Update d to fix security vulnerability GHSA-2", "fixes known security vulnerability"),
	}
	Order(s)

	assert.Contains(t, s[0].Description, "GHSA-2", "highest-risk security suggestion leads")
	assert.Contains(t, s[1].Description, "GHSA-1")
	assert.Contains(t, s[2].Description, "missing dependency c", "blocking beats non-blocking")
	assert.Contains(t, s[3].Description, "Update a")
}

func TestOrder_RiskAscendingAmongOrdinary(t *testing.T) {
	s := []deps.FixSuggestion{
		plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskHigh, "Update x from 1.0.0 to 2.0.0", "new major"),
		plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskLow, "Update x from 1.0.0 to 1.0.1", "patch"),
		plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskMedium, "Update x from 1.0.0 to 1.8.0", "minor"),
	}
	Order(s)
	require.Len(t, s, 3)
	assert.Equal(t, deps.RiskLow, s[0].Risk)
	assert.Equal(t, deps.RiskMedium, s[1].Risk)
	assert.Equal(t, deps.RiskHigh, s[2].Risk)
}

func TestOrder_KindPriorityBreaksRiskTies(t *testing.T) {
	s := []deps.FixSuggestion{
		plainSuggestion(deps.SuggestRegenerateLockfile, deps.RiskLow, "Regenerate the lockfile", "rebuilds the lockfile"),
		plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskLow, "Update y from 1.0.0 to 1.0.2", "bug fixes only"),
		plainSuggestion(deps.SuggestResolveConflict, deps.RiskLow, "Align the requirement for z", "low-risk manifest change"),
	}
	Order(s)
	assert.Equal(t, deps.SuggestResolveConflict, s[0].Kind)
	assert.Equal(t, deps.SuggestUpdateOutdated, s[1].Kind)
	assert.Equal(t, deps.SuggestRegenerateLockfile, s[2].Kind)
}

func TestOrder_ImpactScorePenalizesManualWork(t *testing.T) {
	manual := plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskLow, "Update m from 1.0.0 to 1.0.1", "requires manual review")
	easy := plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskLow, "Update n from 1.0.0 to 1.0.1", "low-risk, backward compatible")

	s := []deps.FixSuggestion{manual, easy}
	Order(s)
	assert.Contains(t, s[0].Description, "Update n")

	// Stability: equal keys keep insertion order.
	a := plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskLow, "Update p from 1.0.0 to 1.0.1", "bug fixes only")
	b := plainSuggestion(deps.SuggestUpdateOutdated, deps.RiskLow, "Update q from 1.0.0 to 1.0.1", "bug fixes only")
	s = []deps.FixSuggestion{a, b}
	Order(s)
	assert.Contains(t, s[0].Description, "Update p")
}

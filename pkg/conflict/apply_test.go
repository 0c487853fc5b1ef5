package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

func resolution(strategy deps.Strategy, risk deps.RiskLevel, changes ...deps.PackageChange) deps.Resolution {
	r := deps.Resolution{
		Strategy:    strategy,
		Changes:     changes,
		Explanation: "test resolution",
		Risk:        deps.RiskAssessment{Level: risk},
	}
	if risk.Rank() > deps.RiskLow.Rank() {
		r.Risk.Mitigations = standardMitigations
	}
	return r
}

func update(pkg, from, to string) deps.PackageChange {
	return deps.PackageChange{Package: pkg, FromVersion: from, ToVersion: to, Type: deps.ChangeUpdate}
}

func TestApplyResolutions_OrdersByRiskFirst(t *testing.T) {
	risky := resolution(deps.StrategyUpdateToCompatible, deps.RiskHigh, update("a", "1.0.0", "3.0.0"))
	safe := resolution(deps.StrategyUpdateToCompatible, deps.RiskLow, update("b", "1.0.0", "1.1.0"))

	report := ApplyResolutions([]deps.Resolution{risky, safe})
	require.Len(t, report.Applied, 2)
	assert.Equal(t, "b", report.Applied[0].Changes[0].Package, "low risk applies first")
	assert.Equal(t, "a", report.Applied[1].Changes[0].Package)
}

func TestApplyResolutions_RejectsIncompatiblePin(t *testing.T) {
	first := resolution(deps.StrategyUpdateToCompatible, deps.RiskLow, update("react", "16.0.0", "16.8.0"))
	second := resolution(deps.StrategyUpdateToCompatible, deps.RiskMedium, update("react", "16.0.0", "17.0.0"))

	report := ApplyResolutions([]deps.Resolution{first, second})
	require.Len(t, report.Applied, 1)
	assert.Equal(t, "16.8.0", report.Applied[0].Changes[0].ToVersion)
	require.Len(t, report.Failed, 1)
	require.Len(t, report.CompatibilityIssues, 1)
	assert.Contains(t, report.CompatibilityIssues[0], "react")
	assert.Contains(t, report.CompatibilityIssues[0], "already pinned")
}

func TestApplyResolutions_SameMajorPinAccepted(t *testing.T) {
	first := resolution(deps.StrategyUpdateToCompatible, deps.RiskLow, update("lodash", "4.17.0", "4.17.20"))
	second := resolution(deps.StrategyUpdateToCompatible, deps.RiskLow, update("lodash", "4.17.0", "4.17.21"))

	report := ApplyResolutions([]deps.Resolution{first, second})
	assert.Len(t, report.Applied, 2, "same-major re-pins are compatible")
	assert.Empty(t, report.Failed)
}

func TestApplyResolutions_RejectsInvalidResolution(t *testing.T) {
	bad := resolution(deps.StrategyUpdateToCompatible, deps.RiskLow, update("a", "1.0.0", "not-a-version"))
	report := ApplyResolutions([]deps.Resolution{bad})
	assert.Empty(t, report.Applied)
	require.Len(t, report.Failed, 1)
	require.Len(t, report.CompatibilityIssues, 1)
	assert.Contains(t, report.CompatibilityIssues[0], "not a valid version")
}

func TestApplyResolutions_StrategySafetyBreaksTies(t *testing.T) {
	removal := resolution(deps.StrategyRemoveConflicting, deps.RiskLow,
		deps.PackageChange{Package: "a", FromVersion: "1.0.0", Type: deps.ChangeRemove})
	upgrade := resolution(deps.StrategyUpdateToCompatible, deps.RiskLow, update("b", "1.0.0", "1.1.0"))

	report := ApplyResolutions([]deps.Resolution{removal, upgrade})
	require.Len(t, report.Applied, 2)
	assert.Equal(t, deps.StrategyUpdateToCompatible, report.Applied[0].Strategy,
		"updates are safer than removals at equal risk")
}

func TestExplainUnresolvable(t *testing.T) {
	resolvable := deps.Conflict{
		Kind: deps.ConflictVersionRange,
		Packages: []deps.ConflictingPackage{
			{Name: "debug", Version: "^4.1.0"},
			{Name: "debug", Version: "^4.3.0"},
		},
		Severity: deps.ConflictWarning,
	}
	// Critical conflict severity, more than three touched packages, and a
	// major-version crossing stack three escalations: critical risk.
	hopeless := deps.Conflict{
		Kind: deps.ConflictVersionRange,
		Packages: []deps.ConflictingPackage{
			{Name: "pkg-a", Version: "^1.0.0"},
			{Name: "pkg-b", Version: "^2.0.0"},
			{Name: "pkg-c", Version: "^3.0.0"},
			{Name: "pkg-d", Version: "^4.0.0"},
		},
		Severity: deps.ConflictCritical,
	}

	out := ExplainUnresolvable([]deps.Conflict{resolvable, hopeless})
	require.Len(t, out, 1, "only the critical-risk conflict is unresolvable")
	u := out[0]
	assert.Equal(t, deps.ConflictCritical, u.Conflict.Severity)
	assert.Contains(t, u.Explanation, "breaking-change risk")
	assert.NotEmpty(t, u.ManualOptions)
}

func TestManualOptionsPerKind(t *testing.T) {
	peer := manualOptions(deps.ConflictPeerDependency)
	require.NotEmpty(t, peer)
	assert.Contains(t, peer[0], "peer")

	transitive := manualOptions(deps.ConflictTransitive)
	require.NotEmpty(t, transitive)
	assert.Contains(t, transitive[0], "direct dependency")

	assert.NotEmpty(t, manualOptions(deps.ConflictVersionRange))
}

package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

func peerIssue(pkg, current, expected, requiredBy string, sev deps.Severity) deps.Issue {
	return deps.Issue{
		Kind:            deps.KindPeerConflict,
		Package:         pkg,
		CurrentVersion:  current,
		ExpectedVersion: expected,
		Severity:        sev,
		Description:     "peer requirement on " + pkg + " is not satisfied",
		RequiredBy:      requiredBy,
	}
}

func TestDetect_VersionRangeFromCompetingPeers(t *testing.T) {
	issues := []deps.Issue{
		peerIssue("react", "16.8.0", "^16.0.0", "legacy-ui", deps.SeverityHigh),
		peerIssue("react", "16.8.0", "^17.0.0", "modern-ui", deps.SeverityHigh),
	}

	conflicts := Detect(issues)

	var versionRange []deps.Conflict
	for _, c := range conflicts {
		if c.Kind == deps.ConflictVersionRange {
			versionRange = append(versionRange, c)
		}
	}
	require.Len(t, versionRange, 1, "exactly one version-range conflict for react")
	c := versionRange[0]
	require.Len(t, c.Packages, 2)
	assert.Equal(t, "react", c.Packages[0].Name)
	assert.Equal(t, "^16.0.0", c.Packages[0].Version)
	assert.Equal(t, "^17.0.0", c.Packages[1].Version)
	assert.Equal(t, deps.ConflictError, c.Severity, "high issues grade the conflict as error")
}

func TestDetect_PeerDependencyConflict(t *testing.T) {
	issues := []deps.Issue{
		peerIssue("react-dom", "", "^18.0.0", "some-widget", deps.SeverityHigh),
	}
	conflicts := Detect(issues)
	require.Len(t, conflicts, 1, "one peer issue is a peer conflict but not a version-range conflict")
	assert.Equal(t, deps.ConflictPeerDependency, conflicts[0].Kind)
	assert.Equal(t, "some-widget", conflicts[0].Packages[0].RequiredBy)
}

func TestDetect_TransitiveConflictFromDescriptions(t *testing.T) {
	issues := []deps.Issue{
		{
			Kind: deps.KindOutdated, Package: "minimist", CurrentVersion: "0.0.8",
			Severity: deps.SeverityMedium, Description: "minimist is pulled in as a transitive dependency of mkdirp",
		},
		{
			Kind: deps.KindVersionMismatch, Package: "minimist", CurrentVersion: "0.0.8", ExpectedVersion: "^1.2.0",
			Severity: deps.SeverityMedium, Description: "minimist is required indirectly at an incompatible version",
		},
	}
	conflicts := Detect(issues)

	var kinds []deps.ConflictKind
	for _, c := range conflicts {
		kinds = append(kinds, c.Kind)
	}
	assert.Contains(t, kinds, deps.ConflictTransitive)
}

func TestDetect_SeverityDerivationAndOrdering(t *testing.T) {
	issues := []deps.Issue{
		peerIssue("warn-pkg", "1.0.0", "^1.0.0", "a", deps.SeverityMedium),
		peerIssue("warn-pkg", "1.0.0", "^2.0.0", "b", deps.SeverityLow),
		peerIssue("crit-pkg", "1.0.0", "^1.0.0", "c", deps.SeverityCritical),
		peerIssue("crit-pkg", "1.0.0", "^3.0.0", "d", deps.SeverityLow),
	}
	conflicts := Detect(issues)
	require.NotEmpty(t, conflicts)
	assert.Equal(t, deps.ConflictCritical, conflicts[0].Severity, "critical conflicts sort first")

	for _, c := range conflicts {
		switch c.Packages[0].Name {
		case "warn-pkg":
			assert.Equal(t, deps.ConflictWarning, c.Severity)
		case "crit-pkg":
			assert.Equal(t, deps.ConflictCritical, c.Severity)
		}
	}
}

func TestDetect_NoConflictsForIndependentIssues(t *testing.T) {
	issues := []deps.Issue{
		{Kind: deps.KindOutdated, Package: "a", Severity: deps.SeverityLow, Description: "a is behind"},
		{Kind: deps.KindMissing, Package: "b", Severity: deps.SeverityHigh, Description: "b is not installed"},
	}
	assert.Empty(t, Detect(issues))
}

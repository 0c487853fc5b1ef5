package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

func issue(kind deps.IssueKind, pkg string, sev deps.Severity) deps.Issue {
	return deps.Issue{
		Kind:        kind,
		Package:     pkg,
		Severity:    sev,
		Description: string(kind) + " issue on " + pkg,
	}
}

func TestMerge_DeduplicatesAcrossProducers(t *testing.T) {
	shared := issue(deps.KindOutdated, "lodash", deps.SeverityLow)
	results := []Result{
		{Producer: "outdated", Issues: []deps.Issue{shared}},
		{Producer: "peer", Issues: []deps.Issue{shared, issue(deps.KindPeerConflict, "react", deps.SeverityHigh)}},
	}

	issues, vulns := Merge(results)
	require.Len(t, issues, 2, "the duplicate identity key must collapse to one record")
	assert.Empty(t, vulns)
}

func TestMerge_FirstOccurrenceWins(t *testing.T) {
	first := issue(deps.KindMissing, "a", deps.SeverityHigh)
	first.Description = "first producer wording"
	second := first
	second.Description = "second producer wording"

	issues, _ := Merge([]Result{
		{Producer: "one", Issues: []deps.Issue{first}},
		{Producer: "two", Issues: []deps.Issue{second}},
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "first producer wording", issues[0].Description)
}

func TestMerge_SkipsMalformedRecords(t *testing.T) {
	results := []Result{{
		Producer: "outdated",
		Issues: []deps.Issue{
			{Kind: deps.KindOutdated, Severity: deps.SeverityLow, Description: "no package name"},
			{Kind: "bogus-kind", Package: "a", Severity: deps.SeverityLow, Description: "bad kind"},
			{Kind: deps.KindOutdated, Package: "b", Severity: "serious", Description: "bad severity"},
			{Kind: deps.KindOutdated, Package: "c", Severity: deps.SeverityLow},
			issue(deps.KindOutdated, "good", deps.SeverityLow),
		},
		SecurityIssues: []deps.SecurityIssue{
			{Package: "x", Severity: deps.AdvisoryHigh},                                                                   // no vulnerability id
			{Package: "y", Vulnerability: deps.Vulnerability{ID: "V-1", CVSS: 11}, Severity: deps.AdvisoryHigh},           // cvss out of range
			{Package: "z", Vulnerability: deps.Vulnerability{ID: "V-2", CVSS: 9.8}, Severity: deps.AdvisoryCritical},      // valid
			{Package: "w", Vulnerability: deps.Vulnerability{ID: "V-3", CVSS: 5}, Severity: deps.AdvisorySeverity("bad")}, // bad severity
		},
	}}

	issues, vulns := Merge(results)
	require.Len(t, issues, 1)
	assert.Equal(t, "good", issues[0].Package)
	require.Len(t, vulns, 1)
	assert.Equal(t, "z", vulns[0].Package)
}

func TestMerge_SortsBySeverityDescending(t *testing.T) {
	issues, _ := Merge([]Result{{
		Producer: "mixed",
		Issues: []deps.Issue{
			issue(deps.KindOutdated, "low-1", deps.SeverityLow),
			issue(deps.KindBroken, "crit", deps.SeverityCritical),
			issue(deps.KindMissing, "med", deps.SeverityMedium),
			issue(deps.KindOutdated, "low-2", deps.SeverityLow),
			issue(deps.KindMissing, "high", deps.SeverityHigh),
		},
	}})

	var got []string
	for _, is := range issues {
		got = append(got, is.Package)
	}
	assert.Equal(t, []string{"crit", "high", "med", "low-1", "low-2"}, got,
		"severity descending, stable among equals")
}

func TestMerge_SortsVulnerabilitiesBySeverityDescending(t *testing.T) {
	vuln := func(pkg, id string, sev deps.AdvisorySeverity) deps.SecurityIssue {
		return deps.SecurityIssue{
			Package:       pkg,
			Version:       "1.0.0",
			Vulnerability: deps.Vulnerability{ID: id, CVSS: 5},
			Severity:      sev,
		}
	}
	_, vulns := Merge([]Result{{
		Producer: "security",
		Issues:   []deps.Issue{},
		SecurityIssues: []deps.SecurityIssue{
			vuln("a", "V-1", deps.AdvisoryLow),
			vuln("b", "V-2", deps.AdvisoryCritical),
			vuln("c", "V-3", deps.AdvisoryModerate),
			vuln("b", "V-2", deps.AdvisoryCritical), // duplicate key
		},
	}})
	require.Len(t, vulns, 3)
	assert.Equal(t, "V-2", vulns[0].Vulnerability.ID)
	assert.Equal(t, "V-3", vulns[1].Vulnerability.ID)
	assert.Equal(t, "V-1", vulns[2].Vulnerability.ID)
}

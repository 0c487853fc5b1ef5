// Package aggregate merges per-scanner results into one deduplicated,
// severity-sorted issue and vulnerability list.
package aggregate

import (
	"math"
	"sort"

	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// Result is the raw output of one scanner, tagged with its producer.
type Result struct {
	Producer       string
	Issues         []deps.Issue
	SecurityIssues []deps.SecurityIssue
}

// Merge validates, deduplicates and sorts the issues and security issues of
// all scanner results. Malformed records are logged and skipped; a bad
// record never fails the run. For duplicate identity keys the first
// occurrence wins. The returned slices are sorted by severity descending
// with a stable sort, so producer order is preserved among equal
// severities.
func Merge(results []Result) ([]deps.Issue, []deps.SecurityIssue) {
	var issues []deps.Issue
	var vulns []deps.SecurityIssue
	seenIssue := make(map[string]struct{})
	seenVuln := make(map[string]struct{})

	for _, res := range results {
		for _, is := range res.Issues {
			if reason := checkIssue(is); reason != "" {
				logger.Warnf("aggregate: dropping issue from %s: %s", res.Producer, reason)
				continue
			}
			key := is.Key()
			if _, dup := seenIssue[key]; dup {
				continue
			}
			seenIssue[key] = struct{}{}
			issues = append(issues, is)
		}
		for _, v := range res.SecurityIssues {
			if reason := checkSecurityIssue(v); reason != "" {
				logger.Warnf("aggregate: dropping security issue from %s: %s", res.Producer, reason)
				continue
			}
			key := v.Key()
			if _, dup := seenVuln[key]; dup {
				continue
			}
			seenVuln[key] = struct{}{}
			vulns = append(vulns, v)
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() > issues[j].Severity.Rank()
	})
	sort.SliceStable(vulns, func(i, j int) bool {
		return vulns[i].Severity.Rank() > vulns[j].Severity.Rank()
	})
	return issues, vulns
}

// checkIssue returns a non-empty rejection reason for structurally invalid
// records.
func checkIssue(is deps.Issue) string {
	switch {
	case is.Package == "":
		return "missing package name"
	case !is.Kind.Valid():
		return "unknown issue kind " + string(is.Kind)
	case !is.Severity.Valid():
		return "unknown severity " + string(is.Severity)
	case is.Description == "":
		return "missing description for " + is.Package
	}
	return ""
}

func checkSecurityIssue(v deps.SecurityIssue) string {
	switch {
	case v.Package == "":
		return "missing package name"
	case v.Vulnerability.ID == "":
		return "missing vulnerability id for " + v.Package
	case !v.Severity.Valid():
		return "unknown advisory severity " + string(v.Severity)
	case math.IsNaN(v.Vulnerability.CVSS) || math.IsInf(v.Vulnerability.CVSS, 0):
		return "non-finite cvss for " + v.Vulnerability.ID
	case v.Vulnerability.CVSS < 0 || v.Vulnerability.CVSS > 10:
		return "cvss out of range for " + v.Vulnerability.ID
	}
	return ""
}

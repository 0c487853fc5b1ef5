// Package conflict groups co-occurring issues into conflicts and computes
// risk-assessed resolutions for them.
package conflict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

// Detect groups the aggregated issue list by package and classifies
// co-occurring issues into conflicts. This is a heuristic grouping pass
// over already-surfaced issues; it never re-derives the install graph.
//
// Per package: two or more version-mismatch/peer-conflict issues yield a
// version-range conflict, any peer-conflict issue yields a peer-dependency
// conflict, and more than one issue whose description mentions a
// transitive/indirect origin yields a transitive conflict. The result is
// sorted with critical conflicts first.
func Detect(issues []deps.Issue) []deps.Conflict {
	var order []string
	groups := make(map[string][]deps.Issue)
	for _, is := range issues {
		if _, seen := groups[is.Package]; !seen {
			order = append(order, is.Package)
		}
		groups[is.Package] = append(groups[is.Package], is)
	}

	var conflicts []deps.Conflict
	for _, pkg := range order {
		group := groups[pkg]
		severity := groupSeverity(group)

		var versioned, peers, transitive []deps.Issue
		for _, is := range group {
			switch is.Kind {
			case deps.KindVersionMismatch, deps.KindPeerConflict:
				versioned = append(versioned, is)
			}
			if is.Kind == deps.KindPeerConflict {
				peers = append(peers, is)
			}
			desc := strings.ToLower(is.Description)
			if strings.Contains(desc, "transitive") || strings.Contains(desc, "indirect") {
				transitive = append(transitive, is)
			}
		}

		if len(versioned) >= 2 {
			conflicts = append(conflicts, deps.Conflict{
				Kind:        deps.ConflictVersionRange,
				Packages:    participants(versioned),
				Description: fmt.Sprintf("%d competing version requirements for %s", len(versioned), pkg),
				Severity:    severity,
			})
		}
		if len(peers) > 0 {
			conflicts = append(conflicts, deps.Conflict{
				Kind:        deps.ConflictPeerDependency,
				Packages:    participants(peers),
				Description: fmt.Sprintf("peer dependency requirements on %s are not satisfied", pkg),
				Severity:    severity,
			})
		}
		if len(transitive) > 1 {
			conflicts = append(conflicts, deps.Conflict{
				Kind:        deps.ConflictTransitive,
				Packages:    participants(transitive),
				Description: fmt.Sprintf("%s is pulled in transitively with incompatible requirements", pkg),
				Severity:    severity,
			})
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Severity.Rank() > conflicts[j].Severity.Rank()
	})
	return conflicts
}

// participants converts the issues of one group into conflicting-package
// records. Version carries the declared requirement when the issue has
// one, falling back to the installed version.
func participants(group []deps.Issue) []deps.ConflictingPackage {
	out := make([]deps.ConflictingPackage, 0, len(group))
	for _, is := range group {
		version := is.ExpectedVersion
		if version == "" {
			version = is.CurrentVersion
		}
		if version == "" {
			version = "unknown"
		}
		out = append(out, deps.ConflictingPackage{
			Name:          is.Package,
			Version:       version,
			RequiredBy:    is.RequiredBy,
			ConflictsWith: is.ConflictsWith,
		})
	}
	return out
}

// groupSeverity derives a conflict severity from the worst issue severity
// in the group.
func groupSeverity(group []deps.Issue) deps.ConflictSeverity {
	worst := deps.SeverityLow
	for _, is := range group {
		if is.Severity.Rank() > worst.Rank() {
			worst = is.Severity
		}
	}
	switch worst {
	case deps.SeverityCritical:
		return deps.ConflictCritical
	case deps.SeverityHigh:
		return deps.ConflictError
	default:
		return deps.ConflictWarning
	}
}

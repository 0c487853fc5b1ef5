package conflict

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// ApplyReport is the outcome of applying a batch of resolutions: the
// resolutions accepted for application, the ones rejected, and an
// explanation per rejection.
type ApplyReport struct {
	Applied             []deps.Resolution `json:"applied,omitempty"`
	Failed              []deps.Resolution `json:"failed,omitempty"`
	CompatibilityIssues []string          `json:"compatibility_issues,omitempty"`
}

// strategySafety orders strategies from safest to least safe for the
// breaking-change-minimization policy.
func strategySafety(s deps.Strategy) int {
	switch s {
	case deps.StrategyUpdateToCompatible:
		return 0
	case deps.StrategyAddPeerDependency:
		return 1
	case deps.StrategyDowngradeToCompatible:
		return 2
	case deps.StrategyRemoveConflicting:
		return 3
	default:
		return 4
	}
}

func majorCrossings(r deps.Resolution) int {
	n := 0
	for _, ch := range r.Changes {
		if ch.Type != deps.ChangeUpdate && ch.Type != deps.ChangeDowngrade {
			continue
		}
		if deps.CrossesMajor(ch.FromVersion, ch.ToVersion) {
			n++
		}
	}
	return n
}

// ApplyResolutions orders the resolutions so that the least disruptive
// come first (ascending risk, then fewest major-version crossings, then
// strategy safety, then fewest changes) and walks the ordered list keeping
// a running map of intended versions per package. A resolution is rejected
// when it fails validation or when one of its changes targets a package
// already pinned to a different major version by an earlier accepted
// resolution.
func ApplyResolutions(resolutions []deps.Resolution) ApplyReport {
	ordered := make([]deps.Resolution, len(resolutions))
	copy(ordered, resolutions)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Risk.Level.Rank() != b.Risk.Level.Rank() {
			return a.Risk.Level.Rank() < b.Risk.Level.Rank()
		}
		if ca, cb := majorCrossings(a), majorCrossings(b); ca != cb {
			return ca < cb
		}
		if sa, sb := strategySafety(a.Strategy), strategySafety(b.Strategy); sa != sb {
			return sa < sb
		}
		return len(a.Changes) < len(b.Changes)
	})

	var report ApplyReport
	pinned := make(map[string]*semver.Version)

	for _, r := range ordered {
		if reason := validateResolution(r); reason != "" {
			report.Failed = append(report.Failed, r)
			report.CompatibilityIssues = append(report.CompatibilityIssues,
				fmt.Sprintf("resolution (%s) rejected: %s", r.Strategy, reason))
			continue
		}
		if pkg, want, have, ok := findPinConflict(r, pinned); !ok {
			report.Failed = append(report.Failed, r)
			report.CompatibilityIssues = append(report.CompatibilityIssues,
				fmt.Sprintf("resolution (%s) rejected: %s is already pinned to %s, incompatible with requested %s",
					r.Strategy, pkg, have, want))
			continue
		}
		for _, ch := range r.Changes {
			if ch.Type == deps.ChangeRemove {
				delete(pinned, ch.Package)
				continue
			}
			if v, err := deps.ParseVersion(ch.ToVersion); err == nil {
				pinned[ch.Package] = v
			}
		}
		report.Applied = append(report.Applied, r)
	}

	for _, msg := range report.CompatibilityIssues {
		logger.Debugf("apply: %s", msg)
	}
	return report
}

// findPinConflict reports the first change whose target version sits on a
// different major version than an earlier pin for the same package. The
// last result is false when such a clash exists.
func findPinConflict(r deps.Resolution, pinned map[string]*semver.Version) (pkg, want, have string, ok bool) {
	for _, ch := range r.Changes {
		if ch.Type == deps.ChangeRemove {
			continue
		}
		prev, exists := pinned[ch.Package]
		if !exists {
			continue
		}
		v, err := deps.ParseVersion(ch.ToVersion)
		if err != nil {
			continue
		}
		if v.Major() != prev.Major() {
			return ch.Package, ch.ToVersion, prev.String(), false
		}
	}
	return "", "", "", true
}

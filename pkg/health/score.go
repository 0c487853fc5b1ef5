// Package health computes the 0-100 dependency health score.
package health

import (
	"math"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

// Deduction weights per factor. Security findings dominate; broken
// installs weigh least because they are always mechanically repairable.
const (
	weightSecurity = 0.4
	weightMissing  = 0.15
	weightPeer     = 0.15
	weightOutdated = 0.2
	weightBroken   = 0.1
)

// Score converts aggregated issues and vulnerabilities into a single score
// in [0,100]. It is a pure function: identical inputs always produce the
// identical score, and adding an issue never increases it.
func Score(issues []deps.Issue, vulns []deps.SecurityIssue) int {
	var outdated, missing, peer, broken, security float64

	for _, is := range issues {
		m := issueMultiplier(is.Severity)
		switch is.Kind {
		case deps.KindOutdated:
			outdated += m
		case deps.KindVersionMismatch:
			// Mismatches count toward the outdated factor at half
			// weight: the package is present and working, just not
			// what the manifest asks for.
			outdated += m / 2
		case deps.KindMissing:
			missing += m
		case deps.KindPeerConflict:
			peer += m
		case deps.KindBroken:
			broken += m
		case deps.KindSecurity:
			security += m
		}
	}
	for _, v := range vulns {
		security += advisoryMultiplier(v.Severity)
	}

	score := 100 -
		security*weightSecurity -
		missing*weightMissing -
		peer*weightPeer -
		outdated*weightOutdated -
		broken*weightBroken

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func issueMultiplier(s deps.Severity) float64 {
	switch s {
	case deps.SeverityCritical:
		return 20
	case deps.SeverityHigh:
		return 10
	case deps.SeverityMedium:
		return 5
	case deps.SeverityLow:
		return 2
	default:
		return 0
	}
}

// advisoryMultiplier is steeper than issueMultiplier so that a security
// finding always costs at least as much as an ordinary issue of the same
// grade.
func advisoryMultiplier(s deps.AdvisorySeverity) float64 {
	switch s {
	case deps.AdvisoryCritical:
		return 50
	case deps.AdvisoryHigh:
		return 25
	case deps.AdvisoryModerate:
		return 10
	case deps.AdvisoryLow:
		return 5
	default:
		return 0
	}
}

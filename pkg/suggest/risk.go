package suggest

import (
	"github.com/r2708/depmender-sub000/pkg/deps"
)

// EstimateUpdateRisk grades the breaking-change risk of moving a package
// from current to target based on the semantic-version delta. Unparseable
// versions are risky by default. Pre-1.0 packages get no compatibility
// promise from semver, so even a minor bump on them is graded High.
func EstimateUpdateRisk(current, target string) deps.RiskLevel {
	cv, err1 := deps.ParseVersion(current)
	tv, err2 := deps.ParseVersion(target)
	if err1 != nil || err2 != nil {
		return deps.RiskHigh
	}

	majorDelta := int64(tv.Major()) - int64(cv.Major())
	minorDelta := int64(tv.Minor()) - int64(cv.Minor())

	switch {
	case majorDelta > 2:
		return deps.RiskCritical
	case majorDelta > 0:
		return deps.RiskHigh
	case majorDelta < 0:
		return deps.RiskMedium
	case minorDelta < 0:
		return deps.RiskMedium
	case minorDelta > 0 && (cv.Major() == 0 || tv.Major() == 0):
		return deps.RiskHigh
	case minorDelta > 5:
		return deps.RiskMedium
	default:
		return deps.RiskLow
	}
}

// advisoryRisk maps a security severity straight to a risk level. Security
// risk reflects the vulnerability, not the size of the version jump.
func advisoryRisk(s deps.AdvisorySeverity) deps.RiskLevel {
	switch s {
	case deps.AdvisoryCritical:
		return deps.RiskCritical
	case deps.AdvisoryHigh:
		return deps.RiskHigh
	case deps.AdvisoryModerate:
		return deps.RiskMedium
	default:
		return deps.RiskLow
	}
}

// updateImpact phrases the expected impact of a version move.
func updateImpact(current, target string) string {
	cv, err1 := deps.ParseVersion(current)
	tv, err2 := deps.ParseVersion(target)
	if err1 != nil || err2 != nil {
		return "breaking changes possible"
	}
	switch {
	case tv.Major() != cv.Major():
		return "breaking changes possible"
	case tv.Minor() != cv.Minor():
		return "new features, backward compatible"
	default:
		return "bug fixes only"
	}
}

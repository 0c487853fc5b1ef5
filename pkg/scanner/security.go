package scanner

import (
	"context"
	"fmt"

	"github.com/r2708/depmender-sub000/pkg/aggregate"
	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// SecurityScanner queries the bulk advisory endpoint for every installed
// package and emits security issues plus mirror dependency issues. An
// unreachable advisory service yields an empty result, never a failed run.
type SecurityScanner struct {
	Registry *Registry
}

func (s *SecurityScanner) Name() string { return "security" }

func (s *SecurityScanner) Scan(ctx context.Context, sc *Context) (aggregate.Result, error) {
	res := aggregate.Result{Producer: s.Name()}

	installed := make(map[string]string, len(sc.Installed))
	for _, p := range sc.Installed {
		if p.IsValid {
			installed[p.Name] = p.Version
		}
	}

	for name, advisories := range s.Registry.Advisories(ctx, installed) {
		version := installed[name]
		for _, adv := range advisories {
			severity, err := deps.ParseAdvisorySeverity(adv.Severity)
			if err != nil {
				logger.Warnf("security: advisory %s for %s has %v; skipping", adv.ID, name, err)
				continue
			}
			res.SecurityIssues = append(res.SecurityIssues, deps.SecurityIssue{
				Package: name,
				Version: version,
				Vulnerability: deps.Vulnerability{
					ID:          adv.ID,
					Title:       adv.Title,
					Description: adv.Overview,
					CVSS:        adv.CVSS,
					CWE:         adv.CWE,
					References:  adv.References,
				},
				Severity:       severity,
				FixedIn:        adv.FixedIn,
				PatchAvailable: adv.FixedIn != "",
			})
			res.Issues = append(res.Issues, deps.Issue{
				Kind:            deps.KindSecurity,
				Package:         name,
				CurrentVersion:  version,
				ExpectedVersion: adv.FixedIn,
				Severity:        issueSeverityFor(severity),
				Description:     fmt.Sprintf("%s %s is affected by security advisory %s: %s", name, version, adv.ID, adv.Title),
				Fixable:         adv.FixedIn != "",
			})
		}
	}
	return res, nil
}

func issueSeverityFor(s deps.AdvisorySeverity) deps.Severity {
	switch s {
	case deps.AdvisoryCritical:
		return deps.SeverityCritical
	case deps.AdvisoryHigh:
		return deps.SeverityHigh
	case deps.AdvisoryModerate:
		return deps.SeverityMedium
	default:
		return deps.SeverityLow
	}
}

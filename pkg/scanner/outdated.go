package scanner

import (
	"context"
	"fmt"

	"github.com/r2708/depmender-sub000/pkg/aggregate"
	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// OutdatedScanner compares each declared dependency against the newest
// registry version. Registry misses degrade to "no update information" for
// that package.
type OutdatedScanner struct {
	Registry *Registry
}

func (s *OutdatedScanner) Name() string { return "outdated" }

func (s *OutdatedScanner) Scan(ctx context.Context, sc *Context) (aggregate.Result, error) {
	res := aggregate.Result{Producer: s.Name()}
	for name, declared := range sc.DeclaredDependencies() {
		info := s.Registry.Lookup(ctx, name)
		if info == nil || info.Latest == "" {
			logger.Debugf("outdated: no update information for %s", name)
			continue
		}

		current := declared
		if installed, ok := sc.InstalledVersion(name); ok && installed != "" {
			current = installed
		}

		if info.Deprecated != "" {
			res.Issues = append(res.Issues, deps.Issue{
				Kind:           deps.KindOutdated,
				Package:        name,
				CurrentVersion: current,
				LatestVersion:  info.Latest,
				Severity:       deps.SeverityMedium,
				Description:    fmt.Sprintf("%s is deprecated: %s", name, info.Deprecated),
				Fixable:        true,
			})
		}

		cv, err1 := deps.ParseVersion(current)
		lv, err2 := deps.ParseVersion(info.Latest)
		if err1 != nil || err2 != nil || !lv.GreaterThan(cv) {
			continue
		}
		severity := deps.SeverityLow
		switch {
		case lv.Major() > cv.Major():
			severity = deps.SeverityHigh
		case lv.Minor() > cv.Minor():
			severity = deps.SeverityMedium
		}
		res.Issues = append(res.Issues, deps.Issue{
			Kind:           deps.KindOutdated,
			Package:        name,
			CurrentVersion: current,
			LatestVersion:  info.Latest,
			Severity:       severity,
			Description:    fmt.Sprintf("%s %s is behind the latest %s", name, current, info.Latest),
			Fixable:        true,
		})
	}
	return res, nil
}

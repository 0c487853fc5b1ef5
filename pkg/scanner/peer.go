package scanner

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/r2708/depmender-sub000/pkg/aggregate"
	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// PeerScanner checks the peer requirements declared by every installed
// package against what the project provides, and reports
// declared-vs-installed version disagreements. Relationship facts go into
// the structured RequiredBy/ConflictsWith fields, never into the
// description text.
type PeerScanner struct{}

func (s *PeerScanner) Name() string { return "peer" }

func (s *PeerScanner) Scan(ctx context.Context, sc *Context) (aggregate.Result, error) {
	res := aggregate.Result{Producer: s.Name()}
	declared := sc.DeclaredDependencies()

	for _, p := range sc.Installed {
		for peer, rng := range p.PeerDependencies {
			provided, ok := sc.InstalledVersion(peer)
			if !ok {
				res.Issues = append(res.Issues, deps.Issue{
					Kind:            deps.KindPeerConflict,
					Package:         peer,
					ExpectedVersion: rng,
					Severity:        deps.SeverityHigh,
					Description:     fmt.Sprintf("peer dependency %s (%s) is not installed", peer, rng),
					Fixable:         true,
					RequiredBy:      p.Name,
				})
				continue
			}
			constraint, err := semver.NewConstraint(rng)
			if err != nil {
				logger.Debugf("peer: %s declares unparseable peer range %q for %s", p.Name, rng, peer)
				continue
			}
			version, err := deps.ParseVersion(provided)
			if err != nil {
				logger.Debugf("peer: installed version %q of %s is unparseable", provided, peer)
				continue
			}
			if !constraint.Check(version) {
				res.Issues = append(res.Issues, deps.Issue{
					Kind:            deps.KindPeerConflict,
					Package:         peer,
					CurrentVersion:  provided,
					ExpectedVersion: rng,
					Severity:        deps.SeverityMedium,
					Description:     fmt.Sprintf("installed %s %s does not satisfy the peer requirement %s", peer, provided, rng),
					Fixable:         true,
					RequiredBy:      p.Name,
					ConflictsWith:   []string{p.Name},
				})
			}
		}
	}

	// Declared-vs-installed disagreements surface as mismatches.
	for name, required := range declared {
		installed, ok := sc.InstalledVersion(name)
		if !ok || installed == "" {
			continue
		}
		constraint, err := semver.NewConstraint(required)
		if err != nil {
			continue
		}
		version, err := deps.ParseVersion(installed)
		if err != nil {
			continue
		}
		if !constraint.Check(version) {
			res.Issues = append(res.Issues, deps.Issue{
				Kind:            deps.KindVersionMismatch,
				Package:         name,
				CurrentVersion:  installed,
				ExpectedVersion: required,
				Severity:        deps.SeverityMedium,
				Description:     fmt.Sprintf("installed %s %s does not match the manifest requirement %s", name, installed, required),
				Fixable:         true,
			})
		}
	}
	return res, nil
}

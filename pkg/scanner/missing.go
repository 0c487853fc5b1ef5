package scanner

import (
	"context"
	"fmt"

	"github.com/r2708/depmender-sub000/pkg/aggregate"
	"github.com/r2708/depmender-sub000/pkg/deps"
)

// MissingScanner reports declared dependencies absent from the install
// tree. Runtime dependencies grade High, dev dependencies Medium; optional
// dependencies are skipped.
type MissingScanner struct{}

func (s *MissingScanner) Name() string { return "missing" }

func (s *MissingScanner) Scan(ctx context.Context, sc *Context) (aggregate.Result, error) {
	res := aggregate.Result{Producer: s.Name()}

	report := func(declared map[string]string, severity deps.Severity) {
		for name, required := range declared {
			if _, optional := sc.Manifest.OptionalDependencies[name]; optional {
				continue
			}
			if _, ok := sc.InstalledVersion(name); ok {
				continue
			}
			res.Issues = append(res.Issues, deps.Issue{
				Kind:            deps.KindMissing,
				Package:         name,
				ExpectedVersion: required,
				Severity:        severity,
				Description:     fmt.Sprintf("%s is declared (%s) but not installed", name, required),
				Fixable:         true,
			})
		}
	}
	report(sc.Manifest.Dependencies, deps.SeverityHigh)
	report(sc.Manifest.DevDependencies, deps.SeverityMedium)
	return res, nil
}

package scanner

import (
	"context"
	"fmt"

	"github.com/r2708/depmender-sub000/pkg/aggregate"
	"github.com/r2708/depmender-sub000/pkg/deps"
)

// BrokenScanner reports install-tree entries whose package manifest is
// unreadable or version-less.
type BrokenScanner struct{}

func (s *BrokenScanner) Name() string { return "broken" }

func (s *BrokenScanner) Scan(ctx context.Context, sc *Context) (aggregate.Result, error) {
	res := aggregate.Result{Producer: s.Name()}
	for _, p := range sc.Installed {
		if p.IsValid {
			continue
		}
		res.Issues = append(res.Issues, deps.Issue{
			Kind:           deps.KindBroken,
			Package:        p.Name,
			CurrentVersion: p.Version,
			Severity:       deps.SeverityHigh,
			Description:    fmt.Sprintf("install of %s at %s is broken: its package manifest is missing or unreadable", p.Name, p.Path),
			Fixable:        true,
		})
	}
	return res, nil
}

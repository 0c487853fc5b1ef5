package scanner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/r2708/depmender-sub000/pkg/aggregate"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// Scanner is the contract every detector satisfies: inspect the shared
// scan context and emit issues (and, for the security scanner,
// vulnerabilities). A scanner failure is its own failure, never the
// run's.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, sc *Context) (aggregate.Result, error)
}

// RunAll executes the scanners concurrently and returns one result per
// scanner, in scanner order. Scanners that error contribute an empty
// result; aggregation begins only after every scanner has finished.
func RunAll(ctx context.Context, sc *Context, scanners []Scanner) []aggregate.Result {
	results := make([]aggregate.Result, len(scanners))
	var g errgroup.Group
	for i, s := range scanners {
		i, s := i, s
		g.Go(func() error {
			res, err := s.Scan(ctx, sc)
			if err != nil {
				logger.Warnf("scanner %s failed: %v", s.Name(), err)
				results[i] = aggregate.Result{Producer: s.Name()}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Scanners swallow their own errors, so Wait cannot fail.
	_ = g.Wait()
	return results
}

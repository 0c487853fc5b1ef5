// Package fix applies accepted suggestions through the package-manager
// adapter, strictly sequentially, with an explicit per-fix state machine.
package fix

import (
	"context"
	"fmt"

	"github.com/r2708/depmender-sub000/pkg/adapter"
	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

// State is the lifecycle of one fix: Pending -> Applying -> Applied |
// Failed. Skipped marks fixes filtered out by the risk gate.
type State string

const (
	StatePending  State = "pending"
	StateApplying State = "applying"
	StateApplied  State = "applied"
	StateFailed   State = "failed"
	StateSkipped  State = "skipped"
)

// Outcome records what happened to one suggestion.
type Outcome struct {
	Suggestion deps.FixSuggestion
	State      State
	Error      string
}

// Report is the result of one fix run. RestoreBackup signals that a
// critical-risk fix failed mid-run and the collaborator owning backups
// should restore them; this runner never touches manifest backups itself.
type Report struct {
	Outcomes      []Outcome
	Aborted       bool
	RestoreBackup bool
}

// Runner applies suggestions one at a time. Fixes above MaxRisk are
// skipped. Two mutations never run concurrently against the same project,
// so every state change is observable between steps.
type Runner struct {
	Adapter adapter.Handle
	MaxRisk deps.RiskLevel
	DryRun  bool
}

// Apply walks the suggestions in order. A failed fix is recorded and the
// run continues, except when the failing fix carried critical risk: then
// the remaining fixes are abandoned and RestoreBackup is set.
func (r *Runner) Apply(ctx context.Context, suggestions []deps.FixSuggestion) Report {
	report := Report{Outcomes: make([]Outcome, 0, len(suggestions))}
	maxRank := r.MaxRisk.Rank()
	if maxRank == 0 {
		maxRank = deps.RiskMedium.Rank()
	}

	for i, s := range suggestions {
		if report.Aborted {
			report.Outcomes = append(report.Outcomes, Outcome{Suggestion: s, State: StatePending})
			continue
		}
		if s.Risk.Rank() > maxRank {
			logger.Infof("fix: skipping %q (risk %s above the gate)", s.Description, s.Risk)
			report.Outcomes = append(report.Outcomes, Outcome{Suggestion: s, State: StateSkipped})
			continue
		}

		outcome := Outcome{Suggestion: s, State: StateApplying}
		logger.Infof("fix: applying %q", s.Description)
		if err := r.applyOne(ctx, s); err != nil {
			outcome.State = StateFailed
			outcome.Error = err.Error()
			logger.Errorf("fix: %q failed: %v", s.Description, err)
			if s.Risk == deps.RiskCritical {
				report.Aborted = true
				report.RestoreBackup = true
				logger.Errorf("fix: critical-risk fix %d failed; aborting remaining fixes, backup restore required", i+1)
			}
		} else {
			outcome.State = StateApplied
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

func (r *Runner) applyOne(ctx context.Context, s deps.FixSuggestion) error {
	for _, a := range s.Actions {
		if r.DryRun {
			logger.Infof("fix: would run %s %s@%s", a.Kind, a.Package, a.Version)
			continue
		}
		var err error
		switch a.Kind {
		case deps.ActionInstall:
			err = r.Adapter.InstallPackage(ctx, a.Package, a.Version)
		case deps.ActionUpdate:
			err = r.Adapter.UpdatePackage(ctx, a.Package, a.Version)
		case deps.ActionRemove:
			err = r.Adapter.RemovePackage(ctx, a.Package)
		case deps.ActionRegenerateLockfile:
			err = r.Adapter.RegenerateLockfile(ctx)
		default:
			err = fmt.Errorf("unknown action kind %q", a.Kind)
		}
		if err != nil {
			return fmt.Errorf("action %s on %s: %w", a.Kind, a.Package, err)
		}
	}
	return nil
}

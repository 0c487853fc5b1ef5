package output

import (
	"github.com/r2708/depmender-sub000/pkg/conflict"
	"github.com/r2708/depmender-sub000/pkg/deps"
)

// Report is the full outcome of one analysis run, ready for rendering.
type Report struct {
	ProjectPath     string                  `json:"project_path"`
	HealthScore     int                     `json:"health_score"`
	Issues          []deps.Issue            `json:"issues"`
	Vulnerabilities []deps.SecurityIssue    `json:"vulnerabilities"`
	Conflicts       []deps.Conflict         `json:"conflicts"`
	Plan            conflict.ApplyReport    `json:"resolution_plan"`
	Suggestions     []deps.FixSuggestion    `json:"suggestions"`
	Unresolvable    []conflict.Unresolvable `json:"unresolvable,omitempty"`
}

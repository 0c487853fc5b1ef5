package conflict

import (
	"fmt"
	"strings"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

// Unresolvable describes one conflict for which no acceptable automatic
// resolution exists, with a plain-language explanation of the blockers and
// the manual options left to the user.
type Unresolvable struct {
	Conflict      deps.Conflict   `json:"conflict"`
	Resolution    deps.Resolution `json:"attempted_resolution"`
	Explanation   string          `json:"explanation"`
	ManualOptions []string        `json:"manual_options"`
}

// ExplainUnresolvable resolves each conflict and keeps the ones whose best
// resolution is invalid or carries critical risk, attaching an explanation
// that enumerates the specific blockers and a kind-specific list of manual
// workarounds.
func ExplainUnresolvable(conflicts []deps.Conflict) []Unresolvable {
	var out []Unresolvable
	for _, c := range conflicts {
		r := Resolve(c)
		reason := validateResolution(r)
		if reason == "" && r.Risk.Level != deps.RiskCritical {
			continue
		}
		out = append(out, Unresolvable{
			Conflict:      c,
			Resolution:    r,
			Explanation:   explainBlockers(c, r, reason),
			ManualOptions: manualOptions(c.Kind),
		})
	}
	return out
}

func explainBlockers(c deps.Conflict, r deps.Resolution, invalidReason string) string {
	var blockers []string
	if r.Risk.Level == deps.RiskCritical {
		blockers = append(blockers, fmt.Sprintf(
			"applying it carries critical breaking-change risk (%s)",
			strings.Join(r.Risk.Factors, "; ")))
	}
	if invalidReason != "" {
		switch {
		case strings.Contains(invalidReason, "circular"):
			blockers = append(blockers, "the change set shows a circular-dependency signal: "+invalidReason)
		case strings.Contains(invalidReason, "not a valid version"):
			blockers = append(blockers, "no viable version change exists: "+invalidReason)
		default:
			blockers = append(blockers, "the computed changes are incompatible: "+invalidReason)
		}
	}
	if len(blockers) == 0 {
		blockers = append(blockers, "the version requirements cannot be reconciled automatically")
	}
	return fmt.Sprintf("cannot automatically resolve the %s conflict on %s: %s",
		c.Kind, firstName(c), strings.Join(blockers, "; and "))
}

// manualOptions lists the hand-applied workarounds appropriate to each
// conflict kind.
func manualOptions(kind deps.ConflictKind) []string {
	switch kind {
	case deps.ConflictPeerDependency:
		return []string{
			"install the required peer dependency manually",
			"update the dependent packages to versions with compatible peer requirements",
			"force a version override in the manifest",
		}
	case deps.ConflictTransitive:
		return []string{
			"update the direct dependency that pulls in the conflicting transitive package",
			"add the transitive package as a direct dependency pinned to one version",
			"regenerate the lockfile after adjusting the direct requirements",
		}
	default:
		return []string{
			"pin a single version via a manifest override",
			"update the dependents one at a time, re-checking after each",
			"remove one of the conflicting requirements",
		}
	}
}

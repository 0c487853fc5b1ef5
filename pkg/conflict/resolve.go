package conflict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

// Standard mitigations attached to any resolution whose risk exceeds Low.
var standardMitigations = []string{
	"create a backup before applying",
	"run the full test suite after applying",
}

// Resolve selects a resolution strategy for the conflict, computes the
// concrete package changes, and grades the result. The strategy table is
// deterministic: peer-dependency conflicts add the missing peer,
// transitive conflicts update to a compatible version, and version-range
// conflicts update when a version satisfying every requirement exists,
// downgrade to the best-effort compromise when none does, and remove the
// most conflicted package as the last resort.
func Resolve(c deps.Conflict) deps.Resolution {
	var r deps.Resolution
	switch c.Kind {
	case deps.ConflictPeerDependency:
		r = resolveAddPeer(c)
	case deps.ConflictTransitive:
		r = resolveVersionChange(c, true)
	case deps.ConflictVersionRange:
		r = resolveVersionChange(c, false)
	default:
		r = deps.Resolution{
			Strategy:    deps.StrategyRemoveConflicting,
			Explanation: fmt.Sprintf("unrecognized conflict kind %q; no automatic resolution", c.Kind),
		}
	}
	r.Risk = assessRisk(c, r.Changes)
	return r
}

// resolveVersionChange handles version-range and transitive conflicts.
// forceUpdate keeps the update strategy even when only the compromise
// version is available (transitive conflicts are not downgraded).
func resolveVersionChange(c deps.Conflict, forceUpdate bool) deps.Resolution {
	ranges := requirementRanges(c)
	names := distinctNames(c)

	target, compatible := FindCompatibleVersion(ranges)
	strategy := deps.StrategyUpdateToCompatible
	explanation := ""
	switch {
	case compatible:
		explanation = fmt.Sprintf("version %s satisfies all %d declared requirements", target, len(ranges))
	case target != "":
		if !forceUpdate {
			strategy = deps.StrategyDowngradeToCompatible
		}
		explanation = fmt.Sprintf("no version satisfies every requirement; %s is the highest requirement floor and is the best-effort compromise", target)
	default:
		// No requirement parsed at all. Removing the most conflicted
		// package is all that is left.
		victim := mostConflicted(c)
		return deps.Resolution{
			Strategy: deps.StrategyRemoveConflicting,
			Changes: []deps.PackageChange{{
				Package:     victim.Name,
				FromVersion: victim.Version,
				Type:        deps.ChangeRemove,
			}},
			Explanation: fmt.Sprintf("no requirement on %s could be interpreted; removing it eliminates the conflict", victim.Name),
		}
	}

	changes := make([]deps.PackageChange, 0, len(names))
	for _, name := range names {
		from := installedVersionOf(c, name)
		changes = append(changes, deps.PackageChange{
			Package:     name,
			FromVersion: from,
			ToVersion:   target,
			Type:        changeDirection(from, target),
		})
	}
	return deps.Resolution{Strategy: strategy, Changes: changes, Explanation: explanation}
}

func resolveAddPeer(c deps.Conflict) deps.Resolution {
	ranges := requirementRanges(c)
	target, compatible := FindCompatibleVersion(ranges)
	if target == "" {
		target = "latest"
	}
	explanation := fmt.Sprintf("installing %s %s satisfies the declared peer requirements", firstName(c), target)
	if !compatible {
		explanation = fmt.Sprintf("no single version satisfies every peer requirement of %s; %s is the best-effort choice", firstName(c), target)
	}
	changes := []deps.PackageChange{{
		Package:     firstName(c),
		FromVersion: deps.NotInstalled,
		ToVersion:   target,
		Type:        deps.ChangeInstall,
	}}
	return deps.Resolution{
		Strategy:    deps.StrategyAddPeerDependency,
		Changes:     changes,
		Explanation: explanation,
	}
}

// CompatibleVersions samples candidate versions around each range's floor
// (the floor itself plus a few patch and minor increments), checks every
// candidate against all ranges, and returns the satisfying ones, newest
// first, capped at limit. This is deliberately a best-effort sampling, not
// a constraint solve.
func CompatibleVersions(ranges []string, limit int) []string {
	var constraints []*semver.Constraints
	var floors []*semver.Version
	for _, r := range ranges {
		if c, err := semver.NewConstraint(r); err == nil {
			constraints = append(constraints, c)
		}
		if f, ok := deps.RangeMinimum(r); ok {
			floors = append(floors, f)
		}
	}
	if len(floors) == 0 || len(constraints) == 0 {
		return nil
	}

	var candidates []*semver.Version
	for _, f := range floors {
		v := *f
		candidates = append(candidates, &v)
		p := v
		for i := 0; i < 3; i++ {
			p = p.IncPatch()
			q := p
			candidates = append(candidates, &q)
		}
		m := v
		for i := 0; i < 3; i++ {
			m = m.IncMinor()
			q := m
			candidates = append(candidates, &q)
		}
	}
	sort.Sort(sort.Reverse(semver.Collection(candidates)))

	var hits []string
	seen := make(map[string]struct{})
	for _, cand := range candidates {
		ok := true
		for _, c := range constraints {
			if !c.Check(cand) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		s := cand.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		hits = append(hits, s)
		if limit > 0 && len(hits) >= limit {
			break
		}
	}
	return hits
}

// FindCompatibleVersion returns the newest sampled version satisfying
// every range. The second result is false when no such version was found
// and only the fallback — the highest of the per-range floors — is
// available.
func FindCompatibleVersion(ranges []string) (string, bool) {
	if hits := CompatibleVersions(ranges, 1); len(hits) > 0 {
		return hits[0], true
	}
	var highest *semver.Version
	for _, r := range ranges {
		if f, ok := deps.RangeMinimum(r); ok && (highest == nil || f.GreaterThan(highest)) {
			highest = f
		}
	}
	if highest == nil {
		return "", false
	}
	return highest.String(), false
}

// assessRisk starts at Low and escalates one level per risk signal,
// recording a human-readable factor for each. Above Low the standard
// mitigations are attached.
func assessRisk(c deps.Conflict, changes []deps.PackageChange) deps.RiskAssessment {
	level := deps.RiskLow
	var factors []string

	escalate := func(factor string) {
		level = level.Escalate()
		factors = append(factors, factor)
	}

	if c.Severity == deps.ConflictCritical {
		escalate("the conflict itself is graded critical")
	}
	if len(changes) > 3 {
		escalate(fmt.Sprintf("%d packages are touched at once", len(changes)))
	}
	var hasRemove, hasDowngrade, hasMajor bool
	for _, ch := range changes {
		switch ch.Type {
		case deps.ChangeRemove:
			hasRemove = true
		case deps.ChangeDowngrade:
			hasDowngrade = true
		}
		if ch.Type == deps.ChangeUpdate || ch.Type == deps.ChangeDowngrade {
			if deps.CrossesMajor(ch.FromVersion, ch.ToVersion) {
				hasMajor = true
			}
		}
	}
	if hasRemove {
		escalate("a package is removed entirely")
	}
	if hasDowngrade {
		escalate("a package is downgraded")
	}
	if hasMajor {
		escalate("a change crosses a major version boundary")
	}

	var mitigations []string
	if level.Rank() > deps.RiskLow.Rank() {
		mitigations = append(mitigations, standardMitigations...)
	}
	return deps.RiskAssessment{Level: level, Factors: factors, Mitigations: mitigations}
}

// ValidateResolution reports whether a resolution is internally sound.
func ValidateResolution(r deps.Resolution) bool {
	return validateResolution(r) == ""
}

// validateResolution returns a non-empty rejection reason for unsound
// resolutions: an unparseable target version, a change moving in the wrong
// direction for its type, the same package changed twice (a
// circular-dependency signal), or critical risk with no mitigations.
func validateResolution(r deps.Resolution) string {
	seen := make(map[string]struct{})
	for _, ch := range r.Changes {
		if _, dup := seen[ch.Package]; dup {
			return fmt.Sprintf("package %s is changed more than once, which signals a circular dependency", ch.Package)
		}
		seen[ch.Package] = struct{}{}

		if ch.Type == deps.ChangeRemove {
			continue
		}
		to, err := deps.ParseVersion(ch.ToVersion)
		if err != nil {
			return fmt.Sprintf("target version %q for %s is not a valid version", ch.ToVersion, ch.Package)
		}
		from, err := deps.ParseVersion(ch.FromVersion)
		if err != nil {
			// Installs start from "not-installed"; direction checks
			// need both ends.
			continue
		}
		if ch.Type == deps.ChangeUpdate && to.LessThan(from) {
			return fmt.Sprintf("update of %s moves backwards from %s to %s", ch.Package, ch.FromVersion, ch.ToVersion)
		}
		if ch.Type == deps.ChangeDowngrade && to.GreaterThan(from) {
			return fmt.Sprintf("downgrade of %s moves forwards from %s to %s", ch.Package, ch.FromVersion, ch.ToVersion)
		}
	}
	if r.Risk.Level == deps.RiskCritical && len(r.Risk.Mitigations) == 0 {
		return "critical-risk resolution lists no mitigations"
	}
	return ""
}

func changeDirection(from, to string) deps.ChangeType {
	fv, err1 := deps.ParseVersion(from)
	tv, err2 := deps.ParseVersion(to)
	if err1 != nil || err2 != nil {
		return deps.ChangeUpdate
	}
	if tv.LessThan(fv) {
		return deps.ChangeDowngrade
	}
	return deps.ChangeUpdate
}

// requirementRanges collects the declared requirement of every participant.
func requirementRanges(c deps.Conflict) []string {
	var out []string
	for _, p := range c.Packages {
		if p.Version != "" && p.Version != "unknown" {
			out = append(out, p.Version)
		}
	}
	return out
}

// distinctNames returns the participant package names, first-seen order,
// without duplicates.
func distinctNames(c deps.Conflict) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, p := range c.Packages {
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}

// installedVersionOf finds a concrete (non-range) version among the
// participants named name, falling back to the lowest requirement floor.
func installedVersionOf(c deps.Conflict, name string) string {
	var floor *semver.Version
	for _, p := range c.Packages {
		if p.Name != name {
			continue
		}
		if !strings.ContainsAny(p.Version, "^~<>=| ") && deps.ValidVersion(p.Version) {
			return p.Version
		}
		if f, ok := deps.RangeMinimum(p.Version); ok && (floor == nil || f.LessThan(floor)) {
			floor = f
		}
	}
	if floor != nil {
		return floor.String()
	}
	return "unknown"
}

// mostConflicted picks the participant with the most declared conflicts,
// the removal of which minimizes the remaining conflict count.
func mostConflicted(c deps.Conflict) deps.ConflictingPackage {
	if len(c.Packages) == 0 {
		return deps.ConflictingPackage{Name: "unknown", Version: "unknown"}
	}
	best := c.Packages[0]
	for _, p := range c.Packages[1:] {
		if len(p.ConflictsWith) > len(best.ConflictsWith) {
			best = p
		}
	}
	return best
}

func firstName(c deps.Conflict) string {
	if len(c.Packages) == 0 {
		return "unknown"
	}
	return c.Packages[0].Name
}

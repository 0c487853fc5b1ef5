package deps

// ConflictKind identifies the category of a version conflict.
type ConflictKind string

const (
	ConflictVersionRange   ConflictKind = "version-range"
	ConflictPeerDependency ConflictKind = "peer-dependency"
	ConflictTransitive     ConflictKind = "transitive"
)

// ConflictSeverity grades a conflict. It is derived from the severities of
// the issues that make up the conflict, not reported by scanners.
type ConflictSeverity string

const (
	ConflictWarning  ConflictSeverity = "warning"
	ConflictError    ConflictSeverity = "error"
	ConflictCritical ConflictSeverity = "critical"
)

// Rank returns an integer rank for comparison (Warning=1, Critical=3).
func (s ConflictSeverity) Rank() int {
	switch s {
	case ConflictWarning:
		return 1
	case ConflictError:
		return 2
	case ConflictCritical:
		return 3
	default:
		return 0
	}
}

// ConflictingPackage is one participant in a conflict. Version holds the
// declared requirement (a range such as "^16.0.0") when one is known,
// otherwise the installed version.
type ConflictingPackage struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	RequiredBy    string   `json:"required_by,omitempty"`
	ConflictsWith []string `json:"conflicts_with,omitempty"`
}

// Conflict is a set of issues on the same package that cannot be satisfied
// simultaneously. Conflicts are derived per analysis run and never
// persisted.
type Conflict struct {
	Kind        ConflictKind         `json:"kind"`
	Packages    []ConflictingPackage `json:"packages"`
	Description string               `json:"description"`
	Severity    ConflictSeverity     `json:"severity"`
}

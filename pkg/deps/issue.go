package deps

import "fmt"

// IssueKind identifies the category of a dependency issue. The set is
// closed; every consumer dispatches exhaustively over these values.
type IssueKind string

const (
	KindOutdated        IssueKind = "outdated"
	KindMissing         IssueKind = "missing"
	KindBroken          IssueKind = "broken"
	KindPeerConflict    IssueKind = "peer-conflict"
	KindVersionMismatch IssueKind = "version-mismatch"
	KindSecurity        IssueKind = "security"
)

// Valid reports whether k is one of the defined issue kinds.
func (k IssueKind) Valid() bool {
	switch k {
	case KindOutdated, KindMissing, KindBroken, KindPeerConflict, KindVersionMismatch, KindSecurity:
		return true
	}
	return false
}

// Issue is one detected problem with a single package, as produced by a
// scanner. Issues are immutable once produced.
//
// RequiredBy and ConflictsWith carry dependency relationships as structured
// fields so that downstream grouping never has to reverse-parse the
// free-text Description.
type Issue struct {
	Kind            IssueKind `json:"kind"`
	Package         string    `json:"package"`
	CurrentVersion  string    `json:"current_version,omitempty"`
	ExpectedVersion string    `json:"expected_version,omitempty"`
	LatestVersion   string    `json:"latest_version,omitempty"`
	Severity        Severity  `json:"severity"`
	Description     string    `json:"description"`
	Fixable         bool      `json:"fixable"`
	RequiredBy      string    `json:"required_by,omitempty"`
	ConflictsWith   []string  `json:"conflicts_with,omitempty"`
}

// Key returns the deduplication identity of the issue. Empty version
// fields collapse to "unknown" so that two scanners reporting the same
// problem without version data still deduplicate.
func (i Issue) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		i.Kind, i.Package, orUnknown(i.CurrentVersion), orUnknown(i.ExpectedVersion))
}

// Vulnerability is the advisory metadata attached to a security finding.
type Vulnerability struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CVSS        float64  `json:"cvss"`
	CWE         []string `json:"cwe,omitempty"`
	References  []string `json:"references,omitempty"`
}

// SecurityIssue is a known vulnerability affecting an installed package
// version.
type SecurityIssue struct {
	Package        string           `json:"package"`
	Version        string           `json:"version"`
	Vulnerability  Vulnerability    `json:"vulnerability"`
	Severity       AdvisorySeverity `json:"severity"`
	FixedIn        string           `json:"fixed_in,omitempty"`
	PatchAvailable bool             `json:"patch_available"`
}

// Key returns the deduplication identity of the security issue.
func (s SecurityIssue) Key() string {
	return fmt.Sprintf("%s|%s|%s", s.Package, s.Version, s.Vulnerability.ID)
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

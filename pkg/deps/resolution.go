package deps

// Strategy names the approach a resolution takes to eliminate a conflict.
type Strategy string

const (
	StrategyUpdateToCompatible    Strategy = "update-to-compatible"
	StrategyDowngradeToCompatible Strategy = "downgrade-to-compatible"
	StrategyAddPeerDependency     Strategy = "add-peer-dependency"
	StrategyRemoveConflicting     Strategy = "remove-conflicting"
)

// ChangeType is the direction of a single package change.
type ChangeType string

const (
	ChangeUpdate    ChangeType = "update"
	ChangeDowngrade ChangeType = "downgrade"
	ChangeInstall   ChangeType = "install"
	ChangeRemove    ChangeType = "remove"
)

// NotInstalled is the FromVersion used for install changes of packages that
// are not yet present.
const NotInstalled = "not-installed"

// PackageChange is one concrete version change within a resolution.
// ToVersion is empty only for ChangeRemove.
type PackageChange struct {
	Package     string     `json:"package"`
	FromVersion string     `json:"from_version"`
	ToVersion   string     `json:"to_version,omitempty"`
	Type        ChangeType `json:"type"`
}

// RiskLevel grades how likely a change is to break the project.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank returns an integer rank for comparison (Low=1, Critical=4).
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether r is one of the defined risk levels.
func (r RiskLevel) Valid() bool {
	return r.Rank() > 0
}

// Escalate returns the next higher risk level. Critical stays Critical.
func (r RiskLevel) Escalate() RiskLevel {
	switch r {
	case RiskLow:
		return RiskMedium
	case RiskMedium:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// RiskAssessment explains why a resolution carries its risk level and what
// to do about it.
type RiskAssessment struct {
	Level       RiskLevel `json:"level"`
	Factors     []string  `json:"factors,omitempty"`
	Mitigations []string  `json:"mitigations,omitempty"`
}

// Resolution is a concrete, risk-assessed plan of package changes intended
// to eliminate one conflict.
type Resolution struct {
	Strategy    Strategy        `json:"strategy"`
	Changes     []PackageChange `json:"changes"`
	Explanation string          `json:"explanation"`
	Risk        RiskAssessment  `json:"risk"`
}

package deps

import (
	"fmt"
	"strings"
)

// Severity classifies how serious a dependency issue is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns an integer rank for comparison (Low=1, Critical=4).
// Unknown values rank below Low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is one of the defined severity values.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a severity string case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("invalid severity: %s", s)
	}
}

// AdvisorySeverity is the severity scale used by security advisories.
// It differs from Severity in that registries report "moderate", not
// "medium".
type AdvisorySeverity string

const (
	AdvisoryLow      AdvisorySeverity = "low"
	AdvisoryModerate AdvisorySeverity = "moderate"
	AdvisoryHigh     AdvisorySeverity = "high"
	AdvisoryCritical AdvisorySeverity = "critical"
)

// Rank returns an integer rank for comparison (Low=1, Critical=4).
func (s AdvisorySeverity) Rank() int {
	switch s {
	case AdvisoryLow:
		return 1
	case AdvisoryModerate:
		return 2
	case AdvisoryHigh:
		return 3
	case AdvisoryCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is one of the defined advisory severities.
func (s AdvisorySeverity) Valid() bool {
	return s.Rank() > 0
}

func (s AdvisorySeverity) String() string {
	return string(s)
}

// ParseAdvisorySeverity parses an advisory severity case-insensitively.
// Accepts "medium" as "moderate".
func ParseAdvisorySeverity(s string) (AdvisorySeverity, error) {
	switch strings.ToLower(s) {
	case "low":
		return AdvisoryLow, nil
	case "moderate", "medium":
		return AdvisoryModerate, nil
	case "high":
		return AdvisoryHigh, nil
	case "critical":
		return AdvisoryCritical, nil
	default:
		return "", fmt.Errorf("invalid advisory severity: %s", s)
	}
}

package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/r2708/depmender-sub000/pkg/deps"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SarifReport represents the top-level SARIF report structure
type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

// SarifRun represents a single run of the analysis tool
type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Results     []SarifResult     `json:"results"`
	Invocations []SarifInvocation `json:"invocations"`
}

// SarifTool represents the tool that performed the analysis
type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

// SarifDriver represents the driver of the tool
type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SarifRule `json:"rules"`
}

// SarifRule represents a rule that was evaluated during the analysis
type SarifRule struct {
	ID               string            `json:"id"`
	ShortDescription SarifMessage      `json:"shortDescription"`
	FullDescription  SarifMessage      `json:"fullDescription"`
	Help             SarifMessage      `json:"help"`
	Properties       map[string]string `json:"properties,omitempty"`
}

// SarifResult represents a result of the analysis
type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

// SarifMessage represents a message in the SARIF report
type SarifMessage struct {
	Text string `json:"text"`
}

// SarifLocation represents a location in the code
type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

// SarifPhysicalLocation represents a physical location in the code
type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           SarifRegion           `json:"region,omitempty"`
}

// SarifArtifactLocation represents the location of an artifact
type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifRegion represents a region in the code
type SarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// SarifInvocation represents an invocation of the tool
type SarifInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	StartTimeUtc        string `json:"startTimeUtc"`
	EndTimeUtc          string `json:"endTimeUtc"`
}

var sarifRules = []SarifRule{
	{
		ID:               "outdated",
		ShortDescription: SarifMessage{Text: "Outdated dependency"},
		FullDescription:  SarifMessage{Text: "A newer version of this dependency is available."},
		Help:             SarifMessage{Text: "Review the suggested update paths and their risk grades."},
	},
	{
		ID:               "missing",
		ShortDescription: SarifMessage{Text: "Missing dependency"},
		FullDescription:  SarifMessage{Text: "This dependency is declared in the manifest but not installed."},
		Help:             SarifMessage{Text: "Install the declared version."},
	},
	{
		ID:               "broken",
		ShortDescription: SarifMessage{Text: "Broken install"},
		FullDescription:  SarifMessage{Text: "The installed copy of this dependency is corrupted or incomplete."},
		Help:             SarifMessage{Text: "Remove and reinstall the package."},
	},
	{
		ID:               "peer-conflict",
		ShortDescription: SarifMessage{Text: "Peer dependency conflict"},
		FullDescription:  SarifMessage{Text: "A peer dependency requirement of an installed package is not satisfied."},
		Help:             SarifMessage{Text: "Install or update the peer to a compatible version."},
	},
	{
		ID:               "version-mismatch",
		ShortDescription: SarifMessage{Text: "Version mismatch"},
		FullDescription:  SarifMessage{Text: "The installed version does not match the manifest requirement."},
		Help:             SarifMessage{Text: "Align the install with the manifest, or the manifest with the install."},
	},
	{
		ID:               "security",
		ShortDescription: SarifMessage{Text: "Security vulnerability"},
		FullDescription:  SarifMessage{Text: "The installed version is affected by a known security advisory."},
		Help:             SarifMessage{Text: "Update to the patched version, or apply compensating mitigations."},
	},
}

// GenerateSarifReport converts the analysis report to SARIF format.
func GenerateSarifReport(r Report, version string) ([]byte, error) {
	results := make([]SarifResult, 0, len(r.Issues))
	for _, is := range r.Issues {
		results = append(results, SarifResult{
			RuleID: string(is.Kind),
			Level:  sarifLevel(is.Severity),
			Message: SarifMessage{
				Text: fmt.Sprintf("%s: %s", is.Package, is.Description),
			},
			Locations: []SarifLocation{
				{
					PhysicalLocation: SarifPhysicalLocation{
						ArtifactLocation: SarifArtifactLocation{
							URI: r.ProjectPath,
						},
					},
				},
			},
		})
	}

	now := time.Now().UTC()
	sarifReport := SarifReport{
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Version: "2.1.0",
		Runs: []SarifRun{
			{
				Tool: SarifTool{
					Driver: SarifDriver{
						Name:           "depmender",
						Version:        version,
						InformationURI: "https://github.com/r2708/depmender-sub000",
						Rules:          sarifRules,
					},
				},
				Results: results,
				Invocations: []SarifInvocation{
					{
						ExecutionSuccessful: true,
						StartTimeUtc:        now.Add(-time.Second).Format(time.RFC3339),
						EndTimeUtc:          now.Format(time.RFC3339),
					},
				},
			},
		},
	}

	return json.MarshalIndent(sarifReport, "", "  ")
}

func sarifLevel(s deps.Severity) string {
	switch s {
	case deps.SeverityCritical, deps.SeverityHigh:
		return "error"
	case deps.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

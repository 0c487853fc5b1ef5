package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/r2708/depmender-sub000/pkg/adapter"
	"github.com/r2708/depmender-sub000/pkg/aggregate"
	"github.com/r2708/depmender-sub000/pkg/config"
	"github.com/r2708/depmender-sub000/pkg/conflict"
	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/health"
	"github.com/r2708/depmender-sub000/pkg/output"
	"github.com/r2708/depmender-sub000/pkg/scanner"
	"github.com/r2708/depmender-sub000/pkg/suggest"
)

var analyzePath string
var format string // output format: text, json or sarif

// analyzeCmd represents the analyze subcommand
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze project dependency health",
	Long:  "Scan the project's dependencies, compute a health score, detect conflicts, and print ranked fix suggestions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FindAndLoadConfig(analyzePath)
		if err != nil {
			return err
		}
		report, err := runAnalysis(cmd.Context(), analyzePath, cfg)
		if err != nil {
			return err
		}
		return render(report, cfg)
	},
}

// runAnalysis is the full pipeline: scan concurrently, aggregate, then run
// the scorer, detector/resolver and suggestion engine over the one
// aggregated set.
func runAnalysis(ctx context.Context, path string, cfg *config.Config) (output.Report, error) {
	npm := adapter.NewNPM(path)
	sc, err := scanner.Load(path, npm)
	if err != nil {
		return output.Report{}, fmt.Errorf("analysis failed: %w", err)
	}

	registry := scanner.NewRegistry(cfg.Registries.Npm)
	advisories := scanner.NewRegistry(cfg.AdvisoryURL())
	scanners := []scanner.Scanner{
		&scanner.OutdatedScanner{Registry: registry},
		&scanner.MissingScanner{},
		&scanner.BrokenScanner{},
		&scanner.PeerScanner{},
		&scanner.SecurityScanner{Registry: advisories},
	}

	results := scanner.RunAll(ctx, sc, scanners)
	issues, vulns := aggregate.Merge(results)
	issues = dropIgnored(issues, cfg)

	conflicts := conflict.Detect(issues)
	resolutions := make([]deps.Resolution, 0, len(conflicts))
	for _, c := range conflicts {
		resolutions = append(resolutions, conflict.Resolve(c))
	}

	return output.Report{
		ProjectPath:     path,
		HealthScore:     health.Score(issues, vulns),
		Issues:          issues,
		Vulnerabilities: vulns,
		Conflicts:       conflicts,
		Plan:            conflict.ApplyResolutions(resolutions),
		Suggestions:     suggest.Generate(issues, vulns),
		Unresolvable:    conflict.ExplainUnresolvable(conflicts),
	}, nil
}

func dropIgnored(issues []deps.Issue, cfg *config.Config) []deps.Issue {
	if len(cfg.IgnorePackages) == 0 {
		return issues
	}
	kept := issues[:0]
	for _, is := range issues {
		if !cfg.IsPackageIgnored(is.Package) {
			kept = append(kept, is)
		}
	}
	return kept
}

func render(report output.Report, cfg *config.Config) error {
	if format == "" {
		format = cfg.Output.Format
	}
	switch format {
	case "json":
		out, err := output.GenerateJSONReport(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report to JSON: %w", err)
		}
		fmt.Println(string(out))
	case "sarif":
		out, err := output.GenerateSarifReport(report, Version)
		if err != nil {
			return fmt.Errorf("failed to marshal report to SARIF: %w", err)
		}
		fmt.Println(string(out))
	default:
		output.PrintTextReport(os.Stdout, report)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzePath, "path", "p", ".", "Path to project directory to analyze")
	analyzeCmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or sarif")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/r2708/depmender-sub000/pkg/adapter"
	"github.com/r2708/depmender-sub000/pkg/config"
	"github.com/r2708/depmender-sub000/pkg/deps"
	"github.com/r2708/depmender-sub000/pkg/fix"
	"github.com/r2708/depmender-sub000/pkg/logger"
)

var fixPath string
var maxRisk string
var dryRun bool

// fixCmd represents the fix subcommand
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply suggested dependency fixes",
	Long:  "Run the analysis and apply the resulting suggestions at or below the risk gate, one at a time, through the package manager.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FindAndLoadConfig(fixPath)
		if err != nil {
			return err
		}
		if maxRisk == "" {
			maxRisk = cfg.Fix.MaxRisk
		}
		gate := deps.RiskLevel(maxRisk)
		if !gate.Valid() {
			return fmt.Errorf("invalid --max-risk %q (low, medium, high or critical)", maxRisk)
		}

		report, err := runAnalysis(cmd.Context(), fixPath, cfg)
		if err != nil {
			return err
		}
		if len(report.Suggestions) == 0 {
			logger.Infof("nothing to fix")
			return nil
		}

		runner := &fix.Runner{
			Adapter: adapter.NewNPM(fixPath),
			MaxRisk: gate,
			DryRun:  dryRun || cfg.Fix.DryRun,
		}
		result := runner.Apply(cmd.Context(), report.Suggestions)

		for _, o := range result.Outcomes {
			line := fmt.Sprintf("%-8s %s", o.State, o.Suggestion.Description)
			if o.Error != "" {
				line += " (" + o.Error + ")"
			}
			logger.Infof("%s", line)
		}
		if result.RestoreBackup {
			return fmt.Errorf("a critical-risk fix failed; restore the manifest backup before retrying")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().StringVarP(&fixPath, "path", "p", ".", "Path to project directory to fix")
	fixCmd.Flags().StringVar(&maxRisk, "max-risk", "", "Highest risk level to apply automatically (low, medium, high, critical)")
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the fixes without running the package manager")
}

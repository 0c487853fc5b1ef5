package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/r2708/depmender-sub000/pkg/logger"
)

// Version is set during build using ldflags
var Version = "dev"

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "depmender",
	Short:   "Analyzes dependency health and proposes ranked fixes",
	Long:    `Depmender analyzes a project's declared and installed dependencies, computes a health score, detects version conflicts, and proposes ranked, risk-assessed remediation actions.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Package cmd defines and implements the CLI commands for the
// sanctions-watch executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/config"
	"github.com/Dateyes-glitch/sanctions-watch/internal/logging"
)

var (
	cfgFile string
	verbose bool

	appCfg    config.Config
	appLogger *zap.Logger
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanctions-watch",
		Short: "Sanctions list ingestion service",
		Long: `sanctions-watch crawls official sanctions designations from the EU,
US Treasury (OFAC), UN, and UK HM Treasury, maps every record into one
canonical entity model, and post-processes the merged data for export,
persistence, and downstream notification.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			appCfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			level := appCfg.Logging.Level
			if verbose {
				level = "debug"
			}
			appLogger, err = logging.New(level, appCfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(appLogger)
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if appLogger != nil {
				_ = appLogger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newSourcesCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

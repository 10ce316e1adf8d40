// Package cli implements the choreboard command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/config"
	"github.com/dukerupert/choreboard/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "choreboard",
	Short: "Household chore and allowance tracker",
	Long: `choreboard tracks weekly chores, one-off paid jobs and each child's
balance for a family. Run "choreboard serve" to start the JSON API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file (ignored when missing)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration from the persistent flags and builds the logger.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	tomlPath, _ := cmd.Flags().GetString("config")
	envPath, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(tomlPath, envPath)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.Setup(cfg.Log.Level, cfg.Log.Format), nil
}

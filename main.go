package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mickamy/pgexplain/internal/config"
	"github.com/mickamy/pgexplain/internal/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pgexplain",
		Short: "PostgreSQL EXPLAIN (FORMAT JSON) plan parser",
		Long: `pgexplain runs EXPLAIN (FORMAT JSON) against PostgreSQL or reads a saved
plan document, validates it, and prints the plan tree.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (JSON or YAML). Falls back to $PGEXPLAIN_CONFIG")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error or disabled")

	rootCmd.AddCommand(newRunCmd(), newParseCmd(), newVersionCmd())
	return rootCmd
}

// setup applies the configuration file and points the logger at stderr.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("PGEXPLAIN_CONFIG"))
	}
	if err := config.Apply(path); err != nil {
		return err
	}

	cfg := config.Active()
	level := cfg.Log.Level
	if cmd.Flags().Changed("log-level") {
		level, _ = cmd.Flags().GetString("log-level")
	}
	if err := logging.Setup(cmd.ErrOrStderr(), level, cfg.Log.Console); err != nil {
		return err
	}
	logging.Debug().Str("config", path).Str("command", cmd.Name()).Msg("configured")
	return nil
}

// boolFlag returns the flag value when it was set explicitly, fallback otherwise.
func boolFlag(cmd *cobra.Command, name string, fallback bool) bool {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func registerRenderFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("color", true, "Enable ANSI colors")
	cmd.Flags().Int("max-depth", 0, "Limit tree depth (0 prints the whole tree)")
}

// Package cmd implements the weathercard terminal client commands.
package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/weathercard/weathercard/internal/bootstrap"
	"github.com/weathercard/weathercard/internal/config"
)

// Version is set at compile time via ldflags.
var Version = "dev"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "weathercard",
		Short: "Current weather for a Taiwanese region from the CWA open data API",
		Long: `weathercard shows the current observation and near-term forecast for one
of Taiwan's counties and cities, themed for day or night by the local
sunrise and sunset.

The preferred region is stored in the same preference store the API server
uses, so set-region here changes what the server shows.`,
		Version:       Version,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("env-file", ".env", "Environment file to load before reading the environment")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log at the configured level instead of warnings only")

	root.AddCommand(newShowCmd())
	root.AddCommand(newRegionsCmd())
	root.AddCommand(newSetRegionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// withComponents loads configuration, wires the weather card and passes it to fn.
func withComponents(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Components) error) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr(), "weathercard-cli", Version)
	if !verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	components, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer components.Close()

	return fn(ctx, components)
}

// Package main provides the main entry point for the lexiquiz admin CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"lexiquiz/cmd/adm/commands"
	"lexiquiz/internal/config"
	"lexiquiz/internal/observability"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	// Set default config file if not already set
	if os.Getenv(config.ConfigFileEnv) == "" {
		for _, path := range []string{"../../config.yaml", "config.yaml"} {
			if _, err := os.Stat(path); err == nil {
				if err := os.Setenv(config.ConfigFileEnv, path); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to set %s: %v\n", config.ConfigFileEnv, err)
					os.Exit(1)
				}
				break
			}
		}
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The admin tool talks to no collector
	cfg.Server.LogLevel = "error"
	cfg.OpenTelemetry.EnableTracing = false
	cfg.OpenTelemetry.EnableMetrics = false
	cfg.OpenTelemetry.EnableLogging = false

	providers, err := observability.SetupObservability(&cfg.OpenTelemetry, "lexiquiz-admin", observability.ParseLevel(cfg.Server.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	rootCmd := &cobra.Command{
		Use:   "adm",
		Short: "Lexiquiz Administration Tool",
		Long: `Lexiquiz Administration Tool

Provides commands for database migrations, offline sentence validation
and reading content generation.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}

	rootCmd.AddCommand(commands.DatabaseCommands(cfg, providers.Logger))
	rootCmd.AddCommand(commands.SentenceCommands(cfg, providers.Logger))
	rootCmd.AddCommand(commands.ReadingCommands(cfg, providers.Logger))
	rootCmd.AddCommand(commands.VersionCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

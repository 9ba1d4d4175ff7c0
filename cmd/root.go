package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"specials-server/config"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "specials-server",
	Short: "Find venues with specials running near an address",
	Long: `specials-server stores venues and their specials, evaluates which specials are
running at a given instant, and answers proximity searches around a geocoded address.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", os.Getenv("SPECIALS_CONFIG"), "path to YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

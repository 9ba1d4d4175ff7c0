package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"specials-server/di"
)

var (
	flagLoadFile  string
	flagLoadPrune bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import a venue catalog into the store",
	Long: `Read a JSON venue catalog, assign IDs to venues without one, geocode venues that
only have an address and upsert everything into the configured store.

Uses catalog.path from config unless overridden with --file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := cfg.Catalog.Path
		if flagLoadFile != "" {
			path = flagLoadFile
		}

		container, err := di.NewContainer(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initializing container: %w", err)
		}
		defer container.Close()

		report, err := container.VenueCatalogService.LoadCatalog(cmd.Context(), path, flagLoadPrune)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Read %d venue(s) from %s.\n", report.Read, path)
		fmt.Fprintf(out, "Upserted %d, geocoded %d, skipped %d, duplicates %d.\n",
			report.Upserted, report.Geocoded, report.Skipped, report.Duplicates)
		if flagLoadPrune {
			fmt.Fprintf(out, "Pruned %d venue(s) missing from the catalog.\n", report.Removed)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&flagLoadFile, "file", "", "catalog file to import")
	loadCmd.Flags().BoolVar(&flagLoadPrune, "prune", false, "delete stored venues that are not in the catalog")
}

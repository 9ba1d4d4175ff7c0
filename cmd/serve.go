package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"specials-server/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		container, err := di.NewContainer(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initializing container: %w", err)
		}
		defer container.Close()

		if cfg.Catalog.LoadOnStartup {
			if _, err := container.VenueCatalogService.LoadCatalog(ctx, cfg.Catalog.Path, false); err != nil {
				log.Printf("Initial catalog load failed: %v", err)
			}
		}
		if cfg.Catalog.EnablePeriodicRefresh {
			container.VenueCatalogService.StartPeriodicJob(ctx, cfg.Catalog.Path, cfg.CatalogRefreshInterval())
		}

		return container.SpecialsHttpServer.Start(ctx)
	},
}

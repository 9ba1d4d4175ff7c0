package cmd

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"specials-server/config"
	"specials-server/migrations"
)

var flagMigrateDB string

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|up-one|down|status|version|reset>",
	Short:     "Manage the SQLite schema",
	Long:      "Run goose migrations against the SQLite store. Defaults to store.sqlite.path from config.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "up-one", "down", "status", "version", "reset"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := flagMigrateDB
		if dbPath == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.StoreDriverSQLite {
				return fmt.Errorf("store driver is %q; migrations only apply to %q", cfg.Store.Driver, config.StoreDriverSQLite)
			}
			dbPath = cfg.Store.SQLite.Path
		}

		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		return runMigration(db, args[0])
	},
}

func init() {
	migrateCmd.Flags().StringVar(&flagMigrateDB, "db", "", "path to sqlite database")
}

func runMigration(db *sql.DB, command string) error {
	if err := migrations.Setup(); err != nil {
		return err
	}

	var err error
	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "up-one":
		err = goose.UpByOne(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}

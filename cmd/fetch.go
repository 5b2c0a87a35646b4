package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"adpulse/config"
	"adpulse/db"
	"adpulse/ingest"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Run a single ingestion pass over all configured sources",
		Description: `Fetches every configured source once, saves new articles and prints
the run summary as a JSON object on stdout.

Can be run from cron as an alternative to the built-in fetch loop of the
serve command. Prints all log messages to stderr.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file (embedded defaults when empty)",
				EnvVars: []string{"ADPULSE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "SQLite database file location (overrides the config)",
				EnvVars: []string{"ADPULSE_DATABASE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the summary JSON
			log.SetOutput(os.Stderr)

			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return err
			}
			if database := ctx.String("database"); database != "" {
				cfg.App.Database = database
			}

			if err := db.Migrate(cfg.App.Database); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			writer, err := db.NewWriter(cfg.App.Database)
			if err != nil {
				return fmt.Errorf("open store for writing: %w", err)
			}
			defer writer.Close()

			summary := ingest.NewIngestor(cfg, writer).Run(ctx.Context)

			summaryJson, err := json.Marshal(summary)
			if err != nil {
				return err
			}
			fmt.Println(string(summaryJson))
			return nil
		},
	}
}

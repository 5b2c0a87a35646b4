package cmd

import (
	"fmt"

	"adpulse/db"

	"github.com/urfave/cli/v2"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the database",
		Description: `Tidy up the database by removing articles that are old.

		Removes articles published longer ago than the retention window.
		This is to keep the database size down and to keep the feed fresh.
		Ingestion itself never deletes; run this from cron if you want pruning.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "adpulse.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"ADPULSE_DATABASE"},
			},
			&cli.IntFlag{
				Name:    "retention-days",
				Aliases: []string{"r"},
				Value:   7,
				Usage:   "Remove articles published more than this many days ago",
				EnvVars: []string{"ADPULSE_RETENTION_DAYS"},
			},
		},
		Action: func(ctx *cli.Context) error {
			database := ctx.String("database")
			fmt.Println("Database configured: ", database)
			removed, err := db.Tidy(database, ctx.Int("retention-days"))
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d articles\n", removed)
			return nil
		},
	}
}

package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "adpulse",
		Usage: "An ad industry news, podcast and social feed aggregator",
		Description: `AdTech Pulse aggregates RSS/Atom feeds from ad industry news sites,
		podcasts and social RSS bridges (Reddit, Bluesky, Hacker News, Substack)
		into a single deduplicated, categorized article store.

		Articles are auto-classified by keyword scoring against a configurable
		category taxonomy, written once per unique link, and served over an
		HTTP JSON API.

		Flags can generally be set via environment variables, e.g.:

		--database => ADPULSE_DATABASE=adpulse.db
		--port => ADPULSE_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
			migrateCmd(),
			rollbackCmd(),
			tidyCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

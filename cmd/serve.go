package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"adpulse/config"
	"adpulse/db"
	"adpulse/ingest"
	"adpulse/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the AdTech Pulse API",
		Description: `Starts the ingestion loop and the HTTP server.

Runs database migrations, fetches all configured sources on startup (unless
disabled in the config), refetches them on the configured interval, and
serves the article store over an HTTP JSON API.`,
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
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "HTTP port to listen on (overrides the config)",
				EnvVars: []string{"ADPULSE_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return err
			}
			if database := ctx.String("database"); database != "" {
				cfg.App.Database = database
			}
			if port := ctx.Int("port"); port != 0 {
				cfg.App.Port = port
			}

			// A store that cannot be prepared is fatal: nothing can be
			// persisted without it.
			if err := db.Migrate(cfg.App.Database); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			writer, err := db.NewWriter(cfg.App.Database)
			if err != nil {
				return fmt.Errorf("open store for writing: %w", err)
			}
			defer writer.Close()
			reader, err := db.NewReader(cfg.App.Database)
			if err != nil {
				return fmt.Errorf("open store for reading: %w", err)
			}
			defer reader.Close()

			ingestor := ingest.NewIngestor(cfg, writer)
			app := server.Server(&server.ServerConfig{
				Config:   cfg,
				Reader:   reader,
				Ingestor: ingestor,
			})

			runCtx, cancel := context.WithCancel(ctx.Context)
			defer cancel()

			interval := cfg.App.FetchIntervalMinutes
			if interval < 1 {
				interval = 60
			}

			go func() {
				if cfg.App.StartupFetch {
					log.Info("Fetching initial content...")
					ingestor.Run(runCtx)
				}
				ticker := time.NewTicker(time.Duration(interval) * time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-runCtx.Done():
						return
					case <-ticker.C:
						ingestor.Run(runCtx)
					}
				}
			}()

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			go func() {
				<-c
				log.Info("Gracefully shutting down...")
				cancel()
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.Error("Error shutting down server", err)
				}
			}()

			log.WithFields(log.Fields{
				"port":     cfg.App.Port,
				"interval": interval,
			}).Infof("%s is running", cfg.App.Name)

			return app.Listen(fmt.Sprintf(":%d", cfg.App.Port))
		},
	}
}

package server

import (
	"strings"
	"time"

	"adpulse/config"
	"adpulse/db"
	"adpulse/ingest"
	"adpulse/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type ServerConfig struct {

	// Application configuration, including the category taxonomy
	Config *config.Config

	// The reader to use for article queries
	Reader *db.Reader

	// Ingestor behind the manual refresh endpoint
	Ingestor *ingest.Ingestor
}

// Returns a fiber.App instance serving the adpulse JSON API
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New(fiber.Config{
		AppName: config.Config.App.Name,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	// Home feed: the latest news plus a strip of recent podcast episodes
	app.Get("/", func(c *fiber.Ctx) error {
		news, err := config.Reader.LatestArticles(20, "news", "")
		if err != nil {
			return queryError(c, err, "Error getting latest news")
		}
		podcasts, err := config.Reader.LatestArticles(5, "podcast", "")
		if err != nil {
			return queryError(c, err, "Error getting latest podcasts")
		}
		total, err := config.Reader.CountArticles()
		if err != nil {
			return queryError(c, err, "Error counting articles")
		}

		return c.JSON(fiber.Map{
			"appName":       config.Config.App.Name,
			"tagline":       config.Config.App.Tagline,
			"news":          news,
			"podcasts":      podcasts,
			"totalArticles": total,
		})
	})

	app.Get("/categories/:name", func(c *fiber.Ctx) error {
		name := c.Params("name")

		articles, err := config.Reader.LatestArticles(30, "", name)
		if err != nil {
			return queryError(c, err, "Error getting category articles")
		}

		return c.JSON(fiber.Map{
			"category":    name,
			"displayName": config.Config.DisplayName(name),
			"articles":    articles,
		})
	})

	app.Get("/podcasts", func(c *fiber.Ctx) error {
		episodes, err := config.Reader.LatestArticles(30, "podcast", "")
		if err != nil {
			return queryError(c, err, "Error getting podcast episodes")
		}

		return c.JSON(fiber.Map{
			"episodes": episodes,
		})
	})

	app.Get("/search", func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("q", ""))

		results := []models.Article{}
		if query != "" {
			articles, err := config.Reader.SearchArticles(query, 30)
			if err != nil {
				return queryError(c, err, "Error searching articles")
			}
			results = append(results, articles...)
		}

		return c.JSON(fiber.Map{
			"query":   query,
			"results": results,
		})
	})

	app.Get("/about", func(c *fiber.Ctx) error {
		sourceCounts, err := config.Reader.CountBySource()
		if err != nil {
			return queryError(c, err, "Error counting by source")
		}
		categoryCounts, err := config.Reader.CountByCategory()
		if err != nil {
			return queryError(c, err, "Error counting by category")
		}
		total, err := config.Reader.CountArticles()
		if err != nil {
			return queryError(c, err, "Error counting articles")
		}

		return c.JSON(fiber.Map{
			"appName":        config.Config.App.Name,
			"tagline":        config.Config.App.Tagline,
			"totalArticles":  total,
			"sourceCounts":   sourceCounts,
			"categoryCounts": categoryCounts,
		})
	})

	// Manual refresh. Always answers with a run summary, even when every
	// source failed.
	app.Post("/refresh", func(c *fiber.Ctx) error {
		summary := config.Ingestor.Run(c.Context())
		return c.JSON(summary)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}

func queryError(c *fiber.Ctx, err error, message string) error {
	log.WithFields(log.Fields{
		"error": err,
	}).Error(message)
	return c.Status(fiber.StatusInternalServerError).SendString(message)
}

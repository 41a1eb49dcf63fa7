package main

import (
	"os"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (defaults to the DB_* settings)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func dbURL(c *cli.Context, cfg *config.Config) string {
	if v := c.String("db-url"); v != "" {
		return v
	}
	return cfg.Database.ConnString()
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seed",
		Usage: "Generate, load and inspect supply chain datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			migrateCommand(),
			importCommand(),
			analyzeCommand(),
			pullCommand(),
		},
	}
}

package main

import (
	"fmt"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/ingest"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/logistics-analytics/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the record store tables",
		Action: func(c *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			db, err := postgres.NewDB(c.Context, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(c.Context); err != nil {
				return err
			}
			logger.Log.Info().Msg("schema is up to date")
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Bulk load CSV or XLSX tables into Postgres",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:     "records",
				Usage:    "Record table (.csv or .xlsx)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "suppliers",
				Usage: "Supplier table (.csv or .xlsx)",
			},
			&cli.BoolFlag{
				Name:  "append",
				Usage: "Append records instead of replacing the table",
			},
		},
		Action: runImport,
	}
}

func runImport(c *cli.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	records, err := ingest.ReadRecordsFile(c.String("records"))
	if err != nil {
		return err
	}

	loader, err := postgres.NewLoader(c.Context, dbURL(c, cfg))
	if err != nil {
		return err
	}
	defer loader.Close(c.Context)

	loaded, err := loader.LoadRecords(c.Context, records, c.Bool("append"))
	if err != nil {
		return err
	}
	logger.Log.Info().Int64("records", loaded).Bool("append", c.Bool("append")).Msg("records loaded")

	if path := c.String("suppliers"); path != "" {
		suppliers, err := ingest.ReadSuppliersFile(path)
		if err != nil {
			return err
		}
		if err := loader.LoadSuppliers(c.Context, suppliers); err != nil {
			return err
		}
		logger.Log.Info().Int("suppliers", len(suppliers)).Msg("suppliers loaded")
	}

	return nil
}

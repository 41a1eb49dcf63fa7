package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/ingest"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/sample"
	"github.com/andresuchdata/logistics-analytics/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

const (
	recordsFileName   = "records.csv"
	suppliersFileName = "suppliers.csv"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Write a deterministic sample dataset as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out-dir",
				Usage:   "Directory the CSV files are written to",
				Value:   "./data/seeds",
				EnvVars: []string{"SEED_DATA_DIR"},
			},
			&cli.IntFlag{Name: "days", Usage: "Number of daily records", Value: sample.DefaultDays},
			&cli.Uint64Flag{Name: "seed", Usage: "Random seed", Value: sample.DefaultSeed},
			&cli.TimestampFlag{
				Name:   "now",
				Usage:  "Timestamp of the newest record (RFC3339, defaults to the current time)",
				Layout: time.RFC3339,
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	opts := sample.Options{
		Days:    c.Int("days"),
		Seed:    c.Uint64("seed"),
		Catalog: cfg.Catalog,
	}
	if now := c.Timestamp("now"); now != nil {
		opts.Now = *now
	}
	data := sample.Generate(opts)

	outDir := c.String("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	recordsPath := filepath.Join(outDir, recordsFileName)
	if err := writeFile(recordsPath, func(f *os.File) error { return ingest.WriteRecordsCSV(f, data.Records) }); err != nil {
		return err
	}
	suppliersPath := filepath.Join(outDir, suppliersFileName)
	if err := writeFile(suppliersPath, func(f *os.File) error { return ingest.WriteSuppliersCSV(f, data.Suppliers) }); err != nil {
		return err
	}

	logger.Log.Info().
		Str("records_file", recordsPath).
		Int("records", len(data.Records)).
		Str("suppliers_file", suppliersPath).
		Int("suppliers", len(data.Suppliers)).
		Msg("sample dataset written")
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

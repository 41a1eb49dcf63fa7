package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/analytics"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/ingest"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/sample"
	"github.com/urfave/cli/v2"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Print the dashboard and clusters for a dataset as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "records", Usage: "Record table; the sample dataset is used when empty"},
			&cli.StringFlag{Name: "suppliers", Usage: "Supplier table"},
			&cli.StringFlag{Name: "state", Value: domain.AllStates},
			&cli.StringFlag{Name: "product", Value: domain.AllProducts},
			&cli.StringFlag{Name: "time-range", Value: string(domain.DefaultTimeRange)},
			&cli.StringFlag{Name: "forecast-product"},
			&cli.IntFlag{Name: "k", Value: analytics.DefaultClusters},
			&cli.IntFlag{Name: "iterations", Value: analytics.DefaultIterations},
			&cli.BoolFlag{Name: "stop-when-stable"},
		},
		Action: runAnalyze,
	}
}

type analysis struct {
	Dashboard domain.Dashboard     `json:"dashboard"`
	Clusters  domain.ClusterResult `json:"clusters"`
}

func runAnalyze(c *cli.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	timeRange, err := domain.ParseTimeRange(c.String("time-range"))
	if err != nil {
		return err
	}

	data, err := loadDataset(c, cfg)
	if err != nil {
		return err
	}

	filter := domain.DashboardFilter{
		RecordFilter: domain.RecordFilter{
			State:   domain.ParseSelector(c.String("state"), domain.AllStates),
			Product: domain.ParseSelector(c.String("product"), domain.AllProducts),
			Range:   timeRange,
		},
		ForecastProduct: c.String("forecast-product"),
		LedgerLimit:     cfg.Analytics.LedgerLimit,
		SmoothingWindow: cfg.Analytics.SmoothingWindow,
	}

	out := analysis{
		Dashboard: analytics.BuildDashboard(data, filter, cfg.Catalog, time.Now()),
		Clusters: analytics.KMeans(analytics.ApplyFilter(data.Records, filter.RecordFilter), analytics.KMeansOptions{
			K:              c.Int("k"),
			Iterations:     c.Int("iterations"),
			StopWhenStable: c.Bool("stop-when-stable"),
		}),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return nil
}

func loadDataset(c *cli.Context, cfg *config.Config) (domain.Dataset, error) {
	path := c.String("records")
	if path == "" {
		return sample.Generate(sample.Options{
			Days:    cfg.Analytics.SampleDays,
			Seed:    cfg.Analytics.SampleSeed,
			Catalog: cfg.Catalog,
		}), nil
	}

	records, err := ingest.ReadRecordsFile(path)
	if err != nil {
		return domain.Dataset{}, err
	}
	data := domain.Dataset{Records: records}

	if path := c.String("suppliers"); path != "" {
		if data.Suppliers, err = ingest.ReadSuppliersFile(path); err != nil {
			return domain.Dataset{}, err
		}
	}
	return data, nil
}

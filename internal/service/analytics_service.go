package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/analytics"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/cache"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/sample"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrSupplierNotFound = errors.New("supplier not found")

// AnalyticsService runs the analytics engine over the record store.
type AnalyticsService struct {
	repo       repository.RecordRepository
	dashboards cache.DashboardCache
	clusters   cache.ClusterCache
	catalog    domain.Catalog
	cfg        config.AnalyticsConfig
	now        func() time.Time
}

type AnalyticsOption func(*AnalyticsService)

// WithClock replaces time.Now, which stamps sample data and ledger status.
func WithClock(now func() time.Time) AnalyticsOption {
	return func(s *AnalyticsService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewAnalyticsService(
	repo repository.RecordRepository,
	dashboards cache.DashboardCache,
	clusters cache.ClusterCache,
	catalog domain.Catalog,
	cfg config.AnalyticsConfig,
	opts ...AnalyticsOption,
) *AnalyticsService {
	if dashboards == nil {
		dashboards = cache.NewNoopDashboardCache()
	}
	if clusters == nil {
		clusters = cache.NewNoopClusterCache()
	}
	s := &AnalyticsService{
		repo:       repo,
		dashboards: dashboards,
		clusters:   clusters,
		catalog:    catalog.Merge(domain.DefaultCatalog()),
		cfg:        cfg,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the categorical values clients may filter on.
func (s *AnalyticsService) Catalog() domain.Catalog {
	return s.catalog
}

// Normalize fills unset numeric options from configuration and the engine
// defaults.
func (s *AnalyticsService) Normalize(f domain.DashboardFilter) domain.DashboardFilter {
	if f.Range == "" {
		f.Range = domain.DefaultTimeRange
	}
	if f.Clusters <= 0 {
		f.Clusters = s.cfg.Clusters
	}
	if f.Iterations <= 0 {
		f.Iterations = s.cfg.Iterations
	}
	if !f.StopWhenStable.IsSet() {
		f.StopWhenStable = domain.ToggleOf(s.cfg.StopWhenStable)
	}
	if f.LedgerLimit <= 0 {
		f.LedgerLimit = s.cfg.LedgerLimit
	}
	if f.SmoothingWindow <= 0 {
		f.SmoothingWindow = s.cfg.SmoothingWindow
	}
	return f
}

// Dataset loads records and suppliers concurrently. When the fallback is
// enabled an empty record store yields the generated sample dataset, and an
// empty supplier store yields the sample supplier metadata.
func (s *AnalyticsService) Dataset(ctx context.Context) (domain.Dataset, error) {
	var data domain.Dataset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.repo.ListRecords(gctx)
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}
		data.Records = records
		return nil
	})
	g.Go(func() error {
		suppliers, err := s.repo.ListSuppliers(gctx)
		if err != nil {
			return fmt.Errorf("list suppliers: %w", err)
		}
		data.Suppliers = suppliers
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Dataset{}, err
	}

	if !s.cfg.SampleFallback {
		return data, nil
	}
	switch {
	case len(data.Records) == 0:
		log.Debug().Msg("analytics: record store empty, using sample data")
		return s.sampleDataset(), nil
	case len(data.Suppliers) == 0:
		log.Debug().Msg("analytics: supplier store empty, using sample supplier metadata")
		data.Suppliers = s.sampleDataset().Suppliers
	}
	return data, nil
}

func (s *AnalyticsService) sampleDataset() domain.Dataset {
	return sample.Generate(sample.Options{
		Days:    s.cfg.SampleDays,
		Seed:    s.cfg.SampleSeed,
		Now:     s.now(),
		Catalog: s.catalog,
	})
}

func (s *AnalyticsService) Dashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, error) {
	filter = s.Normalize(filter)

	if dashboard, ok, err := s.dashboards.GetDashboard(ctx, filter); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get dashboard failed")
	}

	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := analytics.BuildDashboard(data, filter, s.catalog, s.now())

	if err := s.dashboards.SetDashboard(ctx, filter, &dashboard); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set dashboard failed")
	}

	return &dashboard, nil
}

func (s *AnalyticsService) KPIs(ctx context.Context, filter domain.DashboardFilter) ([]domain.KPIStat, error) {
	dashboard, err := s.Dashboard(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dashboard.KPIs, nil
}

func (s *AnalyticsService) Breakdown(ctx context.Context, filter domain.DashboardFilter) ([]domain.CategoryStock, error) {
	dashboard, err := s.Dashboard(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dashboard.Breakdown, nil
}

func (s *AnalyticsService) Forecast(ctx context.Context, filter domain.DashboardFilter) (*domain.ForecastSeries, error) {
	dashboard, err := s.Dashboard(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dashboard.Forecast, nil
}

func (s *AnalyticsService) Trend(ctx context.Context, filter domain.DashboardFilter) ([]domain.TrendPoint, error) {
	dashboard, err := s.Dashboard(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dashboard.Trend, nil
}

func (s *AnalyticsService) Ledger(ctx context.Context, filter domain.DashboardFilter) ([]domain.LedgerEntry, error) {
	dashboard, err := s.Dashboard(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dashboard.Ledger, nil
}

// Clusters runs k-means over the filtered records.
func (s *AnalyticsService) Clusters(ctx context.Context, filter domain.DashboardFilter) (*domain.ClusterResult, error) {
	filter = s.Normalize(filter)

	if result, ok, err := s.clusters.GetClusters(ctx, filter); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get clusters failed")
	}

	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	result := analytics.KMeans(analytics.ApplyFilter(data.Records, filter.RecordFilter), analytics.KMeansOptions{
		K:              filter.Clusters,
		Iterations:     filter.Iterations,
		StopWhenStable: filter.StopWhenStable.Enabled(),
	})

	if err := s.clusters.SetClusters(ctx, filter, &result); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set clusters failed")
	}

	return &result, nil
}

func (s *AnalyticsService) Suppliers(ctx context.Context) ([]domain.SupplierRecord, error) {
	data, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	if data.Suppliers == nil {
		return []domain.SupplierRecord{}, nil
	}
	return data.Suppliers, nil
}

func (s *AnalyticsService) Supplier(ctx context.Context, name string) (*domain.SupplierRecord, error) {
	suppliers, err := s.Suppliers(ctx)
	if err != nil {
		return nil, err
	}
	supplier, ok := analytics.NewSupplierIndex(suppliers).Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, name)
	}
	return &supplier, nil
}

// InvalidateCaches drops every cached dashboard and clustering run.
func (s *AnalyticsService) InvalidateCaches(ctx context.Context) {
	if err := s.dashboards.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("analytics: cache invalidate dashboards failed")
	}
	if err := s.clusters.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("analytics: cache invalidate clusters failed")
	}
}

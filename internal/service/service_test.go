package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/ingest"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func analyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		Clusters:        3,
		Iterations:      10,
		LedgerLimit:     20,
		SmoothingWindow: 7,
		SampleFallback:  true,
		SampleSeed:      42,
		SampleDays:      200,
	}
}

func records(n int) []domain.SupplyChainRecord {
	out := make([]domain.SupplyChainRecord, n)
	for i := range out {
		product := "Electronics"
		if i%2 == 1 {
			product = "Textiles"
		}
		out[i] = domain.SupplyChainRecord{
			ID:               string(rune('a' + i)),
			Timestamp:        fixedNow.AddDate(0, 0, i-n),
			State:            "Delhi",
			Product:          product,
			Supplier:         "Apex Logistics",
			InventoryLevel:   100,
			PlannedInventory: 120,
			LeadTime:         float64(3 + i%3),
			PlannedLeadTime:  5,
			Cost:             float64(100 * (i + 1)),
			Demand:           float64(10 + i),
			DeliveryDate:     fixedNow.AddDate(0, 0, i-n+2),
			Destination:      "Main Hub",
		}
	}
	return out
}

// countingDashboards remembers every stored dashboard.
type countingDashboards struct {
	mu          sync.Mutex
	stored      map[domain.DashboardFilter]*domain.Dashboard
	sets        int
	invalidated int
	getErr      error
}

func newCountingDashboards() *countingDashboards {
	return &countingDashboards{stored: map[domain.DashboardFilter]*domain.Dashboard{}}
}

func (c *countingDashboards) GetDashboard(_ context.Context, f domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.stored[f]
	return d, ok, nil
}

func (c *countingDashboards) SetDashboard(_ context.Context, f domain.DashboardFilter, d *domain.Dashboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.stored[f] = d
	return nil
}

func (c *countingDashboards) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.stored = map[domain.DashboardFilter]*domain.Dashboard{}
	return nil
}

func newService(t *testing.T, repo repository.RecordRepository, cfg config.AnalyticsConfig) *AnalyticsService {
	t.Helper()
	return NewAnalyticsService(repo, nil, nil, domain.DefaultCatalog(), cfg, WithClock(func() time.Time { return fixedNow }))
}

func TestAnalyticsService_SampleFallback(t *testing.T) {
	svc := newService(t, repository.NewMemoryRepository(), analyticsConfig())

	data, err := svc.Dataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Records, 200)
	assert.Len(t, data.Suppliers, len(domain.DefaultCatalog().Suppliers))
	assert.Equal(t, fixedNow, data.Records[len(data.Records)-1].Timestamp)

	cfg := analyticsConfig()
	cfg.SampleFallback = false
	svc = newService(t, repository.NewMemoryRepository(), cfg)
	data, err = svc.Dataset(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.Records)
}

func TestAnalyticsService_SampleSuppliersForRecordsOnlyStore(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	recs := records(3)
	recs[2].Supplier = "Blue Dart"
	require.NoError(t, repo.ReplaceRecords(ctx, recs))

	svc := newService(t, repo, analyticsConfig())
	data, err := svc.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Records, 3)
	assert.Len(t, data.Suppliers, len(domain.DefaultCatalog().Suppliers))

	dashboard, err := svc.Dashboard(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	require.Equal(t, "c", dashboard.Ledger[0].ID)
	assert.NotEqual(t, "unknown", dashboard.Ledger[0].ReliabilityLabel)
	assert.Equal(t, "unknown", dashboard.Ledger[1].ReliabilityLabel)

	supplier, err := svc.Supplier(ctx, "Blue Dart")
	require.NoError(t, err)
	assert.Equal(t, domain.ContractActive, supplier.ContractStatus)

	cfg := analyticsConfig()
	cfg.SampleFallback = false
	data, err = newService(t, repo, cfg).Dataset(ctx)
	require.NoError(t, err)
	assert.Empty(t, data.Suppliers)
}

func TestAnalyticsService_DashboardUsesStore(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.ReplaceRecords(ctx, records(10)))

	svc := newService(t, repo, analyticsConfig())
	dashboard, err := svc.Dashboard(ctx, domain.DashboardFilter{})
	require.NoError(t, err)

	assert.Equal(t, 10, dashboard.Records)
	assert.Len(t, dashboard.KPIs, 4)
	assert.Len(t, dashboard.Trend, 10)
	assert.Len(t, dashboard.Ledger, 10)
	assert.Equal(t, "j", dashboard.Ledger[0].ID)
	assert.Equal(t, domain.DefaultTimeRange, dashboard.Filter.TimeRange)
	assert.Equal(t, domain.AllStates, dashboard.Filter.State)

	kpis, err := svc.KPIs(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, dashboard.KPIs, kpis)

	trend, err := svc.Trend(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, dashboard.Trend, trend)

	breakdown, err := svc.Breakdown(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Len(t, breakdown, len(domain.DefaultCatalog().Products))

	forecast, err := svc.Forecast(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog().Products[0], forecast.Product)

	ledger, err := svc.Ledger(ctx, domain.DashboardFilter{LedgerLimit: 3})
	require.NoError(t, err)
	assert.Len(t, ledger, 3)
}

func TestAnalyticsService_DashboardCaching(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.ReplaceRecords(ctx, records(6)))

	dashboards := newCountingDashboards()
	svc := NewAnalyticsService(repo, dashboards, nil, domain.DefaultCatalog(), analyticsConfig(),
		WithClock(func() time.Time { return fixedNow }))

	first, err := svc.Dashboard(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceRecords(ctx, records(2)))

	second, err := svc.Dashboard(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, dashboards.sets)

	svc.InvalidateCaches(ctx)
	third, err := svc.Dashboard(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, third.Records)
	assert.Equal(t, 1, dashboards.invalidated)
}

func TestAnalyticsService_CacheErrorsIgnored(t *testing.T) {
	ctx := context.Background()
	dashboards := newCountingDashboards()
	dashboards.getErr = errors.New("redis down")

	svc := NewAnalyticsService(repository.NewMemoryRepository(), dashboards, nil, domain.DefaultCatalog(), analyticsConfig(),
		WithClock(func() time.Time { return fixedNow }))

	dashboard, err := svc.Dashboard(ctx, domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 30, dashboard.Records)
}

func TestAnalyticsService_Normalize(t *testing.T) {
	cfg := analyticsConfig()
	cfg.StopWhenStable = true
	svc := newService(t, repository.NewMemoryRepository(), cfg)

	f := svc.Normalize(domain.DashboardFilter{})
	assert.Equal(t, domain.Range30d, f.Range)
	assert.Equal(t, 3, f.Clusters)
	assert.Equal(t, 10, f.Iterations)
	assert.Equal(t, domain.ToggleOn, f.StopWhenStable)
	assert.Equal(t, 20, f.LedgerLimit)
	assert.Equal(t, 7, f.SmoothingWindow)

	f = svc.Normalize(domain.DashboardFilter{
		RecordFilter: domain.RecordFilter{Range: domain.Range7d},
		Clusters:     5,
		LedgerLimit:  2,
	})
	assert.Equal(t, domain.Range7d, f.Range)
	assert.Equal(t, 5, f.Clusters)
	assert.Equal(t, 2, f.LedgerLimit)

	f = svc.Normalize(domain.DashboardFilter{StopWhenStable: domain.ToggleOff})
	assert.Equal(t, domain.ToggleOff, f.StopWhenStable)
}

func TestAnalyticsService_ClustersExplicitFixedRounds(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.ReplaceRecords(ctx, records(8)))
	cfg := analyticsConfig()
	cfg.StopWhenStable = true
	svc := newService(t, repo, cfg)

	early, err := svc.Clusters(ctx, domain.DashboardFilter{Clusters: 2})
	require.NoError(t, err)
	assert.Less(t, early.Rounds, cfg.Iterations)

	fixed, err := svc.Clusters(ctx, domain.DashboardFilter{Clusters: 2, StopWhenStable: domain.ToggleOff})
	require.NoError(t, err)
	assert.Equal(t, cfg.Iterations, fixed.Rounds)
	assert.Equal(t, early.Points, fixed.Points)
}

func TestAnalyticsService_Clusters(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.ReplaceRecords(ctx, records(8)))
	svc := newService(t, repo, analyticsConfig())

	result, err := svc.Clusters(ctx, domain.DashboardFilter{Clusters: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, result.K)
	assert.Len(t, result.Points, 8)
	assert.Len(t, result.Centroids, 2)

	filtered, err := svc.Clusters(ctx, domain.DashboardFilter{
		RecordFilter: domain.RecordFilter{Product: domain.Exactly("Textiles")},
		Clusters:     2,
	})
	require.NoError(t, err)
	assert.Len(t, filtered.Points, 4)
}

func TestAnalyticsService_Suppliers(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.ReplaceRecords(ctx, records(2)))
	require.NoError(t, repo.ReplaceSuppliers(ctx, []domain.SupplierRecord{
		{Name: "Apex Logistics", Reliability: 93, ContractStatus: domain.ContractActive},
	}))
	svc := newService(t, repo, analyticsConfig())

	suppliers, err := svc.Suppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)

	supplier, err := svc.Supplier(ctx, "Apex Logistics")
	require.NoError(t, err)
	assert.Equal(t, 93.0, supplier.Reliability)

	_, err = svc.Supplier(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrSupplierNotFound)

	assert.Equal(t, domain.DefaultCatalog(), svc.Catalog())
}

type recordingInvalidator struct{ calls int }

func (r *recordingInvalidator) InvalidateCaches(context.Context) { r.calls++ }

type memoryArchive struct {
	objects map[string][]byte
	fail    bool
}

func (m *memoryArchive) ListObjects(context.Context, string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (m *memoryArchive) DownloadObject(context.Context, string, string) error {
	return nil
}

func (m *memoryArchive) UploadObject(_ context.Context, key string, data []byte) error {
	if m.fail {
		return errors.New("bucket unavailable")
	}
	m.objects[key] = data
	return nil
}

const recordsCSV = "id,timestamp,state,product,supplier,inventoryLevel,plannedInventory,leadTime,plannedLeadTime,cost,demand,deliveryDate,destination\n" +
	"r1,2025-05-01,Delhi,Textiles,Apex Logistics,50,60,4,5,900,12,2025-05-03,Main Hub\n" +
	"r2,2025-05-02,Karnataka,Electronics,Apex Logistics,70,80,6,5,1200,20,2025-05-05,Main Hub\n"

const suppliersCSV = "name,rating,reliability,baseLeadTime,contactEmail,contractStatus\n" +
	"Apex Logistics,4.5,93,4,ops@apex.com,Active\n"

func TestImportService_Import(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	caches := &recordingInvalidator{}
	archive := &memoryArchive{objects: map[string][]byte{}}

	svc := NewImportService(repo, caches, archive, "imports")
	svc.now = func() time.Time { return fixedNow }

	result, err := svc.Import(ctx, ImportRequest{
		Records:   ImportFile{Name: "records.csv", Data: []byte(recordsCSV)},
		Suppliers: &ImportFile{Name: "suppliers.csv", Data: []byte(suppliersCSV)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 1, result.Suppliers)
	assert.Equal(t, fixedNow, result.ImportedAt)
	assert.Len(t, result.Archived, 2)
	assert.Equal(t, 1, caches.calls)
	for _, key := range result.Archived {
		assert.Contains(t, archive.objects, key)
	}

	stored, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "r1", stored[0].ID)
	assert.Equal(t, "Karnataka", stored[1].State)

	supplier, err := repo.GetSupplier(ctx, "Apex Logistics")
	require.NoError(t, err)
	assert.Equal(t, 4.5, supplier.Rating)
}

func TestImportService_KeepsSuppliersWhenOmitted(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.ReplaceSuppliers(ctx, []domain.SupplierRecord{{Name: "Kept"}}))

	svc := NewImportService(repo, nil, nil, "")
	result, err := svc.Import(ctx, ImportRequest{Records: ImportFile{Name: "r.csv", Data: []byte(recordsCSV)}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Suppliers)
	assert.Nil(t, result.Archived)

	suppliers, err := repo.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.SupplierRecord{{Name: "Kept"}}, suppliers)
}

func TestImportService_Errors(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := NewImportService(repo, nil, nil, "")

	_, err := svc.Import(ctx, ImportRequest{Records: ImportFile{Name: "r.txt", Data: []byte(recordsCSV)}})
	assert.ErrorIs(t, err, ErrInvalidImport)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)

	_, err = svc.Import(ctx, ImportRequest{Records: ImportFile{Name: "r.csv", Data: []byte("id,state\n")}})
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = svc.ImportPaths(ctx, nil, nil)
	assert.ErrorIs(t, err, ErrNoRecords)

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestImportService_ArchiveFailureDoesNotFailImport(t *testing.T) {
	archive := &memoryArchive{objects: map[string][]byte{}, fail: true}
	svc := NewImportService(repository.NewMemoryRepository(), nil, archive, "imports")

	result, err := svc.Import(context.Background(), ImportRequest{Records: ImportFile{Name: "r.csv", Data: []byte(recordsCSV)}})
	require.NoError(t, err)
	assert.Empty(t, result.Archived)
	assert.Equal(t, 2, result.Records)
}

func TestImportService_ImportPaths(t *testing.T) {
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "records.csv")
	suppliersPath := filepath.Join(dir, "suppliers.csv")
	require.NoError(t, os.WriteFile(recordsPath, []byte(recordsCSV), 0o644))
	require.NoError(t, os.WriteFile(suppliersPath, []byte(suppliersCSV), 0o644))

	svc := NewImportService(repository.NewMemoryRepository(), nil, nil, "")
	result, err := svc.ImportPaths(context.Background(),
		&domain.UploadedFile{Path: recordsPath},
		&domain.UploadedFile{Filename: "suppliers.csv", Path: suppliersPath},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 1, result.Suppliers)

	_, err = svc.ImportPaths(context.Background(), &domain.UploadedFile{Path: filepath.Join(dir, "missing.csv")}, nil)
	assert.Error(t, err)
}

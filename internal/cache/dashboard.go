package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const dashboardKeyPrefix = "analytics:dashboard"

// DashboardCache stores computed dashboards per filter. A miss is (nil, false, nil).
type DashboardCache interface {
	GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return newRedisDashboardCache(client, ttl), nil
}

func newRedisDashboardCache(client *redis.Client, ttl time.Duration) *redisDashboardCache {
	return &redisDashboardCache{client: client, ttl: ttl}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	key := buildDashboardKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) SetDashboard(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error {
	key := buildDashboardKey(filter)
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDashboard(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildDashboardKey covers every filter field that changes the dashboard.
func buildDashboardKey(filter domain.DashboardFilter) string {
	return hashedKey(dashboardKeyPrefix,
		"state"+selectorKey(filter.State),
		"product"+selectorKey(filter.Product),
		"range="+string(filter.Range),
		"forecast="+filter.ForecastProduct,
		"ledger="+strconv.Itoa(filter.LedgerLimit),
		"window="+strconv.Itoa(filter.SmoothingWindow),
	)
}

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

const clusterKeyPrefix = "analytics:clusters"

// ClusterCache stores supplier clustering runs per filter and options.
type ClusterCache interface {
	GetClusters(ctx context.Context, filter domain.DashboardFilter) (*domain.ClusterResult, bool, error)
	SetClusters(ctx context.Context, filter domain.DashboardFilter, result *domain.ClusterResult) error
	InvalidateAll(ctx context.Context) error
}

type redisClusterCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopClusterCache struct{}

func NewClusterCache(cfg config.CacheConfig) (ClusterCache, error) {
	if !cfg.Enabled {
		return &noopClusterCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisClusterCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopClusterCache() ClusterCache {
	return &noopClusterCache{}
}

func (c *redisClusterCache) GetClusters(ctx context.Context, filter domain.DashboardFilter) (*domain.ClusterResult, bool, error) {
	payload, err := c.client.Get(ctx, buildClusterKey(filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.ClusterResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode cluster cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisClusterCache) SetClusters(ctx context.Context, filter domain.DashboardFilter, result *domain.ClusterResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode cluster cache: %w", err)
	}

	if err := c.client.Set(ctx, buildClusterKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisClusterCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, clusterKeyPrefix, scanBatchSize)
}

func (n *noopClusterCache) GetClusters(ctx context.Context, filter domain.DashboardFilter) (*domain.ClusterResult, bool, error) {
	return nil, false, nil
}

func (n *noopClusterCache) SetClusters(ctx context.Context, filter domain.DashboardFilter, result *domain.ClusterResult) error {
	return nil
}

func (n *noopClusterCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildClusterKey(filter domain.DashboardFilter) string {
	return hashedKey(clusterKeyPrefix,
		"state"+selectorKey(filter.State),
		"product"+selectorKey(filter.Product),
		"range="+string(filter.Range),
		"k="+strconv.Itoa(filter.Clusters),
		"iterations="+strconv.Itoa(filter.Iterations),
		"stable="+strconv.FormatBool(filter.StopWhenStable.Enabled()),
	)
}

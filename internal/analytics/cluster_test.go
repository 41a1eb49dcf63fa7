package analytics

import (
	"testing"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positioned(coords ...[2]float64) []domain.SupplyChainRecord {
	out := make([]domain.SupplyChainRecord, len(coords))
	for i, c := range coords {
		r := record(i, "Delhi", "Electronics")
		r.LeadTime = c[0]
		r.Cost = c[1]
		out[i] = r
	}
	return out
}

func labels(points []domain.ClusterPoint) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Cluster
	}
	return out
}

func TestKMeans_SeparatedGroups(t *testing.T) {
	records := positioned([2]float64{1, 100}, [2]float64{1.5, 110}, [2]float64{50, 5000}, [2]float64{52, 5100})

	got := KMeans(records, KMeansOptions{K: 2})

	assert.Equal(t, []int{0, 0, 1, 1}, labels(got.Points))
	assert.Equal(t, 2, got.K)
	assert.Equal(t, DefaultIterations, got.Rounds)
	require.Len(t, got.Centroids, 2)
	assert.InDelta(t, 1.25, got.Centroids[0].X, 1e-9)
	assert.InDelta(t, 5050, got.Centroids[1].Y, 1e-9)
}

func TestKMeans_StopWhenStable(t *testing.T) {
	records := positioned([2]float64{1, 100}, [2]float64{1.5, 110}, [2]float64{50, 5000}, [2]float64{52, 5100})

	got := KMeans(records, KMeansOptions{K: 2, StopWhenStable: true})

	assert.Equal(t, []int{0, 0, 1, 1}, labels(got.Points))
	// [0 1 1 1], then [0 0 1 1], then unchanged
	assert.Equal(t, 3, got.Rounds)
}

func TestKMeans_EveryPointNearestToItsCentroid(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		got := KMeans(randomRecords(seed, 60), KMeansOptions{K: 3})
		require.Len(t, got.Centroids, 3)

		for _, p := range got.Points {
			own := got.Centroids[p.Cluster]
			d := Distance(p.X, p.Y, own.X, own.Y)
			for _, c := range got.Centroids {
				assert.LessOrEqual(t, d, Distance(p.X, p.Y, c.X, c.Y), "seed %d", seed)
			}
		}
	}
}

func TestKMeans_TiesGoToLowestIndex(t *testing.T) {
	records := positioned([2]float64{0, 0}, [2]float64{2, 0}, [2]float64{1, 0})

	got := KMeans(records, KMeansOptions{K: 2, Iterations: 1})

	assert.Equal(t, 0, got.Points[2].Cluster)
}

func TestKMeans_MoreClustersThanPoints(t *testing.T) {
	records := positioned([2]float64{1, 1}, [2]float64{9, 9})

	got := KMeans(records, KMeansOptions{K: 5})

	assert.Equal(t, 2, got.K)
	assert.Len(t, got.Centroids, 2)
	assert.Equal(t, []int{0, 1}, labels(got.Points))
}

func TestKMeans_Empty(t *testing.T) {
	got := KMeans(nil, KMeansOptions{K: 3})

	assert.Zero(t, got.K)
	assert.Empty(t, got.Points)
	assert.Empty(t, got.Centroids)
	assert.Empty(t, ClusterSuppliers(nil, 3))
}

func TestKMeans_EmptyClusterKeepsCentroid(t *testing.T) {
	records := positioned([2]float64{0, 0}, [2]float64{0, 0}, [2]float64{10, 10})

	// both seeds coincide, so the first round sends everything to cluster 0
	got := KMeans(records, KMeansOptions{K: 2, Iterations: 2})

	require.Len(t, got.Centroids, 2)
	assert.Equal(t, domain.Centroid{X: 0, Y: 0}, got.Centroids[1])
	assert.InDelta(t, 10.0/3, got.Centroids[0].X, 1e-9)
}

func TestKMeans_CarriesFeaturesAndLabels(t *testing.T) {
	records := randomRecords(7, 12)

	got := KMeans(records, KMeansOptions{})

	require.Len(t, got.Points, len(records))
	for i, p := range got.Points {
		assert.Equal(t, records[i].LeadTime, p.X)
		assert.Equal(t, records[i].Cost, p.Y)
		assert.Equal(t, records[i].Supplier, p.Label)
		assert.GreaterOrEqual(t, p.Cluster, 0)
		assert.Less(t, p.Cluster, DefaultClusters)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	records := randomRecords(11, 80)

	first := KMeans(records, KMeansOptions{K: 4})
	second := KMeans(records, KMeansOptions{K: 4})

	assert.Equal(t, first, second)
	assert.Equal(t, first.Points, ClusterSuppliers(records, 4))
}

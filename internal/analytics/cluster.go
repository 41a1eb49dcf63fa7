package analytics

import (
	"math"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

// Clustering defaults.
const (
	DefaultClusters   = 3
	DefaultIterations = 10
)

// KMeansOptions controls a clustering run.
type KMeansOptions struct {
	// K is the number of clusters. Values below 1 use DefaultClusters.
	K int
	// Iterations is the number of assign/update rounds. Values below 1 use
	// DefaultIterations.
	Iterations int
	// StopWhenStable ends the run early once an assignment round changes no
	// label. Off by default, in which case exactly Iterations rounds run.
	StopWhenStable bool
}

func (o KMeansOptions) withDefaults() KMeansOptions {
	if o.K < 1 {
		o.K = DefaultClusters
	}
	if o.Iterations < 1 {
		o.Iterations = DefaultIterations
	}
	return o
}

// ClusterSuppliers runs KMeans with the default iteration count and returns
// only the labelled points.
func ClusterSuppliers(records []domain.SupplyChainRecord, k int) []domain.ClusterPoint {
	return KMeans(records, KMeansOptions{K: k}).Points
}

// KMeans partitions records in (lead time, cost) space with Lloyd's algorithm.
//
// The first K records, in input order, seed the centroids. Each round assigns
// every point to its nearest centroid (ties go to the lowest index) and then
// moves each centroid to the mean of its points; a centroid with no points
// stays where it is. When there are fewer records than K, every record seeds a
// centroid and the result has len(records) clusters.
//
// The returned Centroids are the ones the final assignment was measured
// against, so every point's label names its nearest returned centroid.
func KMeans(records []domain.SupplyChainRecord, opts KMeansOptions) domain.ClusterResult {
	opts = opts.withDefaults()
	if len(records) == 0 {
		return domain.ClusterResult{
			K:         0,
			Centroids: []domain.Centroid{},
			Points:    []domain.ClusterPoint{},
		}
	}

	points := make([]domain.ClusterPoint, len(records))
	for i, r := range records {
		points[i] = domain.ClusterPoint{X: r.LeadTime, Y: r.Cost, Label: r.Supplier}
	}

	k := opts.K
	if k > len(points) {
		k = len(points)
	}
	centroids := make([]domain.Centroid, k)
	for i := 0; i < k; i++ {
		centroids[i] = domain.Centroid{X: points[i].X, Y: points[i].Y}
	}

	assignedAgainst := make([]domain.Centroid, k)
	rounds := 0
	for iter := 0; iter < opts.Iterations; iter++ {
		rounds++
		copy(assignedAgainst, centroids)

		// Assignment
		changed := false
		for i := range points {
			cluster := nearestCentroid(points[i], centroids)
			if iter == 0 || points[i].Cluster != cluster {
				changed = true
			}
			points[i].Cluster = cluster
		}

		if opts.StopWhenStable && !changed {
			break
		}

		// Update
		sumX := make([]float64, k)
		sumY := make([]float64, k)
		counts := make([]int, k)
		for _, p := range points {
			sumX[p.Cluster] += p.X
			sumY[p.Cluster] += p.Y
			counts[p.Cluster]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			centroids[c] = domain.Centroid{
				X: sumX[c] / float64(counts[c]),
				Y: sumY[c] / float64(counts[c]),
			}
		}
	}

	return domain.ClusterResult{
		K:         k,
		Rounds:    rounds,
		Centroids: assignedAgainst,
		Points:    points,
	}
}

// nearestCentroid returns the index of the closest centroid. Centroids are
// scanned in order with a strict comparison, so the lowest index wins ties.
func nearestCentroid(p domain.ClusterPoint, centroids []domain.Centroid) int {
	best := 0
	minDist := math.Inf(1)
	for idx, c := range centroids {
		dist := Distance(p.X, p.Y, c.X, c.Y)
		if dist < minDist {
			minDist = dist
			best = idx
		}
	}
	return best
}

// Distance is the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt((x1-x2)*(x1-x2) + (y1-y2)*(y1-y2))
}

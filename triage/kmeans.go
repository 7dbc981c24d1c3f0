package triage

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// KMeansConfig controls one k-means fit.
type KMeansConfig struct {
	K       int // number of clusters
	Inits   int // independent restarts; the lowest-inertia run wins
	MaxIter int // Lloyd iteration cap per restart
}

// KMeansResult is the winning restart of a k-means fit.
type KMeansResult struct {
	Labels     []int       // cluster index per point, in input order
	Centroids  [][]float64 // K centroids
	Inertia    float64     // sum of squared distances to assigned centroids
	Iterations int         // Lloyd iterations used by the winning restart
	Init       int         // index of the winning restart
}

// KMeans partitions points into cfg.K clusters by Euclidean distance.
//
// Each restart seeds centroids with k-means++ and runs Lloyd iterations until
// no assignment changes or cfg.MaxIter is reached. Ties in distance go to the
// lower cluster index; ties in inertia keep the earlier restart. All draws come
// from rng, so the result is deterministic for a given rng state.
func KMeans(points [][]float64, cfg KMeansConfig, rng *rand.Rand) (*KMeansResult, error) {
	if len(points) == 0 {
		return nil, ErrEmptyBatch
	}
	if cfg.K < 1 || cfg.K > len(points) {
		return nil, fmt.Errorf("k must be in [1, %d], got %d", len(points), cfg.K)
	}
	if cfg.Inits < 1 {
		return nil, fmt.Errorf("inits must be positive, got %d", cfg.Inits)
	}
	if cfg.MaxIter < 1 {
		return nil, fmt.Errorf("max_iter must be positive, got %d", cfg.MaxIter)
	}

	var best *KMeansResult
	for run := 0; run < cfg.Inits; run++ {
		res := lloyd(points, seedCentroids(points, cfg.K, rng), cfg.MaxIter)
		res.Init = run
		logrus.Debugf("k-means init %d: inertia=%.6f iterations=%d", run, res.Inertia, res.Iterations)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// seedCentroids picks k starting centroids with k-means++: the first uniformly,
// each next one with probability proportional to its squared distance from the
// nearest centroid already chosen.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		for i, p := range points {
			_, d2[i] = nearest(p, centroids)
		}
		total := floats.Sum(d2)
		if total == 0 {
			// every point already coincides with a centroid
			centroids = append(centroids, clone(points[rng.Intn(len(points))]))
			continue
		}
		target := rng.Float64() * total
		idx := len(points) - 1
		cum := 0.0
		for i, w := range d2 {
			cum += w
			if cum > target {
				idx = i
				break
			}
		}
		centroids = append(centroids, clone(points[idx]))
	}
	return centroids
}

// lloyd runs assignment/update rounds from the given centroids.
func lloyd(points [][]float64, centroids [][]float64, maxIter int) *KMeansResult {
	k := len(centroids)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	for iter < maxIter {
		iter++
		if !assign(points, centroids, labels) {
			break
		}
		centroids = update(points, centroids, labels, k)
	}
	// re-align labels with the final centroids when the cap cut the loop short
	assign(points, centroids, labels)

	inertia := 0.0
	for i, p := range points {
		d := floats.Distance(p, centroids[labels[i]], 2)
		inertia += d * d
	}
	return &KMeansResult{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iter,
	}
}

// assign moves every point to its nearest centroid and reports whether any
// label changed.
func assign(points, centroids [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		c, _ := nearest(p, centroids)
		if labels[i] != c {
			labels[i] = c
			changed = true
		}
	}
	return changed
}

// update recomputes each centroid as the mean of its points. An empty cluster
// takes over the point farthest from its current centroid among clusters that
// can spare one.
func update(points, centroids [][]float64, labels []int, k int) [][]float64 {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			if counts[labels[i]] < 2 {
				continue
			}
			if d := floats.Distance(p, centroids[labels[i]], 2); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			continue
		}
		counts[labels[far]]--
		labels[far] = c
		counts[c] = 1
	}

	dim := len(points[0])
	next := make([][]float64, k)
	for c := range next {
		next[c] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(next[labels[i]], p)
	}
	for c := range next {
		if counts[c] == 0 {
			next[c] = centroids[c]
			continue
		}
		floats.Scale(1/float64(counts[c]), next[c])
	}
	return next
}

// nearest returns the index of the closest centroid and the squared distance
// to it. Ties go to the lower index.
func nearest(p []float64, centroids [][]float64) (int, float64) {
	best, bestD2 := 0, math.Inf(1)
	for c, centroid := range centroids {
		d := floats.Distance(p, centroid, 2)
		if d*d < bestD2 {
			best, bestD2 = c, d*d
		}
	}
	return best, bestD2
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}

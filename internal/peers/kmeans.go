package peers

import (
	"math"
	"math/rand"
)

// cosineKMeans clusters row vectors by cosine similarity: rows are
// L2-normalized and clustered with Lloyd's algorithm, which makes squared
// Euclidean distance a monotonic proxy for cosine distance.
//
// Deterministic for a given (vectors, k, maxIter, seed): initialization and
// empty-cluster re-seeding draw only from the seeded source, never from
// map iteration order.
func cosineKMeans(vectors [][]float64, k, maxIter int, seed int64) []int {
	n := len(vectors)
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}

	points := make([][]float64, n)
	for i, v := range vectors {
		points[i] = normalized(v)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		recomputeCentroids(points, labels, centroids, rng)
	}

	return labels
}

// seedCentroids implements k-means++ seeding: the first centroid is drawn
// uniformly, each subsequent one proportionally to squared distance from the
// nearest chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneVec(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := sqDist(p, centroids[len(centroids)-1])
			if len(centroids) == 1 || d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}

		if total == 0 {
			centroids = append(centroids, cloneVec(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		acc := 0.0
		pick := len(points) - 1
		for i, d := range dist {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, cloneVec(points[pick]))
	}

	return centroids
}

// recomputeCentroids replaces each centroid with the renormalized mean of
// its members. A cluster that lost all members is re-seeded from a random
// point so k never silently shrinks.
func recomputeCentroids(points [][]float64, labels []int, centroids [][]float64, rng *rand.Rand) {
	dim := len(points[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}

	for i, p := range points {
		c := labels[i]
		counts[c]++
		for j, v := range p {
			sums[c][j] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			centroids[c] = cloneVec(points[rng.Intn(len(points))])
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		centroids[c] = normalized(sums[c])
	}
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func normalized(v []float64) []float64 {
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	out := cloneVec(v)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

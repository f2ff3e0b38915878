package stats

import (
	"math"
	"math/rand"
)

func sqrt(v float64) float64 { return math.Sqrt(v) }

const kmeansMaxIterations = 300

// KMeans runs Lloyd's algorithm with nInit random restarts and returns the
// assignment with the lowest inertia, plus the final centroids. The seed
// fixes the restart stream so repeated calls on the same input produce the
// same clustering. Callers must guarantee len(data) >= k.
func KMeans(data [][]float64, k int, seed int64, nInit int) ([]int, [][]float64) {
	if len(data) == 0 || k < 1 {
		return nil, nil
	}
	if nInit < 1 {
		nInit = 1
	}

	rnd := rand.New(rand.NewSource(seed))
	bestInertia := math.Inf(1)
	var bestLabels []int
	var bestCentroids [][]float64

	for run := 0; run < nInit; run++ {
		labels, centroids, inertia := kmeansSingle(data, k, rnd)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
			bestCentroids = centroids
		}
	}
	return bestLabels, bestCentroids
}

func kmeansSingle(data [][]float64, k int, rnd *rand.Rand) ([]int, [][]float64, float64) {
	dims := len(data[0])
	centroids := initCentroids(data, k, rnd)
	labels := make([]int, len(data))

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, point := range data {
			nearest := nearestCentroid(point, centroids)
			if labels[i] != nearest {
				labels[i] = nearest
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, point := range data {
			counts[labels[i]]++
			for j, v := range point {
				sums[labels[i]][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster from a random point.
				centroids[c] = clonePoint(data[rnd.Intn(len(data))])
				continue
			}
			for j := 0; j < dims; j++ {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, point := range data {
		inertia += squaredDistance(point, centroids[labels[i]])
	}
	return labels, centroids, inertia
}

// initCentroids uses k-means++ style seeding: the first centroid is uniform,
// later ones are drawn proportionally to squared distance from the nearest
// chosen centroid.
func initCentroids(data [][]float64, k int, rnd *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(data[rnd.Intn(len(data))]))

	distances := make([]float64, len(data))
	for len(centroids) < k {
		var total float64
		for i, point := range data {
			distances[i] = squaredDistance(point, centroids[0])
			for _, c := range centroids[1:] {
				if d := squaredDistance(point, c); d < distances[i] {
					distances[i] = d
				}
			}
			total += distances[i]
		}

		if total == 0 {
			centroids = append(centroids, clonePoint(data[rnd.Intn(len(data))]))
			continue
		}
		target := rnd.Float64() * total
		var cum float64
		chosen := len(data) - 1
		for i, d := range distances {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clonePoint(data[chosen]))
	}
	return centroids
}

func nearestCentroid(point []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(point, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clonePoint(p []float64) []float64 {
	c := make([]float64, len(p))
	copy(c, p)
	return c
}

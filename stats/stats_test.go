package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 3.0, Quantile(values, 0.5))
	assert.Equal(t, 5.0, Quantile(values, 1))
	assert.Equal(t, 2.0, Quantile(values, 0.25))
	assert.Equal(t, 0.0, Quantile(nil, 0.5))

	// Interpolated between ranks.
	assert.InDelta(t, 1.5, Quantile([]float64{1, 2}, 0.5), 1e-9)
}

func TestQuantileEdgesCollapse(t *testing.T) {
	distinct := []float64{10, 20, 30, 40, 50, 60, 70, 80}
	edges := QuantileEdges(distinct, 4)
	assert.Len(t, edges, 5)

	// All-equal input collapses to a single edge.
	same := []float64{5, 5, 5, 5, 5}
	edges = QuantileEdges(same, 4)
	assert.Len(t, edges, 1)
}

func TestBinByEdges(t *testing.T) {
	edges := []float64{0, 10, 20, 30, 40}
	assert.Equal(t, 0, BinByEdges(0, edges))
	assert.Equal(t, 0, BinByEdges(10, edges))
	assert.Equal(t, 1, BinByEdges(11, edges))
	assert.Equal(t, 3, BinByEdges(40, edges))
	assert.Equal(t, 3, BinByEdges(99, edges))
}

func TestRankFirst(t *testing.T) {
	ranks := RankFirst([]float64{30, 10, 20, 10})
	// Ties broken by input order.
	assert.Equal(t, []int{4, 1, 3, 2}, ranks)
}

func TestEqualWidthBin(t *testing.T) {
	assert.Equal(t, 0, EqualWidthBin(1, 1, 11, 5))
	assert.Equal(t, 4, EqualWidthBin(11, 1, 11, 5))
	assert.Equal(t, 2, EqualWidthBin(6, 1, 11, 5))
	assert.Equal(t, 0, EqualWidthBin(7, 7, 7, 5))
}

func TestIQRBounds(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	lower, upper := IQRBounds(values, 1.5)
	// Q1=2.75, Q3=6.25, IQR=3.5.
	assert.InDelta(t, -2.5, lower, 1e-9)
	assert.InDelta(t, 11.5, upper, 1e-9)
}

func TestLinearFit(t *testing.T) {
	slope, intercept := LinearFit([]float64{2, 4, 6, 8})
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 2.0, intercept, 1e-9)

	slope, intercept = LinearFit([]float64{5, 5, 5, 5})
	assert.InDelta(t, 0.0, slope, 1e-9)
	assert.InDelta(t, 5.0, intercept, 1e-9)

	slope, _ = LinearFit(nil)
	assert.Equal(t, 0.0, slope)
}

func TestStandardize(t *testing.T) {
	data := [][]float64{{1, 100}, {2, 100}, {3, 100}}
	scaled := Standardize(data)
	require.Len(t, scaled, 3)

	// First column: mean 2, population std sqrt(2/3).
	var sum float64
	for _, row := range scaled {
		sum += row[0]
	}
	assert.InDelta(t, 0.0, sum, 1e-9)

	// Zero-variance column centers to 0 without dividing by zero.
	for _, row := range scaled {
		assert.Equal(t, 0.0, row[1])
	}

	// Input untouched.
	assert.Equal(t, 1.0, data[0][0])
}

func TestKMeansSeparatesObviousClusters(t *testing.T) {
	data := [][]float64{
		{0.1, 0.2}, {0.2, 0.1}, {0.15, 0.15},
		{9.8, 9.9}, {10.1, 10.0}, {9.9, 10.2},
	}
	labels, centroids := KMeans(data, 2, 42, 10)
	require.Len(t, labels, 6)
	require.Len(t, centroids, 2)

	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.Equal(t, labels[3], labels[5])
	assert.NotEqual(t, labels[0], labels[3])
}

func TestKMeansDeterministicForSeed(t *testing.T) {
	data := [][]float64{
		{1, 1}, {1.2, 0.8}, {5, 5}, {5.1, 4.9}, {9, 1}, {8.8, 1.3},
	}
	first, _ := KMeans(data, 3, 7, 10)
	second, _ := KMeans(data, 3, 7, 10)
	assert.Equal(t, first, second)
}

package stats

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile (0 <= q <= 1) of values using linear
// interpolation between closest ranks. Returns 0 for empty input.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// QuantileEdges returns the bins+1 quantile cut points of values with
// duplicate edges dropped. When values have too few distinct points the
// returned slice is shorter than bins+1 and callers are expected to fall back
// to an alternative binning scheme.
func QuantileEdges(values []float64, bins int) []float64 {
	if len(values) == 0 || bins < 1 {
		return nil
	}
	edges := make([]float64, 0, bins+1)
	for i := 0; i <= bins; i++ {
		edge := Quantile(values, float64(i)/float64(bins))
		if len(edges) == 0 || edge != edges[len(edges)-1] {
			edges = append(edges, edge)
		}
	}
	return edges
}

// BinByEdges assigns v to a bin given ordered edges, treating intervals as
// (edges[i], edges[i+1]] with the first interval closed on the left. Values
// outside the range clamp to the outer bins.
func BinByEdges(v float64, edges []float64) int {
	if len(edges) < 2 {
		return 0
	}
	for i := 1; i < len(edges)-1; i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return len(edges) - 2
}

// RankFirst returns 1-based ranks with ties broken by input order, matching
// a stable sort over (value, index).
func RankFirst(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]int, len(values))
	for rank, i := range idx {
		ranks[i] = rank + 1
	}
	return ranks
}

// EqualWidthBin maps v into one of `bins` equal-width buckets over
// [min, max], returning 0-based bucket index. Degenerate ranges collapse to
// bucket 0.
func EqualWidthBin(v, min, max float64, bins int) int {
	if bins < 1 || max <= min {
		return 0
	}
	width := (max - min) / float64(bins)
	bin := int((v - min) / width)
	if bin < 0 {
		bin = 0
	}
	if bin >= bins {
		bin = bins - 1
	}
	return bin
}

// IQRBounds returns the Tukey fences [Q1-k*IQR, Q3+k*IQR] for values.
func IQRBounds(values []float64, k float64) (lower float64, upper float64) {
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

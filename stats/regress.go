package stats

// LinearFit fits y = slope*x + intercept by least squares over
// x = 0..len(y)-1. Returns (0, 0) for fewer than two points.
func LinearFit(y []float64) (slope float64, intercept float64) {
	n := float64(len(y))
	if len(y) < 2 {
		if len(y) == 1 {
			return 0, y[0]
		}
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// Standardize scales each column of data to zero mean and unit variance.
// Zero-variance columns are centered only. Input is not mutated.
func Standardize(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return nil
	}
	dims := len(data[0])
	n := float64(len(data))

	means := make([]float64, dims)
	for _, row := range data {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}

	stds := make([]float64, dims)
	for _, row := range data {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = sqrt(stds[j] / n)
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	scaled := make([][]float64, len(data))
	for i, row := range data {
		scaled[i] = make([]float64, dims)
		for j, v := range row {
			scaled[i][j] = (v - means[j]) / stds[j]
		}
	}
	return scaled
}

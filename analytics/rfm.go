package analytics

import (
	"shoplens/cleaner"
	"shoplens/stats"
)

// RFM segment names, evaluated in precedence order: first match wins.
const (
	RFMSegmentChampions   = "Champions"
	RFMSegmentLoyal       = "Loyal Customers"
	RFMSegmentNew         = "New Customers"
	RFMSegmentAtRisk      = "At Risk"
	RFMSegmentLost        = "Lost"
	RFMSegmentBigSpenders = "Big Spenders"
	RFMSegmentPromising   = "Promising"
)

const rfmQuintiles = 5

// CustomerRFM extends a customer summary with recency/frequency/monetary
// quintile scores (1-5, 5 best) and the derived segment.
type CustomerRFM struct {
	cleaner.CustomerSummary
	RScore     int    `json:"r_score"`
	FScore     int    `json:"f_score"`
	MScore     int    `json:"m_score"`
	RFMScore   int    `json:"rfm_score"`
	RFMSegment string `json:"rfm_segment"`
}

// RFMAnalysis scores customers with at least one order. An empty result is
// valid when no customer has purchased. Scores come from quantile binning;
// when quintile edges collapse on duplicate values the scorer falls back to
// equal-width binning over first-method ranks.
func RFMAnalysis(customers []cleaner.CustomerSummary) []CustomerRFM {
	purchasers := make([]cleaner.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		if c.TotalOrders > 0 {
			purchasers = append(purchasers, c)
		}
	}
	if len(purchasers) == 0 {
		return []CustomerRFM{}
	}

	recency := make([]float64, len(purchasers))
	frequency := make([]float64, len(purchasers))
	monetary := make([]float64, len(purchasers))
	for i, c := range purchasers {
		recency[i] = float64(c.RecencyDays)
		frequency[i] = float64(c.TotalOrders)
		monetary[i] = c.TotalRevenue
	}

	// Recency is inverted: the most recent customers score highest.
	rScores := quintileScores(recency, true)
	fScores := quintileScores(frequency, false)
	mScores := quintileScores(monetary, false)

	result := make([]CustomerRFM, len(purchasers))
	for i, c := range purchasers {
		row := CustomerRFM{
			CustomerSummary: c,
			RScore:          rScores[i],
			FScore:          fScores[i],
			MScore:          mScores[i],
		}
		row.RFMScore = row.RScore + row.FScore + row.MScore
		row.RFMSegment = segmentRFM(row.RScore, row.FScore, row.MScore)
		result[i] = row
	}
	return result
}

// quintileScores maps values to 1..5. Quantile bins when the quintile edges
// are distinct, otherwise equal-width bins over first-method ranks.
func quintileScores(values []float64, inverted bool) []int {
	scores := make([]int, len(values))

	edges := stats.QuantileEdges(values, rfmQuintiles)
	if len(edges) == rfmQuintiles+1 {
		for i, v := range values {
			scores[i] = stats.BinByEdges(v, edges) + 1
		}
	} else {
		ranks := stats.RankFirst(values)
		for i, rank := range ranks {
			scores[i] = stats.EqualWidthBin(float64(rank), 1, float64(len(values)), rfmQuintiles) + 1
		}
	}

	if inverted {
		for i := range scores {
			scores[i] = rfmQuintiles + 1 - scores[i]
		}
	}
	return scores
}

// segmentRFM applies the rule table in precedence order.
func segmentRFM(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return RFMSegmentChampions
	case r >= 3 && f >= 3 && m >= 3:
		return RFMSegmentLoyal
	case r >= 4 && f <= 2:
		return RFMSegmentNew
	case r <= 2 && f >= 3 && m >= 3:
		return RFMSegmentAtRisk
	case r <= 2 && f <= 2:
		return RFMSegmentLost
	case m >= 4:
		return RFMSegmentBigSpenders
	default:
		return RFMSegmentPromising
	}
}

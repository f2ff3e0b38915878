package analytics

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"shoplens/cleaner"
	"shoplens/stats"
	"shoplens/util"
)

const (
	DefaultClusterCount = 4
	SegmentNoPurchase   = -1

	segmentationSeed  = 42
	segmentationNInit = 10
)

// Segment names by rank. Rank 0 is always the highest mean revenue cluster.
var segmentNames = []string{
	"High Value Frequent",
	"Occasional Buyers",
	"New Potential",
	"Dormant/At Risk",
}

// CustomerSegment extends a customer summary with its K-means cluster label.
// Non-purchasers carry Segment -1 / "No Purchase".
type CustomerSegment struct {
	cleaner.CustomerSummary
	Segment     int    `json:"segment"`
	SegmentName string `json:"segment_name"`
}

// SegmentSummary aggregates the purchasing customers of one cluster.
type SegmentSummary struct {
	Segment           int     `json:"segment"`
	CustomerCount     int     `json:"customer_count"`
	AvgRevenue        float64 `json:"avg_revenue"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	AvgSessions       float64 `json:"avg_sessions"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
	AvgRecencyDays    float64 `json:"avg_recency_days"`
}

// CustomerSegmentation clusters purchasing customers with K-means over six
// standardized behavioral features and relabels clusters by descending mean
// revenue, so label 0 is always the highest-value segment. With fewer
// purchasers than clusters the analysis is skipped: every customer comes back
// unclustered with an empty summary. Fixed seed and restart count keep the
// labeling stable across runs on the same input.
func CustomerSegmentation(customers []cleaner.CustomerSummary, nClusters int) ([]CustomerSegment, []SegmentSummary, error) {
	if nClusters < 1 {
		return nil, nil, errors.Errorf("invalid n_clusters %d", nClusters)
	}

	result := make([]CustomerSegment, len(customers))
	purchaserIdx := make([]int, 0, len(customers))
	for i, c := range customers {
		result[i] = CustomerSegment{
			CustomerSummary: c,
			Segment:         SegmentNoPurchase,
			SegmentName:     CLVSegmentNoPurchase,
		}
		if c.TotalOrders > 0 {
			purchaserIdx = append(purchaserIdx, i)
		}
	}

	if len(purchaserIdx) < nClusters {
		log.WithFields(log.Fields{
			"purchasers": len(purchaserIdx),
			"n_clusters": nClusters,
		}).Debug("Skipping segmentation, not enough purchasing customers.")
		return result, []SegmentSummary{}, nil
	}

	features := make([][]float64, len(purchaserIdx))
	for row, i := range purchaserIdx {
		c := customers[i]
		features[row] = []float64{
			float64(c.TotalSessions),
			c.TotalRevenue,
			c.AvgOrderValue,
			c.ConversionRate,
			float64(c.RecencyDays),
			c.AvgTimeOnSite,
		}
	}

	labels, _ := stats.KMeans(stats.Standardize(features), nClusters, segmentationSeed, segmentationNInit)

	// Relabel by descending mean revenue.
	revenueSums := make([]float64, nClusters)
	counts := make([]int, nClusters)
	for row, i := range purchaserIdx {
		revenueSums[labels[row]] += customers[i].TotalRevenue
		counts[labels[row]]++
	}

	order := make([]int, nClusters)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return util.SafeDivide(revenueSums[order[a]], float64(counts[order[a]])) >
			util.SafeDivide(revenueSums[order[b]], float64(counts[order[b]]))
	})
	rankOf := make([]int, nClusters)
	for rank, original := range order {
		rankOf[original] = rank
	}

	for row, i := range purchaserIdx {
		rank := rankOf[labels[row]]
		result[i].Segment = rank
		result[i].SegmentName = segmentName(rank)
	}

	return result, summarizeSegments(result, nClusters), nil
}

func segmentName(rank int) string {
	if rank < len(segmentNames) {
		return segmentNames[rank]
	}
	return fmt.Sprintf("Segment %d", rank)
}

func summarizeSegments(rows []CustomerSegment, nClusters int) []SegmentSummary {
	summaries := make([]SegmentSummary, nClusters)
	for i := range summaries {
		summaries[i].Segment = i
	}

	for _, r := range rows {
		if r.Segment == SegmentNoPurchase {
			continue
		}
		s := &summaries[r.Segment]
		s.CustomerCount++
		s.AvgRevenue += r.TotalRevenue
		s.AvgOrderValue += r.AvgOrderValue
		s.AvgSessions += float64(r.TotalSessions)
		s.AvgConversionRate += r.ConversionRate
		s.AvgRecencyDays += float64(r.RecencyDays)
	}

	for i := range summaries {
		n := float64(summaries[i].CustomerCount)
		summaries[i].AvgRevenue = util.RoundFloat(util.SafeDivide(summaries[i].AvgRevenue, n), util.DefaultPrecision)
		summaries[i].AvgOrderValue = util.RoundFloat(util.SafeDivide(summaries[i].AvgOrderValue, n), util.DefaultPrecision)
		summaries[i].AvgSessions = util.RoundFloat(util.SafeDivide(summaries[i].AvgSessions, n), util.DefaultPrecision)
		summaries[i].AvgConversionRate = util.RoundFloat(util.SafeDivide(summaries[i].AvgConversionRate, n), util.DefaultPrecision)
		summaries[i].AvgRecencyDays = util.RoundFloat(util.SafeDivide(summaries[i].AvgRecencyDays, n), util.DefaultPrecision)
	}
	return summaries
}

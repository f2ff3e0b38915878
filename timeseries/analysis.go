package timeseries

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"shoplens/stats"
	"shoplens/util"
)

// Trend directions. A slope within [-5, 5] sessions/day counts as stable.
const (
	TrendUpward   = "Upward"
	TrendDownward = "Downward"
	TrendStable   = "Stable"

	trendSlopeThreshold = 5.0

	DefaultActivityClusters = 3

	clusteringSeed  = 42
	clusteringNInit = 10

	anomalyIQRFactor = 1.5
)

var activityClusterNames = []string{"Low Activity", "Medium Activity", "High Activity"}

// ClusteredMetric is a daily metric with its activity-cluster label attached.
type ClusteredMetric struct {
	DailyMetric
	Cluster     int    `json:"cluster"`
	ClusterName string `json:"cluster_name"`
}

// ClusterProfile holds per-cluster feature means.
type ClusterProfile struct {
	Cluster         int     `json:"cluster"`
	Name            string  `json:"name"`
	Days            int     `json:"days"`
	AvgSessions     float64 `json:"avg_sessions"`
	AvgTotalUsers   float64 `json:"avg_total_users"`
	AvgConversions  float64 `json:"avg_conversions"`
	AvgRevenue      float64 `json:"avg_revenue"`
}

// TrendReport is the linear-fit summary of a series.
type TrendReport struct {
	Direction  string    `json:"direction"`
	Slope      float64   `json:"slope"`
	GrowthRate float64   `json:"growth_rate"`
	TrendLine  []float64 `json:"trend_line"`
}

// Anomaly is one flagged data point.
type Anomaly struct {
	Index int         `json:"index"`
	Value float64     `json:"value"`
	Upper bool        `json:"upper"`
	Point DailyMetric `json:"point"`
}

// AnomalyReport carries the IQR fences and every flagged point. Flags is
// index-aligned with the input series.
type AnomalyReport struct {
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Flags      []bool    `json:"flags"`
	Anomalies  []Anomaly `json:"anomalies"`
}

// PerformClustering groups days by activity level with K-means over
// standardized sessions/users/conversions/revenue, relabeling clusters by
// ascending mean sessions so cluster 0 is always the quietest. Requires at
// least nClusters days.
func PerformClustering(series []DailyMetric, nClusters int) ([]ClusteredMetric, []ClusterProfile, error) {
	if nClusters < 1 {
		return nil, nil, errors.Errorf("invalid n_clusters %d", nClusters)
	}
	if len(series) < nClusters {
		log.WithFields(log.Fields{
			"days":       len(series),
			"n_clusters": nClusters,
		}).Debug("Skipping clustering, series shorter than cluster count.")
		return []ClusteredMetric{}, []ClusterProfile{}, nil
	}

	features := make([][]float64, len(series))
	for i, m := range series {
		features[i] = []float64{
			float64(m.Sessions),
			float64(m.TotalUsers),
			float64(m.Conversions),
			m.Revenue,
		}
	}
	labels, _ := stats.KMeans(stats.Standardize(features), nClusters, clusteringSeed, clusteringNInit)

	profiles := make([]ClusterProfile, nClusters)
	for i, m := range series {
		p := &profiles[labels[i]]
		p.Days++
		p.AvgSessions += float64(m.Sessions)
		p.AvgTotalUsers += float64(m.TotalUsers)
		p.AvgConversions += float64(m.Conversions)
		p.AvgRevenue += m.Revenue
	}
	for c := range profiles {
		n := float64(profiles[c].Days)
		profiles[c].AvgSessions = util.SafeDivide(profiles[c].AvgSessions, n)
		profiles[c].AvgTotalUsers = util.SafeDivide(profiles[c].AvgTotalUsers, n)
		profiles[c].AvgConversions = util.SafeDivide(profiles[c].AvgConversions, n)
		profiles[c].AvgRevenue = util.SafeDivide(profiles[c].AvgRevenue, n)
	}

	// Relabel ascending by mean sessions: cluster 0 is the quietest.
	rankOf := rankClustersBySessions(profiles)

	rows := make([]ClusteredMetric, len(series))
	for i, m := range series {
		rank := rankOf[labels[i]]
		rows[i] = ClusteredMetric{
			DailyMetric: m,
			Cluster:     rank,
			ClusterName: activityClusterName(rank),
		}
	}

	ranked := make([]ClusterProfile, nClusters)
	for original, rank := range rankOf {
		p := profiles[original]
		p.Cluster = rank
		p.Name = activityClusterName(rank)
		ranked[rank] = p
	}
	return rows, ranked, nil
}

func rankClustersBySessions(profiles []ClusterProfile) []int {
	order := make([]int, len(profiles))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if profiles[order[j]].AvgSessions < profiles[order[i]].AvgSessions {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	rankOf := make([]int, len(profiles))
	for rank, original := range order {
		rankOf[original] = rank
	}
	return rankOf
}

func activityClusterName(rank int) string {
	if rank < len(activityClusterNames) {
		return activityClusterNames[rank]
	}
	return fmt.Sprintf("Cluster %d", rank)
}

// DetectTrends fits a line to the sessions series. Growth rate is the
// relative change from the first to the last observation, zero-guarded.
func DetectTrends(series []DailyMetric) TrendReport {
	report := TrendReport{Direction: TrendStable, TrendLine: []float64{}}
	if len(series) == 0 {
		return report
	}

	y := make([]float64, len(series))
	for i, m := range series {
		y[i] = float64(m.Sessions)
	}

	slope, intercept := stats.LinearFit(y)
	report.Slope = slope
	switch {
	case slope > trendSlopeThreshold:
		report.Direction = TrendUpward
	case slope < -trendSlopeThreshold:
		report.Direction = TrendDownward
	}

	report.GrowthRate = util.SafeDivide(y[len(y)-1]-y[0], y[0]) * 100

	report.TrendLine = make([]float64, len(y))
	for i := range y {
		report.TrendLine[i] = slope*float64(i) + intercept
	}
	return report
}

// DetectAnomalies flags points outside the Tukey fences
// [Q1-1.5*IQR, Q3+1.5*IQR] of the selected column. A nil column defaults to
// sessions. Empty input yields an empty report.
func DetectAnomalies(series []DailyMetric, column Column) AnomalyReport {
	report := AnomalyReport{Flags: []bool{}, Anomalies: []Anomaly{}}
	if len(series) == 0 {
		return report
	}
	if column == nil {
		column = SessionsColumn
	}

	values := make([]float64, len(series))
	for i, m := range series {
		values[i] = column(m)
	}
	report.LowerBound, report.UpperBound = stats.IQRBounds(values, anomalyIQRFactor)

	report.Flags = make([]bool, len(series))
	for i, v := range values {
		if v < report.LowerBound || v > report.UpperBound {
			report.Flags[i] = true
			report.Anomalies = append(report.Anomalies, Anomaly{
				Index: i,
				Value: v,
				Upper: v > report.UpperBound,
				Point: series[i],
			})
		}
	}
	return report
}

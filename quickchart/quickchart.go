package quickchart

import (
	"encoding/json"
	"fmt"
	"net/url"

	quickchartgo "github.com/henomis/quickchart-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"shoplens/analytics"
	"shoplens/timeseries"
	"shoplens/util"
)

type ChartConfig struct {
	Type string    `json:"type"`
	Data ChartData `json:"data"`
}
type ChartData struct {
	Labels   []interface{} `json:"labels"`
	DataSets []Dataset     `json:"datasets"`
}
type Dataset struct {
	Label       string        `json:"label"`
	Data        []interface{} `json:"data"`
	Fill        bool          `json:"fill"`
	LineTension float32       `json:"lineTension"`
}
type TableConfig struct {
	Title      string        `json:"title"`
	Columns    []Column      `json:"columns"`
	DataSource []interface{} `json:"dataSource"`
}
type Column struct {
	Width     int    `json:"width"`
	Title     string `json:"title"`
	DataIndex string `json:"dataIndex"`
}

func GetChartImageUrlForConfig(config ChartConfig) (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		log.Error("failed to marshal chart config")
		return "", errors.Wrap(err, "failed to get chart url from quickchart")
	}
	qc := quickchartgo.New()
	qc.Config = string(bytes)
	chartURL, err := qc.GetUrl()
	if err != nil {
		log.Error("failed to get chart url from quickchart")
		return "", errors.Wrap(err, "failed to get chart url from quickchart")
	}
	return chartURL, nil
}

func GetTableURLfromTableConfig(config TableConfig) (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal table config")
	}
	return fmt.Sprintf("https://api.quickchart.io/v1/table?data=%s", url.QueryEscape(string(bytes))), nil
}

// ProductRevenueChartConfig builds a bar chart of revenue by product for the
// top products, in the order given.
func ProductRevenueChartConfig(products []analytics.ProductPerformance, limit int) ChartConfig {
	if limit > len(products) || limit <= 0 {
		limit = len(products)
	}
	labels := make([]interface{}, 0, limit)
	revenue := make([]interface{}, 0, limit)
	for _, p := range products[:limit] {
		labels = append(labels, p.ProductName)
		revenue = append(revenue, util.RoundFloat(p.Revenue, util.DefaultPrecision))
	}
	return ChartConfig{
		Type: "bar",
		Data: ChartData{
			Labels:   labels,
			DataSets: []Dataset{{Label: "Revenue", Data: revenue}},
		},
	}
}

// SessionsTrendChartConfig builds a line chart of daily sessions with the
// fitted trend line overlaid.
func SessionsTrendChartConfig(series []timeseries.DailyMetric, trend timeseries.TrendReport) ChartConfig {
	labels := make([]interface{}, len(series))
	sessions := make([]interface{}, len(series))
	for i, m := range series {
		labels[i] = m.Date.Format(util.DATETIME_FORMAT_YYYYMMDD_HYPHEN)
		sessions[i] = m.Sessions
	}
	datasets := []Dataset{{Label: "Sessions", Data: sessions, Fill: false, LineTension: 0.1}}
	if len(trend.TrendLine) == len(series) {
		fitted := make([]interface{}, len(trend.TrendLine))
		for i, v := range trend.TrendLine {
			fitted[i] = util.RoundFloat(v, util.DefaultPrecision)
		}
		datasets = append(datasets, Dataset{Label: "Trend", Data: fitted, Fill: false})
	}
	return ChartConfig{
		Type: "line",
		Data: ChartData{Labels: labels, DataSets: datasets},
	}
}

// SegmentSummaryTableConfig renders the segmentation summary as a table.
func SegmentSummaryTableConfig(summaries []analytics.SegmentSummary) TableConfig {
	rows := make([]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, map[string]interface{}{
			"segment":   s.Segment,
			"customers": s.CustomerCount,
			"revenue":   s.AvgRevenue,
			"aov":       s.AvgOrderValue,
			"sessions":  s.AvgSessions,
		})
	}
	return TableConfig{
		Title: "Customer Segments",
		Columns: []Column{
			{Width: 80, Title: "Segment", DataIndex: "segment"},
			{Width: 100, Title: "Customers", DataIndex: "customers"},
			{Width: 120, Title: "Avg Revenue", DataIndex: "revenue"},
			{Width: 120, Title: "Avg Order Value", DataIndex: "aov"},
			{Width: 100, Title: "Avg Sessions", DataIndex: "sessions"},
		},
		DataSource: rows,
	}
}

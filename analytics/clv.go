package analytics

import (
	"github.com/pkg/errors"

	"shoplens/cleaner"
	"shoplens/stats"
	"shoplens/util"
)

const DefaultProjectionMonths = 12

// CLV segment names. The quantile path produces four tiers; when quantile
// edges collapse the percentile fallback produces only three, folding VIP
// into High Value. The asymmetry is intentional and mirrors the two distinct
// binning strategies.
const (
	CLVSegmentNoPurchase = "No Purchase"
	CLVSegmentLow        = "Low Value"
	CLVSegmentMedium     = "Medium Value"
	CLVSegmentHigh       = "High Value"
	CLVSegmentVIP        = "VIP"
)

var clvQuantileLabels = []string{CLVSegmentLow, CLVSegmentMedium, CLVSegmentHigh, CLVSegmentVIP}

// CustomerCLV extends a customer summary with lifetime value columns.
// TotalCLV is always exactly HistoricalCLV + PredictedCLV.
type CustomerCLV struct {
	cleaner.CustomerSummary
	HistoricalCLV            float64 `json:"historical_clv"`
	CustomerAgeMonths        float64 `json:"customer_age_months"`
	PurchaseFrequencyMonthly float64 `json:"purchase_frequency_monthly"`
	PredictedCLV             float64 `json:"predicted_clv"`
	TotalCLV                 float64 `json:"total_clv"`
	CLVSegment               string  `json:"clv_segment"`
}

// CalculateCLV derives customer lifetime value for every customer:
// historical CLV is realized revenue, predicted CLV projects the observed
// monthly purchase frequency over projectionMonths. Customers with zero total
// CLV get the "No Purchase" segment; the rest are binned into value tiers.
// The input is not mutated.
func CalculateCLV(customers []cleaner.CustomerSummary, projectionMonths int) ([]CustomerCLV, error) {
	if projectionMonths < 0 {
		return nil, errors.Errorf("invalid projection_months %d", projectionMonths)
	}
	if projectionMonths == 0 {
		projectionMonths = DefaultProjectionMonths
	}

	result := make([]CustomerCLV, 0, len(customers))
	for _, c := range customers {
		row := CustomerCLV{CustomerSummary: c}

		row.HistoricalCLV = c.TotalRevenue

		ageDays := util.DaysBetween(c.FirstSession, c.LastSession)
		row.CustomerAgeMonths = float64(ageDays) / 30
		if row.CustomerAgeMonths == 0 {
			// Single-session customers: treat the lifespan as one month.
			row.CustomerAgeMonths = 1
		}

		row.PurchaseFrequencyMonthly = float64(c.TotalOrders) / row.CustomerAgeMonths
		row.PredictedCLV = c.AvgOrderValue * row.PurchaseFrequencyMonthly * float64(projectionMonths)
		row.TotalCLV = row.HistoricalCLV + row.PredictedCLV
		row.CLVSegment = CLVSegmentNoPurchase

		result = append(result, row)
	}

	assignCLVSegments(result)
	return result, nil
}

func assignCLVSegments(rows []CustomerCLV) {
	positives := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.TotalCLV > 0 {
			positives = append(positives, r.TotalCLV)
		}
	}
	if len(positives) == 0 {
		return
	}

	edges := stats.QuantileEdges(positives, len(clvQuantileLabels))
	if len(edges) == len(clvQuantileLabels)+1 {
		for i := range rows {
			if rows[i].TotalCLV > 0 {
				rows[i].CLVSegment = clvQuantileLabels[stats.BinByEdges(rows[i].TotalCLV, edges)]
			}
		}
		return
	}

	// Quantile edges collapsed: fixed-percentile fallback with three tiers.
	p75 := stats.Quantile(positives, 0.75)
	p50 := stats.Quantile(positives, 0.50)
	for i := range rows {
		if rows[i].TotalCLV <= 0 {
			continue
		}
		switch {
		case rows[i].TotalCLV >= p75:
			rows[i].CLVSegment = CLVSegmentHigh
		case rows[i].TotalCLV >= p50:
			rows[i].CLVSegment = CLVSegmentMedium
		default:
			rows[i].CLVSegment = CLVSegmentLow
		}
	}
}

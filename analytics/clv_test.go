package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplens/cleaner"
)

func purchaser(id string, orders int, revenue float64, recencyDays int, firstToLastDays int) cleaner.CustomerSummary {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cleaner.CustomerSummary{
		CustomerID:    id,
		TotalSessions: orders + 1,
		FirstSession:  first,
		LastSession:   first.AddDate(0, 0, firstToLastDays),
		TotalOrders:   orders,
		TotalRevenue:  revenue,
		RecencyDays:   recencyDays,
	}
	if orders > 0 {
		c.AvgOrderValue = revenue / float64(orders)
	}
	c.ConversionRate = float64(orders) / float64(c.TotalSessions)
	return c
}

func TestCalculateCLVAdditivity(t *testing.T) {
	customers := []cleaner.CustomerSummary{
		purchaser("C1", 2, 200, 5, 60),
		purchaser("C2", 0, 0, 30, 0),
		purchaser("C3", 5, 1000, 1, 45),
	}

	rows, err := CalculateCLV(customers, DefaultProjectionMonths)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, r := range rows {
		assert.Equal(t, r.HistoricalCLV+r.PredictedCLV, r.TotalCLV,
			"total_clv must equal historical + predicted exactly for %s", r.CustomerID)
		assert.Equal(t, r.TotalRevenue, r.HistoricalCLV)
	}
}

func TestCalculateCLVSingleSessionCustomerAge(t *testing.T) {
	rows, err := CalculateCLV([]cleaner.CustomerSummary{purchaser("C1", 1, 100, 0, 0)}, 12)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Zero-day lifespan is treated as one month, not a division by zero.
	assert.Equal(t, 1.0, rows[0].CustomerAgeMonths)
	assert.Equal(t, 1.0, rows[0].PurchaseFrequencyMonthly)
	assert.Equal(t, 100.0+100.0*12, rows[0].TotalCLV)
}

func TestCalculateCLVNoPurchaseSegment(t *testing.T) {
	customers := []cleaner.CustomerSummary{
		purchaser("C1", 0, 0, 10, 5),
		purchaser("C2", 0, 0, 20, 15),
	}
	rows, err := CalculateCLV(customers, 12)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, CLVSegmentNoPurchase, r.CLVSegment)
	}
}

func TestCalculateCLVQuantileSegments(t *testing.T) {
	customers := make([]cleaner.CustomerSummary, 0, 20)
	for i := 1; i <= 20; i++ {
		customers = append(customers,
			purchaser(fmt.Sprintf("C%02d", i), i, float64(i*100), i, 40))
	}

	rows, err := CalculateCLV(customers, 12)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, r := range rows {
		seen[r.CLVSegment]++
	}
	// Distinct values across 20 customers: all four tiers appear.
	assert.Equal(t, 4, len(seen))
	assert.Contains(t, seen, CLVSegmentVIP)
	assert.Contains(t, seen, CLVSegmentLow)

	// The top customer is always VIP, the bottom always Low.
	assert.Equal(t, CLVSegmentVIP, rows[19].CLVSegment)
	assert.Equal(t, CLVSegmentLow, rows[0].CLVSegment)
}

func TestCalculateCLVFallbackCollapsesToThreeTiers(t *testing.T) {
	// Identical CLV values cannot produce four distinct quantile edges.
	customers := []cleaner.CustomerSummary{
		purchaser("C1", 1, 100, 1, 30),
		purchaser("C2", 1, 100, 2, 30),
		purchaser("C3", 1, 100, 3, 30),
		purchaser("C4", 1, 100, 4, 30),
	}

	rows, err := CalculateCLV(customers, 12)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, CLVSegmentHigh, r.CLVSegment)
		assert.NotEqual(t, CLVSegmentVIP, r.CLVSegment, "fallback path has no VIP tier")
	}
}

func TestCalculateCLVInvalidProjection(t *testing.T) {
	_, err := CalculateCLV(nil, -1)
	assert.Error(t, err)

	rows, err := CalculateCLV([]cleaner.CustomerSummary{purchaser("C1", 1, 100, 0, 0)}, 0)
	require.NoError(t, err)
	// Zero means "use the default projection".
	assert.Equal(t, 100.0+100.0*float64(DefaultProjectionMonths), rows[0].TotalCLV)
}

func TestCalculateCLVEmptyInput(t *testing.T) {
	rows, err := CalculateCLV(nil, 12)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

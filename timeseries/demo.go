package timeseries

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"shoplens/util"
)

// DailyMetric is one day of GA-style traffic metrics.
type DailyMetric struct {
	Date               time.Time `json:"date"`
	Sessions           int       `json:"sessions"`
	TotalUsers         int       `json:"total_users"`
	NewUsers           int       `json:"new_users"`
	ScreenPageViews    int       `json:"screen_page_views"`
	BounceRate         float64   `json:"bounce_rate"`
	AvgSessionDuration float64   `json:"avg_session_duration"`
	Conversions        int       `json:"conversions"`
	Revenue            float64   `json:"revenue"`
}

// Column selects the metric a detector operates on.
type Column func(DailyMetric) float64

func SessionsColumn(m DailyMetric) float64    { return float64(m.Sessions) }
func TotalUsersColumn(m DailyMetric) float64  { return float64(m.TotalUsers) }
func ConversionsColumn(m DailyMetric) float64 { return float64(m.Conversions) }
func RevenueColumn(m DailyMetric) float64     { return m.Revenue }

// GenerateDemoData synthesizes a daily series ending at the current UTC day:
// an upward trend plus a weekly seasonality cycle plus gaussian noise, with
// correlated user/pageview/conversion/revenue metrics. days must be positive.
func GenerateDemoData(rnd *rand.Rand, days int) ([]DailyMetric, error) {
	return GenerateDemoDataEnding(rnd, days, util.TimeNowZ().Truncate(24*time.Hour))
}

// GenerateDemoDataEnding is GenerateDemoData with an explicit final day,
// used for reproducible runs.
func GenerateDemoDataEnding(rnd *rand.Rand, days int, end time.Time) ([]DailyMetric, error) {
	if days < 1 {
		return nil, errors.Errorf("invalid days %d", days)
	}

	const (
		baseSessions = 1000.0
		trendTotal   = 200.0
		weeklySwing  = 150.0
		noiseStdDev  = 50.0
		floorValue   = 100
	)

	series := make([]DailyMetric, days)
	for i := 0; i < days; i++ {
		trend := 0.0
		if days > 1 {
			trend = trendTotal * float64(i) / float64(days-1)
		}
		seasonality := weeklySwing * math.Sin(float64(i)*2*math.Pi/7)
		noise := rnd.NormFloat64() * noiseStdDev

		sessions := util.MaxInt(floorValue, int(baseSessions+trend+seasonality+noise))
		users := int(float64(sessions) * uniformBetween(rnd, 0.6, 0.8))
		newUsers := int(float64(users) * uniformBetween(rnd, 0.3, 0.5))
		pageviews := int(float64(sessions) * uniformBetween(rnd, 2.5, 4.0))
		conversions := int(float64(sessions) * uniformBetween(rnd, 0.01, 0.05))

		series[i] = DailyMetric{
			Date:               end.AddDate(0, 0, i-days+1),
			Sessions:           sessions,
			TotalUsers:         users,
			NewUsers:           newUsers,
			ScreenPageViews:    pageviews,
			BounceRate:         uniformBetween(rnd, 0.35, 0.65),
			AvgSessionDuration: uniformBetween(rnd, 120, 300),
			Conversions:        conversions,
			Revenue:            float64(conversions) * uniformBetween(rnd, 50, 200),
		}
	}
	return series, nil
}

func uniformBetween(rnd *rand.Rand, min, max float64) float64 {
	return min + rnd.Float64()*(max-min)
}

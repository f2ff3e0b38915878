package analytics

import (
	"sort"

	"shoplens/cleaner"
	"shoplens/util"
)

// RateBreakdown is abandonment within one categorical group.
type RateBreakdown struct {
	Key             string  `json:"key"`
	Abandoned       int     `json:"abandoned"`
	Total           int     `json:"total"`
	AbandonmentRate float64 `json:"abandonment_rate"`
}

// HourBreakdown is abandonment within one hour of day.
type HourBreakdown struct {
	Hour            int     `json:"hour"`
	Abandoned       int     `json:"abandoned"`
	Total           int     `json:"total"`
	AbandonmentRate float64 `json:"abandonment_rate"`
}

// AbandonmentReport summarizes cart abandonment over sessions that added to
// cart, overall and broken down by device, channel and hour of day.
type AbandonmentReport struct {
	TotalCarts      int             `json:"total_carts"`
	AbandonedCarts  int             `json:"abandoned_carts"`
	AbandonmentRate float64         `json:"abandonment_rate"`
	ByDevice        []RateBreakdown `json:"by_device"`
	ByChannel       []RateBreakdown `json:"by_channel"`
	ByHour          []HourBreakdown `json:"by_hour"`
}

type rateCounter struct {
	abandoned int
	total     int
}

// CartAbandonmentAnalysis reports abandonment patterns. Sessions without
// cart activity are ignored; with no carts at all the report is zeroed with
// empty breakdowns.
func CartAbandonmentAnalysis(sessions []cleaner.Session) AbandonmentReport {
	report := AbandonmentReport{
		ByDevice:  []RateBreakdown{},
		ByChannel: []RateBreakdown{},
		ByHour:    []HourBreakdown{},
	}

	byDevice := make(map[string]*rateCounter)
	byChannel := make(map[string]*rateCounter)
	byHour := make(map[int]*rateCounter)

	for _, s := range sessions {
		if !s.AddedToCart {
			continue
		}
		report.TotalCarts++
		if s.CartAbandoned {
			report.AbandonedCarts++
		}
		count(byDevice, s.Device, s.CartAbandoned)
		count(byChannel, s.Channel, s.CartAbandoned)
		countHour(byHour, s.SessionHour, s.CartAbandoned)
	}

	if report.TotalCarts == 0 {
		return report
	}
	report.AbandonmentRate = util.SafeDivide(float64(report.AbandonedCarts), float64(report.TotalCarts))

	report.ByDevice = sortedBreakdown(byDevice)
	report.ByChannel = sortedBreakdown(byChannel)

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	for _, h := range hours {
		c := byHour[h]
		report.ByHour = append(report.ByHour, HourBreakdown{
			Hour:            h,
			Abandoned:       c.abandoned,
			Total:           c.total,
			AbandonmentRate: util.SafeDivide(float64(c.abandoned), float64(c.total)),
		})
	}
	return report
}

func count(counters map[string]*rateCounter, key string, abandoned bool) {
	c, ok := counters[key]
	if !ok {
		c = &rateCounter{}
		counters[key] = c
	}
	c.total++
	if abandoned {
		c.abandoned++
	}
}

func countHour(counters map[int]*rateCounter, hour int, abandoned bool) {
	c, ok := counters[hour]
	if !ok {
		c = &rateCounter{}
		counters[hour] = c
	}
	c.total++
	if abandoned {
		c.abandoned++
	}
}

func sortedBreakdown(counters map[string]*rateCounter) []RateBreakdown {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]RateBreakdown, 0, len(keys))
	for _, k := range keys {
		c := counters[k]
		rows = append(rows, RateBreakdown{
			Key:             k,
			Abandoned:       c.abandoned,
			Total:           c.total,
			AbandonmentRate: util.SafeDivide(float64(c.abandoned), float64(c.total)),
		})
	}
	return rows
}

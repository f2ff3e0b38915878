package export

import (
	"strconv"

	"shoplens/analytics"
	"shoplens/cleaner"
	"shoplens/generator"
	"shoplens/timeseries"
	"shoplens/util"
)

// Table is a finished tabular result ready for a delimited sink. The
// serialization is stateless: there is no stored format or compatibility
// contract beyond the header row.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

// SessionsTable flattens cleaned sessions.
func SessionsTable(sessions []cleaner.Session) Table {
	t := Table{
		Name: "sessions",
		Header: []string{
			"session_id", "customer_id", "session_date", "device", "channel",
			"country", "is_returning", "pages_viewed", "time_on_site",
			"added_to_cart", "cart_abandoned", "converted", "session_hour",
			"session_day_of_week", "session_week", "engagement_level",
		},
	}
	for _, s := range sessions {
		t.Rows = append(t.Rows, []string{
			s.SessionID, s.CustomerID, s.SessionDate.Format(util.DATETIME_FORMAT_DB),
			s.Device, s.Channel, s.Country, formatBool(s.IsReturning),
			strconv.Itoa(s.PagesViewed), strconv.Itoa(s.TimeOnSite),
			formatBool(s.AddedToCart), formatBool(s.CartAbandoned), formatBool(s.Converted),
			strconv.Itoa(s.SessionHour), strconv.Itoa(s.SessionDayOfWeek),
			strconv.Itoa(s.SessionWeek), s.EngagementLevel,
		})
	}
	return t
}

// EventsTable flattens raw events.
func EventsTable(events []generator.Event) Table {
	t := Table{
		Name:   "events",
		Header: []string{"event_id", "session_id", "event_type", "event_time", "product_id", "product_name"},
	}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(e.EventID, 10), e.SessionID, e.EventType,
			e.EventTime.Format(util.DATETIME_FORMAT_DB), e.ProductID, e.ProductName,
		})
	}
	return t
}

// TransactionsTable flattens cleaned transaction lines.
func TransactionsTable(transactions []cleaner.Transaction) Table {
	t := Table{
		Name: "transactions",
		Header: []string{
			"transaction_id", "session_id", "customer_id", "transaction_date",
			"product_id", "product_name", "category", "quantity", "unit_price",
			"total_amount", "order_total", "device", "channel", "country",
			"transaction_month", "transaction_week",
		},
	}
	for _, tx := range transactions {
		t.Rows = append(t.Rows, []string{
			tx.TransactionID, tx.SessionID, tx.CustomerID,
			tx.TransactionDate.Format(util.DATETIME_FORMAT_DB),
			tx.ProductID, tx.ProductName, tx.Category,
			strconv.Itoa(tx.Quantity), formatFloat(tx.UnitPrice),
			formatFloat(tx.TotalAmount), formatFloat(tx.OrderTotal),
			tx.Device, tx.Channel, tx.Country,
			tx.TransactionMonth, strconv.Itoa(tx.TransactionWeek),
		})
	}
	return t
}

// CustomersTable flattens the customer summary.
func CustomersTable(customers []cleaner.CustomerSummary) Table {
	t := Table{
		Name: "customers",
		Header: []string{
			"customer_id", "total_sessions", "first_session", "last_session",
			"total_conversions", "avg_time_on_site", "avg_pages_viewed",
			"total_cart_abandonments", "total_orders", "total_revenue",
			"conversion_rate", "avg_order_value", "recency_days",
		},
	}
	for _, c := range customers {
		t.Rows = append(t.Rows, []string{
			c.CustomerID, strconv.Itoa(c.TotalSessions),
			c.FirstSession.Format(util.DATETIME_FORMAT_DB),
			c.LastSession.Format(util.DATETIME_FORMAT_DB),
			strconv.Itoa(c.TotalConversions), formatFloat(c.AvgTimeOnSite),
			formatFloat(c.AvgPagesViewed), strconv.Itoa(c.TotalCartAbandonments),
			strconv.Itoa(c.TotalOrders), formatFloat(c.TotalRevenue),
			formatFloat(c.ConversionRate), formatFloat(c.AvgOrderValue),
			strconv.Itoa(c.RecencyDays),
		})
	}
	return t
}

// CLVTable flattens the CLV analysis.
func CLVTable(rows []analytics.CustomerCLV) Table {
	t := Table{
		Name: "customer_clv",
		Header: []string{
			"customer_id", "total_orders", "historical_clv", "customer_age_months",
			"purchase_frequency_monthly", "predicted_clv", "total_clv", "clv_segment",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CustomerID, strconv.Itoa(r.TotalOrders), formatFloat(r.HistoricalCLV),
			formatFloat(r.CustomerAgeMonths), formatFloat(r.PurchaseFrequencyMonthly),
			formatFloat(r.PredictedCLV), formatFloat(r.TotalCLV), r.CLVSegment,
		})
	}
	return t
}

// RFMTable flattens the RFM analysis.
func RFMTable(rows []analytics.CustomerRFM) Table {
	t := Table{
		Name: "customer_rfm",
		Header: []string{
			"customer_id", "recency_days", "total_orders", "total_revenue",
			"r_score", "f_score", "m_score", "rfm_score", "rfm_segment",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CustomerID, strconv.Itoa(r.RecencyDays), strconv.Itoa(r.TotalOrders),
			formatFloat(r.TotalRevenue), strconv.Itoa(r.RScore), strconv.Itoa(r.FScore),
			strconv.Itoa(r.MScore), strconv.Itoa(r.RFMScore), r.RFMSegment,
		})
	}
	return t
}

// ProductsTable flattens product performance.
func ProductsTable(rows []analytics.ProductPerformance) Table {
	t := Table{
		Name: "product_performance",
		Header: []string{
			"product_id", "product_name", "category", "units_sold", "revenue",
			"num_orders", "unit_price", "revenue_share", "avg_quantity_per_order",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.ProductID, r.ProductName, r.Category, strconv.Itoa(r.UnitsSold),
			formatFloat(r.Revenue), strconv.Itoa(r.NumOrders), formatFloat(r.UnitPrice),
			formatFloat(r.RevenueShare), formatFloat(r.AvgQuantityPerOrder),
		})
	}
	return t
}

// SegmentsTable flattens customer segmentation labels.
func SegmentsTable(rows []analytics.CustomerSegment) Table {
	t := Table{
		Name:   "customer_segments",
		Header: []string{"customer_id", "total_orders", "total_revenue", "segment", "segment_name"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CustomerID, strconv.Itoa(r.TotalOrders), formatFloat(r.TotalRevenue),
			strconv.Itoa(r.Segment), r.SegmentName,
		})
	}
	return t
}

// AbandonmentTable flattens an abandonment report into one long-format
// table with a dimension column.
func AbandonmentTable(report analytics.AbandonmentReport) Table {
	t := Table{
		Name:   "cart_abandonment",
		Header: []string{"dimension", "key", "abandoned", "total", "abandonment_rate"},
	}
	t.Rows = append(t.Rows, []string{
		"overall", "", strconv.Itoa(report.AbandonedCarts),
		strconv.Itoa(report.TotalCarts), formatFloat(report.AbandonmentRate),
	})
	for _, b := range report.ByDevice {
		t.Rows = append(t.Rows, []string{"device", b.Key, strconv.Itoa(b.Abandoned), strconv.Itoa(b.Total), formatFloat(b.AbandonmentRate)})
	}
	for _, b := range report.ByChannel {
		t.Rows = append(t.Rows, []string{"channel", b.Key, strconv.Itoa(b.Abandoned), strconv.Itoa(b.Total), formatFloat(b.AbandonmentRate)})
	}
	for _, b := range report.ByHour {
		t.Rows = append(t.Rows, []string{"hour", strconv.Itoa(b.Hour), strconv.Itoa(b.Abandoned), strconv.Itoa(b.Total), formatFloat(b.AbandonmentRate)})
	}
	return t
}

// TimeSeriesTable flattens the daily demo metrics.
func TimeSeriesTable(series []timeseries.DailyMetric) Table {
	t := Table{
		Name: "daily_metrics",
		Header: []string{
			"date", "sessions", "total_users", "new_users", "screen_page_views",
			"bounce_rate", "avg_session_duration", "conversions", "revenue",
		},
	}
	for _, m := range series {
		t.Rows = append(t.Rows, []string{
			m.Date.Format(util.DATETIME_FORMAT_YYYYMMDD_HYPHEN),
			strconv.Itoa(m.Sessions), strconv.Itoa(m.TotalUsers), strconv.Itoa(m.NewUsers),
			strconv.Itoa(m.ScreenPageViews), formatFloat(m.BounceRate),
			formatFloat(m.AvgSessionDuration), strconv.Itoa(m.Conversions),
			formatFloat(m.Revenue),
		})
	}
	return t
}

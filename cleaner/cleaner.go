package cleaner

import (
	"sort"
	"time"

	"github.com/jinzhu/now"
	log "github.com/sirupsen/logrus"

	"shoplens/generator"
	"shoplens/util"
)

// Engagement tiers over time_on_site seconds: [0,30) Very Low, [30,120) Low,
// [120,300) Medium, [300,inf) High.
const (
	EngagementVeryLow = "Very Low"
	EngagementLow     = "Low"
	EngagementMedium  = "Medium"
	EngagementHigh    = "High"

	unknownCategory = "Unknown"
)

// Session is a cleaned session row with derived time and engagement columns.
type Session struct {
	generator.Session
	SessionHour      int    `json:"session_hour"`
	SessionDayOfWeek int    `json:"session_day_of_week"`
	SessionWeek      int    `json:"session_week"`
	EngagementLevel  string `json:"engagement_level"`
}

// Transaction is a cleaned transaction line with derived period columns.
type Transaction struct {
	generator.TransactionLine
	TransactionMonth string `json:"transaction_month"`
	TransactionWeek  int    `json:"transaction_week"`
}

// CustomerSummary is one row per distinct customer appearing in sessions.
// Purchase columns are zero-filled for customers who never ordered.
type CustomerSummary struct {
	CustomerID            string    `json:"customer_id"`
	TotalSessions         int       `json:"total_sessions"`
	FirstSession          time.Time `json:"first_session"`
	LastSession           time.Time `json:"last_session"`
	TotalConversions      int       `json:"total_conversions"`
	AvgTimeOnSite         float64   `json:"avg_time_on_site"`
	AvgPagesViewed        float64   `json:"avg_pages_viewed"`
	TotalCartAbandonments int       `json:"total_cart_abandonments"`
	TotalOrders           int       `json:"total_orders"`
	TotalRevenue          float64   `json:"total_revenue"`
	FirstPurchase         time.Time `json:"first_purchase,omitempty"`
	LastPurchase          time.Time `json:"last_purchase,omitempty"`
	ConversionRate        float64   `json:"conversion_rate"`
	AvgOrderValue         float64   `json:"avg_order_value"`
	RecencyDays           int       `json:"recency_days"`
}

// EngagementLevel buckets time_on_site seconds into the ordered tiers.
func EngagementLevel(timeOnSite int) string {
	switch {
	case timeOnSite < 30:
		return EngagementVeryLow
	case timeOnSite < 120:
		return EngagementLow
	case timeOnSite < 300:
		return EngagementMedium
	default:
		return EngagementHigh
	}
}

// CleanSessions normalizes raw sessions: duplicate session ids are dropped
// keeping the first occurrence, empty categoricals become "Unknown", and
// hour/day-of-week/ISO-week/engagement columns are derived. The input is not
// mutated and may be empty.
func CleanSessions(sessions []generator.Session) []Session {
	cleaned := make([]Session, 0, len(sessions))
	seen := make(map[string]struct{}, len(sessions))

	dropped := 0
	for _, raw := range sessions {
		if _, dup := seen[raw.SessionID]; dup {
			dropped++
			continue
		}
		seen[raw.SessionID] = struct{}{}

		s := Session{Session: raw}
		if s.Device == "" {
			s.Device = unknownCategory
		}
		if s.Channel == "" {
			s.Channel = unknownCategory
		}
		if s.Country == "" {
			s.Country = unknownCategory
		}

		s.SessionHour = s.SessionDate.Hour()
		s.SessionDayOfWeek = util.DayOfWeekMondayFirst(s.SessionDate)
		_, s.SessionWeek = s.SessionDate.ISOWeek()
		s.EngagementLevel = EngagementLevel(s.TimeOnSite)

		cleaned = append(cleaned, s)
	}

	if dropped > 0 {
		log.WithFields(log.Fields{"dropped": dropped}).Warn("Dropped duplicate session ids.")
	}
	return cleaned
}

// CleanTransactions normalizes raw transaction lines, dropping rows with
// non-positive amount or quantity and deriving month/week periods.
func CleanTransactions(transactions []generator.TransactionLine) []Transaction {
	cleaned := make([]Transaction, 0, len(transactions))

	dropped := 0
	for _, raw := range transactions {
		if raw.TotalAmount <= 0 || raw.Quantity <= 0 {
			dropped++
			continue
		}

		tx := Transaction{TransactionLine: raw}
		tx.TransactionMonth = now.New(tx.TransactionDate).BeginningOfMonth().
			Format(util.DATETIME_FORMAT_MONTH_PERIOD)
		_, tx.TransactionWeek = tx.TransactionDate.ISOWeek()

		cleaned = append(cleaned, tx)
	}

	if dropped > 0 {
		log.WithFields(log.Fields{"dropped": dropped}).Warn("Dropped invalid transaction lines.")
	}
	return cleaned
}

type sessionAccumulator struct {
	sessions         int
	firstSession     time.Time
	lastSession      time.Time
	conversions      int
	timeOnSiteSum    float64
	pagesViewedSum   float64
	cartAbandonments int
}

type transactionAccumulator struct {
	orders        map[string]struct{}
	revenue       float64
	firstPurchase time.Time
	lastPurchase  time.Time
}

// CreateCustomerSummary folds cleaned sessions and transactions into one
// customer-level table. recency_days is measured against the dataset-wide
// maximum session date, never wall-clock time. Rows are ordered by customer
// id for deterministic output.
func CreateCustomerSummary(sessions []Session, transactions []Transaction) []CustomerSummary {
	if len(sessions) == 0 {
		return []CustomerSummary{}
	}

	var datasetMax time.Time
	bySession := make(map[string]*sessionAccumulator)
	for _, s := range sessions {
		acc, ok := bySession[s.CustomerID]
		if !ok {
			acc = &sessionAccumulator{firstSession: s.SessionDate, lastSession: s.SessionDate}
			bySession[s.CustomerID] = acc
		}
		acc.sessions++
		if s.SessionDate.Before(acc.firstSession) {
			acc.firstSession = s.SessionDate
		}
		if s.SessionDate.After(acc.lastSession) {
			acc.lastSession = s.SessionDate
		}
		if s.Converted {
			acc.conversions++
		}
		if s.CartAbandoned {
			acc.cartAbandonments++
		}
		acc.timeOnSiteSum += float64(s.TimeOnSite)
		acc.pagesViewedSum += float64(s.PagesViewed)

		if s.SessionDate.After(datasetMax) {
			datasetMax = s.SessionDate
		}
	}

	byTransaction := make(map[string]*transactionAccumulator)
	for _, tx := range transactions {
		acc, ok := byTransaction[tx.CustomerID]
		if !ok {
			acc = &transactionAccumulator{
				orders:        make(map[string]struct{}),
				firstPurchase: tx.TransactionDate,
				lastPurchase:  tx.TransactionDate,
			}
			byTransaction[tx.CustomerID] = acc
		}
		acc.orders[tx.TransactionID] = struct{}{}
		acc.revenue += tx.TotalAmount
		if tx.TransactionDate.Before(acc.firstPurchase) {
			acc.firstPurchase = tx.TransactionDate
		}
		if tx.TransactionDate.After(acc.lastPurchase) {
			acc.lastPurchase = tx.TransactionDate
		}
	}

	customerIDs := make([]string, 0, len(bySession))
	for id := range bySession {
		customerIDs = append(customerIDs, id)
	}
	sort.Strings(customerIDs)

	summaries := make([]CustomerSummary, 0, len(customerIDs))
	for _, id := range customerIDs {
		acc := bySession[id]
		summary := CustomerSummary{
			CustomerID:            id,
			TotalSessions:         acc.sessions,
			FirstSession:          acc.firstSession,
			LastSession:           acc.lastSession,
			TotalConversions:      acc.conversions,
			AvgTimeOnSite:         acc.timeOnSiteSum / float64(acc.sessions),
			AvgPagesViewed:        acc.pagesViewedSum / float64(acc.sessions),
			TotalCartAbandonments: acc.cartAbandonments,
		}

		// Left join: customers with no purchases stay zero-filled.
		if txAcc, ok := byTransaction[id]; ok {
			summary.TotalOrders = len(txAcc.orders)
			summary.TotalRevenue = txAcc.revenue
			summary.FirstPurchase = txAcc.firstPurchase
			summary.LastPurchase = txAcc.lastPurchase
		}

		summary.ConversionRate = util.SafeDivide(float64(summary.TotalConversions), float64(summary.TotalSessions))
		summary.AvgOrderValue = util.SafeDivide(summary.TotalRevenue, float64(summary.TotalOrders))
		summary.RecencyDays = util.DaysBetween(summary.LastSession, datasetMax)

		summaries = append(summaries, summary)
	}
	return summaries
}

package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplens/generator"
)

func sessionAt(id, customer string, date time.Time) generator.Session {
	return generator.Session{
		SessionID:   id,
		CustomerID:  customer,
		SessionDate: date,
		Device:      "Desktop",
		Channel:     "Direct",
		Country:     "USA",
		PagesViewed: 3,
		TimeOnSite:  100,
	}
}

func TestCleanSessionsDerivedColumns(t *testing.T) {
	// 2024-06-05 was a Wednesday, ISO week 23.
	date := time.Date(2024, 6, 5, 14, 30, 0, 0, time.UTC)
	cleaned := CleanSessions([]generator.Session{sessionAt("S1", "C1", date)})
	require.Len(t, cleaned, 1)

	assert.Equal(t, 14, cleaned[0].SessionHour)
	assert.Equal(t, 2, cleaned[0].SessionDayOfWeek)
	assert.Equal(t, 23, cleaned[0].SessionWeek)
	assert.Equal(t, EngagementLow, cleaned[0].EngagementLevel)
}

func TestCleanSessionsDropsDuplicatesKeepingFirst(t *testing.T) {
	date := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	first := sessionAt("S1", "C1", date)
	duplicate := sessionAt("S1", "C2", date.Add(time.Hour))

	cleaned := CleanSessions([]generator.Session{first, duplicate, sessionAt("S2", "C3", date)})
	require.Len(t, cleaned, 2)
	assert.Equal(t, "C1", cleaned[0].CustomerID)
	assert.Equal(t, "S2", cleaned[1].SessionID)
}

func TestCleanSessionsFillsUnknownCategoricals(t *testing.T) {
	raw := sessionAt("S1", "C1", time.Now().UTC())
	raw.Device = ""
	raw.Channel = ""

	cleaned := CleanSessions([]generator.Session{raw})
	require.Len(t, cleaned, 1)
	assert.Equal(t, "Unknown", cleaned[0].Device)
	assert.Equal(t, "Unknown", cleaned[0].Channel)
	assert.Equal(t, "USA", cleaned[0].Country)
}

func TestEngagementLevelBoundaries(t *testing.T) {
	assert.Equal(t, EngagementVeryLow, EngagementLevel(0))
	assert.Equal(t, EngagementVeryLow, EngagementLevel(29))
	assert.Equal(t, EngagementLow, EngagementLevel(30))
	assert.Equal(t, EngagementLow, EngagementLevel(119))
	assert.Equal(t, EngagementMedium, EngagementLevel(120))
	assert.Equal(t, EngagementMedium, EngagementLevel(299))
	assert.Equal(t, EngagementHigh, EngagementLevel(300))
	assert.Equal(t, EngagementHigh, EngagementLevel(100000))
}

func TestCleanSessionsEmptyInput(t *testing.T) {
	assert.Empty(t, CleanSessions(nil))
	assert.Empty(t, CleanSessions([]generator.Session{}))
}

func TestCleanTransactions(t *testing.T) {
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	valid := generator.TransactionLine{
		TransactionID: "T1", SessionID: "S1", CustomerID: "C1",
		TransactionDate: date, ProductID: "P1", Quantity: 2,
		UnitPrice: 10, TotalAmount: 20, OrderTotal: 20,
	}
	zeroAmount := valid
	zeroAmount.TotalAmount = 0
	zeroQuantity := valid
	zeroQuantity.Quantity = 0

	cleaned := CleanTransactions([]generator.TransactionLine{valid, zeroAmount, zeroQuantity})
	require.Len(t, cleaned, 1)
	assert.Equal(t, "2024-03", cleaned[0].TransactionMonth)
	assert.Equal(t, 11, cleaned[0].TransactionWeek)
}

func TestCreateCustomerSummary(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	s1 := sessionAt("S1", "C1", base)
	s1.Converted = true
	s2 := sessionAt("S2", "C1", base.AddDate(0, 0, 10))
	s3 := sessionAt("S3", "C2", base.AddDate(0, 0, 20))
	s3.CartAbandoned = true
	s3.AddedToCart = true

	sessions := CleanSessions([]generator.Session{s1, s2, s3})
	transactions := CleanTransactions([]generator.TransactionLine{
		{TransactionID: "T1", SessionID: "S1", CustomerID: "C1",
			TransactionDate: base, ProductID: "P1", Quantity: 1,
			UnitPrice: 50, TotalAmount: 50, OrderTotal: 80},
		{TransactionID: "T1", SessionID: "S1", CustomerID: "C1",
			TransactionDate: base, ProductID: "P2", Quantity: 2,
			UnitPrice: 15, TotalAmount: 30, OrderTotal: 80},
	})

	summaries := CreateCustomerSummary(sessions, transactions)
	require.Len(t, summaries, 2)

	c1 := summaries[0]
	assert.Equal(t, "C1", c1.CustomerID)
	assert.Equal(t, 2, c1.TotalSessions)
	assert.Equal(t, 1, c1.TotalConversions)
	assert.Equal(t, 0.5, c1.ConversionRate)
	// Two lines, one distinct transaction id.
	assert.Equal(t, 1, c1.TotalOrders)
	assert.Equal(t, 80.0, c1.TotalRevenue)
	assert.Equal(t, 80.0, c1.AvgOrderValue)
	// Dataset max is C2's session at day 20; C1's last session is day 10.
	assert.Equal(t, 10, c1.RecencyDays)

	c2 := summaries[1]
	assert.Equal(t, "C2", c2.CustomerID)
	assert.Equal(t, 0, c2.TotalOrders)
	assert.Equal(t, 0.0, c2.TotalRevenue)
	assert.Equal(t, 0.0, c2.AvgOrderValue)
	assert.Equal(t, 0.0, c2.ConversionRate)
	assert.Equal(t, 1, c2.TotalCartAbandonments)
	assert.Equal(t, 0, c2.RecencyDays)
	assert.True(t, c2.FirstPurchase.IsZero())
}

func TestCreateCustomerSummaryEmptyInputs(t *testing.T) {
	assert.Empty(t, CreateCustomerSummary(nil, nil))

	sessions := CleanSessions([]generator.Session{
		sessionAt("S1", "C1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	summaries := CreateCustomerSummary(sessions, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].TotalOrders)
	assert.True(t, summaries[0].ConversionRate >= 0 && summaries[0].ConversionRate <= 1)
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplens/cleaner"
	"shoplens/generator"
)

func cartSession(id, device, channel string, hour int, abandoned bool) cleaner.Session {
	return cleaner.Session{
		Session: generator.Session{
			SessionID:     id,
			CustomerID:    "C1",
			SessionDate:   time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC),
			Device:        device,
			Channel:       channel,
			Country:       "USA",
			AddedToCart:   true,
			CartAbandoned: abandoned,
		},
		SessionHour: hour,
	}
}

func TestCartAbandonmentAnalysis(t *testing.T) {
	sessions := []cleaner.Session{
		cartSession("S1", "Desktop", "Email", 9, true),
		cartSession("S2", "Desktop", "Email", 9, false),
		cartSession("S3", "Mobile", "Direct", 14, true),
		cartSession("S4", "Mobile", "Direct", 14, true),
		// No cart activity: ignored entirely.
		{Session: generator.Session{SessionID: "S5", Device: "Tablet", Channel: "Referral"}},
	}

	report := CartAbandonmentAnalysis(sessions)
	assert.Equal(t, 4, report.TotalCarts)
	assert.Equal(t, 3, report.AbandonedCarts)
	assert.Equal(t, 0.75, report.AbandonmentRate)

	require.Len(t, report.ByDevice, 2)
	// Breakdown keys are sorted.
	assert.Equal(t, "Desktop", report.ByDevice[0].Key)
	assert.Equal(t, 0.5, report.ByDevice[0].AbandonmentRate)
	assert.Equal(t, "Mobile", report.ByDevice[1].Key)
	assert.Equal(t, 1.0, report.ByDevice[1].AbandonmentRate)

	require.Len(t, report.ByChannel, 2)
	assert.Equal(t, "Direct", report.ByChannel[0].Key)

	require.Len(t, report.ByHour, 2)
	assert.Equal(t, 9, report.ByHour[0].Hour)
	assert.Equal(t, 2, report.ByHour[0].Total)
	assert.Equal(t, 14, report.ByHour[1].Hour)
}

func TestCartAbandonmentAnalysisNoCarts(t *testing.T) {
	sessions := []cleaner.Session{
		{Session: generator.Session{SessionID: "S1", Device: "Desktop"}},
	}

	report := CartAbandonmentAnalysis(sessions)
	assert.Equal(t, 0, report.TotalCarts)
	assert.Equal(t, 0, report.AbandonedCarts)
	assert.Equal(t, 0.0, report.AbandonmentRate)
	assert.Empty(t, report.ByDevice)
	assert.Empty(t, report.ByChannel)
	assert.Empty(t, report.ByHour)

	empty := CartAbandonmentAnalysis(nil)
	assert.Equal(t, 0, empty.TotalCarts)
	assert.NotNil(t, empty.ByDevice)
}

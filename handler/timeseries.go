package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"shoplens/timeseries"
)

var metricColumns = map[string]timeseries.Column{
	"sessions":    timeseries.SessionsColumn,
	"total_users": timeseries.TotalUsersColumn,
	"conversions": timeseries.ConversionsColumn,
	"revenue":     timeseries.RevenueColumn,
}

func (a *App) GetTimeSeriesHandler(c *gin.Context) {
	series, err := a.getSeries(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (a *App) GetTrendsHandler(c *gin.Context) {
	series, err := a.getSeries(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, timeseries.DetectTrends(series))
}

// GetAnomaliesHandler runs IQR detection on the requested metric column,
// defaulting to sessions.
func (a *App) GetAnomaliesHandler(c *gin.Context) {
	series, err := a.getSeries(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	metric := c.DefaultQuery("metric", "sessions")
	column, ok := metricColumns[metric]
	if !ok {
		abortBadRequest(c, errors.Errorf("unknown metric '%s'", metric))
		return
	}
	c.JSON(http.StatusOK, timeseries.DetectAnomalies(series, column))
}

func (a *App) GetClustersHandler(c *gin.Context) {
	series, err := a.getSeries(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	nClusters, err := intQuery(c, "n_clusters", timeseries.DefaultActivityClusters)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	rows, profiles, err := timeseries.PerformClustering(series, nClusters)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": rows, "profiles": profiles})
}

package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"shoplens/export"
	"shoplens/quickchart"
	"shoplens/util"
)

const topProductsInChart = 10

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetAnalysisSummaryHandler runs the complete analysis and returns the
// headline numbers plus the per-segment summaries.
func (a *App) GetAnalysisSummaryHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_sessions":          len(results.Sessions),
		"total_transactions":      len(results.Transactions),
		"total_customers":         len(results.Customers),
		"total_revenue":           util.RoundFloat(results.TotalRevenue(), util.DefaultPrecision),
		"overall_conversion_rate": util.RoundFloat(results.OverallConversionRate(), 4),
		"cart_abandonment_rate":   util.RoundFloat(results.Abandonment.AbandonmentRate, 4),
		"segment_summaries":       results.SegmentSummaries,
	})
}

func (a *App) GetCustomerCLVHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, results.CustomerCLV)
}

func (a *App) GetCustomerRFMHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, results.CustomerRFM)
}

func (a *App) GetCustomerSegmentsHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customers": results.CustomerSegments,
		"summaries": results.SegmentSummaries,
	})
}

func (a *App) GetAbandonmentHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, results.Abandonment)
}

func (a *App) GetProductPerformanceHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, results.Products)
}

// GetChartsHandler returns quickchart URLs for the headline visuals.
func (a *App) GetChartsHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	productChart, err := quickchart.GetChartImageUrlForConfig(
		quickchart.ProductRevenueChartConfig(results.Products, topProductsInChart))
	if err != nil {
		log.WithError(err).Error("Failed to build product revenue chart url.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to build chart url"})
		return
	}
	segmentTable, err := quickchart.GetTableURLfromTableConfig(
		quickchart.SegmentSummaryTableConfig(results.SegmentSummaries))
	if err != nil {
		log.WithError(err).Error("Failed to build segment table url.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to build table url"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_revenue_chart": productChart,
		"segment_summary_table": segmentTable,
	})
}

// DownloadTableHandler streams one result table as a CSV attachment. The
// :table path param must match a table name from the export package.
func (a *App) DownloadTableHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	name := c.Param("table")
	for _, table := range export.ResultTables(results) {
		if table.Name != name {
			continue
		}
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, table); err != nil {
			log.WithError(err).Error("Failed to serialize table.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize table"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown table '%s'", name)})
}

// DownloadWorkbookHandler streams every result table as one xlsx attachment.
func (a *App) DownloadWorkbookHandler(c *gin.Context) {
	results, err := a.getAnalysis(c)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, export.ResultTables(results)); err != nil {
		log.WithError(err).Error("Failed to serialize workbook.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize workbook"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=ecommerce_analysis.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

package handler

import (
	"github.com/gin-gonic/gin"
)

func InitRoutes(r *gin.Engine, app *App) {
	r.Use(RequestLogger())
	r.Use(CustomCors())

	r.GET("/health", HealthHandler)

	r.GET("/demo/analysis", app.GetAnalysisSummaryHandler)
	r.GET("/demo/customers/clv", app.GetCustomerCLVHandler)
	r.GET("/demo/customers/rfm", app.GetCustomerRFMHandler)
	r.GET("/demo/customers/segments", app.GetCustomerSegmentsHandler)
	r.GET("/demo/abandonment", app.GetAbandonmentHandler)
	r.GET("/demo/products", app.GetProductPerformanceHandler)
	r.GET("/demo/charts", app.GetChartsHandler)
	r.GET("/demo/export/:table", app.DownloadTableHandler)
	r.GET("/demo/export", app.DownloadWorkbookHandler)

	r.GET("/timeseries/data", app.GetTimeSeriesHandler)
	r.GET("/timeseries/trends", app.GetTrendsHandler)
	r.GET("/timeseries/anomalies", app.GetAnomaliesHandler)
	r.GET("/timeseries/clusters", app.GetClustersHandler)

	r.POST("/ga4/connect", ConnectGA4Handler)
}

package main

import (
	"flag"
	"math/rand"

	log "github.com/sirupsen/logrus"

	C "shoplens/config"
	"shoplens/catalog"
	"shoplens/export"
	"shoplens/pipeline"
	"shoplens/timeseries"
	"shoplens/util"
)

// ./run_demo --seed=42 --visits_per_month=25000 --months=2 --out_dir=./out
func main() {
	outDir := flag.String("out_dir", "./shoplens_out", "Directory for CSV and workbook exports.")

	conf, err := C.Init()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}

	products := catalog.Default()
	if conf.CatalogFile != "" {
		if products, err = catalog.LoadFile(conf.CatalogFile); err != nil {
			log.WithError(err).Fatal("Failed to load catalog.")
		}
	}

	results, err := pipeline.RunCompleteAnalysis(pipeline.Options{
		Seed:           conf.Seed,
		VisitsPerMonth: conf.VisitsPerMonth,
		Months:         conf.Months,
		Products:       products,
	})
	if err != nil {
		log.WithError(err).Fatal("Analysis failed.")
	}

	log.WithFields(log.Fields{
		"sessions":              len(results.Sessions),
		"transactions":          len(results.Transactions),
		"customers":             len(results.Customers),
		"total_revenue":         util.RoundFloat(results.TotalRevenue(), util.DefaultPrecision),
		"conversion_rate":       util.RoundFloat(results.OverallConversionRate(), 4),
		"cart_abandonment_rate": util.RoundFloat(results.Abandonment.AbandonmentRate, 4),
	}).Info("E-commerce analysis summary.")

	for _, summary := range results.SegmentSummaries {
		log.WithFields(log.Fields{
			"segment":     summary.Segment,
			"customers":   summary.CustomerCount,
			"avg_revenue": summary.AvgRevenue,
		}).Info("Customer segment.")
	}

	series, err := timeseries.GenerateDemoData(rand.New(rand.NewSource(conf.Seed)), conf.DemoDays)
	if err != nil {
		log.WithError(err).Fatal("Failed to generate daily metrics.")
	}
	trends := timeseries.DetectTrends(series)
	anomalies := timeseries.DetectAnomalies(series, nil)
	log.WithFields(log.Fields{
		"days":        len(series),
		"direction":   trends.Direction,
		"slope":       util.RoundFloat(trends.Slope, util.DefaultPrecision),
		"growth_rate": util.RoundFloat(trends.GrowthRate, util.DefaultPrecision),
		"anomalies":   len(anomalies.Anomalies),
	}).Info("Traffic trend summary.")

	if err := export.DumpResults(*outDir, results); err != nil {
		log.WithError(err).Fatal("Export failed.")
	}
	if err := export.WriteCSVFile(*outDir, export.TimeSeriesTable(series)); err != nil {
		log.WithError(err).Fatal("Export failed.")
	}
}

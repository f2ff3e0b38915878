package pipeline

import (
	log "github.com/sirupsen/logrus"

	"shoplens/analytics"
	"shoplens/catalog"
	"shoplens/cleaner"
	"shoplens/generator"
)

// Results bundles every table the end-to-end analysis produces.
type Results struct {
	Sessions     []cleaner.Session
	Events       []generator.Event
	Transactions []cleaner.Transaction

	Customers        []cleaner.CustomerSummary
	CustomerCLV      []analytics.CustomerCLV
	CustomerRFM      []analytics.CustomerRFM
	Abandonment      analytics.AbandonmentReport
	Products         []analytics.ProductPerformance
	CustomerSegments []analytics.CustomerSegment
	SegmentSummaries []analytics.SegmentSummary
}

// Options parameterizes a complete run.
type Options struct {
	Seed             int64
	VisitsPerMonth   int
	Months           int
	ProjectionMonths int
	ClusterCount     int
	Products         []catalog.Product
}

func (o *Options) applyDefaults() {
	if o.ProjectionMonths == 0 {
		o.ProjectionMonths = analytics.DefaultProjectionMonths
	}
	if o.ClusterCount == 0 {
		o.ClusterCount = analytics.DefaultClusterCount
	}
	if len(o.Products) == 0 {
		o.Products = catalog.Default()
	}
}

// RunCompleteAnalysis generates a dataset, cleans it and runs every analysis.
// Each stage is a pure function of the previous stage's tables; the only
// state is the generator's seeded random stream.
func RunCompleteAnalysis(opts Options) (*Results, error) {
	opts.applyDefaults()

	log.WithFields(log.Fields{
		"seed":             opts.Seed,
		"visits_per_month": opts.VisitsPerMonth,
		"months":           opts.Months,
	}).Info("Running complete e-commerce analysis.")

	g := generator.NewSeeded(opts.Products, opts.Seed)
	ds, err := g.GenerateDataset(opts.VisitsPerMonth, opts.Months)
	if err != nil {
		return nil, err
	}

	results := &Results{Events: ds.Events}
	results.Sessions = cleaner.CleanSessions(ds.Sessions)
	results.Transactions = cleaner.CleanTransactions(ds.Transactions)
	results.Customers = cleaner.CreateCustomerSummary(results.Sessions, results.Transactions)

	if results.CustomerCLV, err = analytics.CalculateCLV(results.Customers, opts.ProjectionMonths); err != nil {
		return nil, err
	}
	results.CustomerRFM = analytics.RFMAnalysis(results.Customers)
	results.Abandonment = analytics.CartAbandonmentAnalysis(results.Sessions)
	results.Products = analytics.ProductPerformanceAnalysis(results.Transactions)

	if results.CustomerSegments, results.SegmentSummaries, err =
		analytics.CustomerSegmentation(results.Customers, opts.ClusterCount); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"sessions":     len(results.Sessions),
		"transactions": len(results.Transactions),
		"customers":    len(results.Customers),
	}).Info("Analysis complete.")
	return results, nil
}

// TotalRevenue sums all cleaned transaction line amounts.
func (r *Results) TotalRevenue() float64 {
	var total float64
	for _, tx := range r.Transactions {
		total += tx.TotalAmount
	}
	return total
}

// OverallConversionRate is converted sessions over all sessions, 0 when
// there are no sessions.
func (r *Results) OverallConversionRate() float64 {
	if len(r.Sessions) == 0 {
		return 0
	}
	converted := 0
	for _, s := range r.Sessions {
		if s.Converted {
			converted++
		}
	}
	return float64(converted) / float64(len(r.Sessions))
}
